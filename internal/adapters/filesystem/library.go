// Package filesystem locates recording sessions on disk, pairs EDF files
// with their companion spreadsheets and handles the backup/restore shuffle
// around a conversion.
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"edfmark/internal/domain"
)

// Library implements ports.RecordingLibrary over a base directory.
type Library struct {
	base string
}

// NewLibrary creates a library rooted at basePath. A leading ~ expands to
// the home directory.
func NewLibrary(basePath string) *Library {
	if strings.HasPrefix(basePath, "~") {
		home, _ := os.UserHomeDir()
		basePath = filepath.Join(home, basePath[1:])
	}
	return &Library{base: basePath}
}

// Base returns the library root.
func (l *Library) Base() string {
	return l.base
}

var (
	sessionRegex = regexp.MustCompile(`^\d+_`)
	// pairTokenRegex matches the id_YYYYMMDD_HHMM core of a recording
	// filename; the date group keys the pairing.
	pairTokenRegex = regexp.MustCompile(`(\d+)_(\d{8})_(\d{4})`)
	backupRegex    = regexp.MustCompile(`_backup_`)
)

// Sessions returns the base path and, recursively, every subdirectory whose
// name starts with digits followed by an underscore.
func (l *Library) Sessions() ([]string, error) {
	sessions := []string{l.base}

	err := filepath.WalkDir(l.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == l.base {
			return nil
		}
		if sessionRegex.MatchString(d.Name()) {
			sessions = append(sessions, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.base, err)
	}

	sort.Strings(sessions[1:])
	return sessions, nil
}

// Pairs matches each EDF file in dir with every spreadsheet sharing its
// 8-digit date token. The first token match in a filename wins. EDF files
// without a token are returned separately so the caller can log the skip.
// Backup artifacts and spreadsheet lock files are ignored.
func (l *Library) Pairs(dir string) ([]domain.FilePair, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var edfs []string
	var sheets []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, "~$"):
		case backupRegex.MatchString(name):
		case strings.EqualFold(filepath.Ext(name), ".edf"):
			edfs = append(edfs, name)
		case strings.EqualFold(filepath.Ext(name), ".xlsx"):
			sheets = append(sheets, name)
		}
	}
	sort.Strings(edfs)
	sort.Strings(sheets)

	var pairs []domain.FilePair
	var unmatched []string
	for _, edf := range edfs {
		m := pairTokenRegex.FindStringSubmatch(edf)
		if m == nil {
			unmatched = append(unmatched, filepath.Join(dir, edf))
			continue
		}
		dateKey := m[2]

		pair := domain.FilePair{
			EDFPath: filepath.Join(dir, edf),
			DateKey: dateKey,
		}
		for _, sheet := range sheets {
			if strings.Contains(sheet, dateKey) {
				pair.Sheets = append(pair.Sheets, filepath.Join(dir, sheet))
			}
		}
		pairs = append(pairs, pair)
	}

	return pairs, unmatched, nil
}

// Sheets lists the companion spreadsheets in dir, skipping lock files.
func (l *Library) Sheets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var sheets []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			sheets = append(sheets, filepath.Join(dir, name))
		}
	}
	sort.Strings(sheets)
	return sheets, nil
}

// Backup renames an EDF aside before conversion. The backup name embeds
// both stems so Restore can recover the original name and find the
// converted output: {origStem}_backup_{finalStem}.edf
func (l *Library) Backup(edfPath, finalStem string) (string, error) {
	dir := filepath.Dir(edfPath)
	origStem := strings.TrimSuffix(filepath.Base(edfPath), filepath.Ext(edfPath))

	backupPath := filepath.Join(dir, fmt.Sprintf("%s_backup_%s.edf", origStem, finalStem))
	if err := os.Rename(edfPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", edfPath, err)
	}
	return backupPath, nil
}

// Backups finds every backup file under the base path.
func (l *Library) Backups() ([]string, error) {
	var backups []string
	err := filepath.WalkDir(l.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.EqualFold(filepath.Ext(name), ".edf") && backupRegex.MatchString(name) {
			backups = append(backups, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.base, err)
	}
	sort.Strings(backups)
	return backups, nil
}

// Restore undoes one backup: the original filename comes back and the
// converted output, when it exists, is removed.
func (l *Library) Restore(backupPath string) (string, bool, error) {
	dir := filepath.Dir(backupPath)
	stem := strings.TrimSuffix(filepath.Base(backupPath), filepath.Ext(backupPath))

	origStem, finalStem, ok := strings.Cut(stem, "_backup_")
	if !ok {
		return "", false, fmt.Errorf("not a backup file: %s", backupPath)
	}

	origPath := filepath.Join(dir, origStem+".edf")
	if err := os.Rename(backupPath, origPath); err != nil {
		return "", false, fmt.Errorf("failed to restore %s: %w", backupPath, err)
	}

	removed := false
	if finalStem != "" {
		convertedPath := filepath.Join(dir, finalStem+".edf")
		if convertedPath != origPath {
			if err := os.Remove(convertedPath); err == nil {
				removed = true
			}
		}
	}

	return origPath, removed, nil
}
