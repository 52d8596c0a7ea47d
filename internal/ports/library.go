package ports

import "edfmark/internal/domain"

// RecordingLibrary defines the interface for locating and shuffling the
// recording files under a base directory.
type RecordingLibrary interface {
	// Base returns the base path the library was opened on.
	Base() string

	// Sessions returns the base path plus every subdirectory whose name
	// starts with digits followed by an underscore.
	Sessions() ([]string, error)

	// Pairs matches the EDF files in a session directory with their
	// companion spreadsheets by shared 8-digit date token. EDFs without a
	// recognizable token are reported in the second return value.
	Pairs(dir string) ([]domain.FilePair, []string, error)

	// Sheets lists the companion spreadsheets in a session directory.
	Sheets(dir string) ([]string, error)

	// Backup renames an EDF aside before conversion and returns the
	// backup path.
	Backup(edfPath, finalStem string) (string, error)

	// Backups finds every backup file under the base path.
	Backups() ([]string, error)

	// Restore undoes one backup: the original name comes back and the
	// converted output, when present, is removed. It returns the restored
	// path and whether a converted file was deleted.
	Restore(backupPath string) (string, bool, error)
}
