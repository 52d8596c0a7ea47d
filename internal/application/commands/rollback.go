package commands

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"edfmark/internal/application"
	"edfmark/internal/ports"
)

// RollbackResult contains the result of undoing previous runs
type RollbackResult struct {
	Restored []string // original EDF paths brought back
	Removed  int      // converted outputs deleted
	Cleared  int      // sheets whose relative-time column was blanked
}

// RollbackCommand restores backed-up EDF files to their original names,
// removes the converted outputs and blanks the relative-time columns the
// pre-marking pass wrote
type RollbackCommand struct {
	library ports.RecordingLibrary
	sheets  ports.EventSheet
}

// NewRollbackCommand creates a new RollbackCommand
func NewRollbackCommand(library ports.RecordingLibrary, sheets ports.EventSheet) *RollbackCommand {
	return &RollbackCommand{
		library: library,
		sheets:  sheets,
	}
}

// Validate checks the command dependencies
func (c *RollbackCommand) Validate() error {
	if c.library == nil {
		return &application.ValidationError{
			Field:   "library",
			Message: "recording library is required",
		}
	}
	if c.sheets == nil {
		return &application.ValidationError{
			Field:   "sheets",
			Message: "event sheet access is required",
		}
	}
	return nil
}

// Execute undoes every backup under the base path, then clears the sheets.
func (c *RollbackCommand) Execute(ctx context.Context) (*RollbackResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	backups, err := c.library.Backups()
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	result := &RollbackResult{}
	for _, backupPath := range backups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		restored, removed, err := c.library.Restore(backupPath)
		if err != nil {
			log.Printf("cannot restore %s: %v", filepath.Base(backupPath), err)
			continue
		}
		result.Restored = append(result.Restored, restored)
		if removed {
			result.Removed++
		}
		log.Printf("restored %s", filepath.Base(restored))
	}

	sessions, err := c.library.Sessions()
	if err != nil {
		return result, fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, dir := range sessions {
		sheetPaths, err := c.library.Sheets(dir)
		if err != nil {
			log.Printf("skipping %s: %v", dir, err)
			continue
		}
		for _, sheetPath := range sheetPaths {
			had, err := c.sheets.ClearRelative(sheetPath)
			if err != nil {
				log.Printf("cannot clear %s: %v", filepath.Base(sheetPath), err)
				continue
			}
			if had {
				result.Cleared++
			}
		}
	}

	if len(backups) == 0 && result.Cleared == 0 {
		return result, application.ErrNoBackups
	}
	return result, nil
}
