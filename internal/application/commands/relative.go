package commands

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"edfmark/internal/application"
	"edfmark/internal/domain"
	"edfmark/internal/edf"
	"edfmark/internal/ports"
)

// RelativeResult contains the result of a pre-marking pass
type RelativeResult struct {
	Marked int // rows given a relative time and PENDING status
	Sheets int // sheets touched
	Pairs  int
}

// RelativeCommand writes each event's offset from the recording start into
// the companion sheets ahead of a conversion, so the timings can be reviewed
// before anything is rewritten
type RelativeCommand struct {
	library ports.RecordingLibrary
	sheets  ports.EventSheet
}

// NewRelativeCommand creates a new RelativeCommand
func NewRelativeCommand(library ports.RecordingLibrary, sheets ports.EventSheet) *RelativeCommand {
	return &RelativeCommand{
		library: library,
		sheets:  sheets,
	}
}

// Validate checks the command dependencies
func (c *RelativeCommand) Validate() error {
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

// Execute runs the pre-marking pass over every session directory.
func (c *RelativeCommand) Execute(ctx context.Context) (*RelativeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sessions, err := c.library.Sessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := &RelativeResult{}
	found := 0
	for _, dir := range sessions {
		pairs, _, err := c.library.Pairs(dir)
		if err != nil {
			log.Printf("skipping %s: %v", dir, err)
			continue
		}

		for _, pair := range pairs {
			found++
			if err := ctx.Err(); err != nil {
				return result, err
			}

			hdr, err := edf.ReadHeaderFile(pair.EDFPath)
			if err != nil {
				log.Printf("skipping %s: %v", filepath.Base(pair.EDFPath), err)
				continue
			}
			start, err := domain.ParseEDFClockTime(hdr.StartTime)
			if err != nil {
				log.Printf("skipping %s: %v", filepath.Base(pair.EDFPath), err)
				continue
			}

			result.Pairs++
			for _, sheetPath := range pair.Sheets {
				marked, err := c.sheets.MarkPending(sheetPath, start)
				if err != nil {
					log.Printf("skipping %s: %v", filepath.Base(sheetPath), err)
					continue
				}
				result.Sheets++
				result.Marked += marked
			}
		}
	}

	if found == 0 {
		return result, application.ErrNoPairs
	}
	return result, nil
}
