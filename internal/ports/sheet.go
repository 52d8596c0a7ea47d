package ports

import "edfmark/internal/domain"

// StatusUpdate is one write-back destined for a spreadsheet row. Only the
// designated relative-time and status columns are touched.
type StatusUpdate struct {
	Row         int // 0-based sheet row
	Status      domain.EventStatus
	Relative    float64 // seconds since the reference instant
	HasRelative bool    // false for rows whose timestamp never parsed
}

// EventSheet defines the interface for companion spreadsheet access.
type EventSheet interface {
	// LoadEvents reads the raw event rows, skipping rows with neither a
	// timestamp nor a label. Row indices refer to the sheet as stored.
	LoadEvents(path string) ([]domain.RawEvent, error)

	// WriteStatuses persists classification decisions back into the
	// designated columns without disturbing the rest of the sheet.
	WriteStatuses(path string, updates []StatusUpdate) error

	// MarkPending writes the relative time and a PENDING status for every
	// row with a parsable timestamp, and reports how many rows it marked.
	MarkPending(path string, reference float64) (int, error)

	// ClearRelative blanks the relative-time column, reporting whether
	// the sheet held any relative-time data.
	ClearRelative(path string) (bool, error)
}
