// Package xlsx implements spreadsheet access for companion event sheets
// using excelize. Only the designated relative-time and status columns are
// ever written; everything else in a sheet is left untouched.
package xlsx

import (
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"edfmark/internal/config"
	"edfmark/internal/domain"
	"edfmark/internal/ports"
)

// SheetError reports a spreadsheet that could not be loaded or saved.
type SheetError struct {
	Path string
	Err  error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("spreadsheet %s: %v", e.Path, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// Sheet implements ports.EventSheet with a fixed column mapping.
type Sheet struct {
	cols config.ColumnMapping
}

var _ ports.EventSheet = (*Sheet)(nil)

// NewSheet creates a sheet adapter for the given column mapping.
func NewSheet(cols config.ColumnMapping) *Sheet {
	return &Sheet{cols: cols}
}

// LoadEvents reads the raw event rows of the first worksheet. Rows with
// neither a timestamp nor a label are skipped; everything else is returned
// as-is for the aligner to judge. Row indices refer to the sheet as stored.
func (s *Sheet) LoadEvents(path string) ([]domain.RawEvent, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SheetError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, &SheetError{Path: path, Err: err}
	}

	var events []domain.RawEvent
	for i, row := range rows {
		timeCell := cell(row, s.cols.Time)
		labelCell := cell(row, s.cols.Label)
		if timeCell == "" && labelCell == "" {
			continue
		}
		events = append(events, domain.RawEvent{
			Time:  timeCell,
			Label: labelCell,
			Row:   i,
		})
	}

	return events, nil
}

// WriteStatuses persists classification decisions into the status column,
// and the relative time where one was computed.
func (s *Sheet) WriteStatuses(path string, updates []ports.StatusUpdate) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return &SheetError{Path: path, Err: err}
	}
	defer f.Close()

	name := f.GetSheetName(0)
	for _, u := range updates {
		if err := setCell(f, name, s.cols.Status, u.Row, u.Status.String()); err != nil {
			return &SheetError{Path: path, Err: err}
		}
		if u.HasRelative {
			if err := setCell(f, name, s.cols.Relative, u.Row, fmt.Sprintf("%.2f", u.Relative)); err != nil {
				return &SheetError{Path: path, Err: err}
			}
		}
	}

	if err := f.Save(); err != nil {
		return &SheetError{Path: path, Err: err}
	}
	return nil
}

// MarkPending writes the relative time and a PENDING status for every row
// whose timestamp parses, and reports the number of rows marked. Rows with
// unparsable timestamps are logged and left alone.
func (s *Sheet) MarkPending(path string, reference float64) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, &SheetError{Path: path, Err: err}
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return 0, &SheetError{Path: path, Err: err}
	}

	marked := 0
	for i, row := range rows {
		timeCell := cell(row, s.cols.Time)
		if timeCell == "" {
			continue
		}
		seconds, err := domain.ParseClockTime(timeCell)
		if err != nil {
			log.Printf("  warning: %s row %d: %v", path, i+1, err)
			continue
		}

		relative := domain.RelativeOffset(seconds, reference)
		if err := setCell(f, name, s.cols.Relative, i, fmt.Sprintf("%.2f", relative)); err != nil {
			return marked, &SheetError{Path: path, Err: err}
		}
		if err := setCell(f, name, s.cols.Status, i, domain.StatusPending.String()); err != nil {
			return marked, &SheetError{Path: path, Err: err}
		}
		marked++
	}

	if err := f.Save(); err != nil {
		return marked, &SheetError{Path: path, Err: err}
	}
	return marked, nil
}

// ClearRelative blanks the relative-time column, reporting whether the
// sheet held any relative-time data.
func (s *Sheet) ClearRelative(path string) (bool, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return false, &SheetError{Path: path, Err: err}
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return false, &SheetError{Path: path, Err: err}
	}

	cleared := false
	for i, row := range rows {
		if cell(row, s.cols.Relative) == "" {
			continue
		}
		if err := setCell(f, name, s.cols.Relative, i, ""); err != nil {
			return cleared, &SheetError{Path: path, Err: err}
		}
		cleared = true
	}

	if !cleared {
		return false, nil
	}
	if err := f.Save(); err != nil {
		return true, &SheetError{Path: path, Err: err}
	}
	return true, nil
}

// cell returns a trimmed cell value from a row by 1-based column, tolerating
// short rows.
func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

// setCell writes a value at a 1-based column and 0-based row.
func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	ref, err := excelize.CoordinatesToCellName(col, row+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, ref, value)
}
