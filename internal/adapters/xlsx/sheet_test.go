package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"edfmark/internal/config"
	"edfmark/internal/domain"
	"edfmark/internal/ports"
)

// writeFixture builds a sheet shaped like the session logs: time in C,
// label in D, a blank leading row, one row without a time.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "P1_20190717_1000.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"C2": "10:00:05.00", "D2": "Eyes Closed",
		"C3": "10:01:00", "D3": "Move",
		"D4": "Rest", // no timestamp
	}
	for ref, v := range cells {
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEvents(t *testing.T) {
	path := writeFixture(t)
	s := NewSheet(config.DefaultColumns())

	events, err := s.LoadEvents(path)
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Time != "10:00:05.00" || events[0].Label != "Eyes Closed" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[0].Row != 1 {
		t.Errorf("expected sheet row 1, got %d", events[0].Row)
	}
	if events[2].Time != "" || events[2].Label != "Rest" {
		t.Errorf("unexpected timeless event: %+v", events[2])
	}
}

func TestLoadEvents_MissingFile(t *testing.T) {
	s := NewSheet(config.DefaultColumns())
	if _, err := s.LoadEvents(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteStatuses_OnlyDesignatedColumns(t *testing.T) {
	path := writeFixture(t)
	s := NewSheet(config.DefaultColumns())

	err := s.WriteStatuses(path, []ports.StatusUpdate{
		{Row: 1, Status: domain.StatusIncluded, Relative: 5, HasRelative: true},
		{Row: 3, Status: domain.StatusNoTime},
	})
	if err != nil {
		t.Fatalf("WriteStatuses failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	if got, _ := f.GetCellValue(sheet, "F2"); got != "INCLUDED" {
		t.Errorf("expected INCLUDED in F2, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "E2"); got != "5.00" {
		t.Errorf("expected 5.00 in E2, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "F4"); got != "NO_TIME" {
		t.Errorf("expected NO_TIME in F4, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "E4"); got != "" {
		t.Errorf("relative must stay empty without a parsed time, got %q", got)
	}
	// Untouched columns keep their values.
	if got, _ := f.GetCellValue(sheet, "C2"); got != "10:00:05.00" {
		t.Errorf("time column disturbed: %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "D3"); got != "Move" {
		t.Errorf("label column disturbed: %q", got)
	}
}

func TestMarkPendingAndClearRelative(t *testing.T) {
	path := writeFixture(t)
	s := NewSheet(config.DefaultColumns())

	marked, err := s.MarkPending(path, 10*3600)
	if err != nil {
		t.Fatalf("MarkPending failed: %v", err)
	}
	if marked != 2 {
		t.Errorf("expected 2 marked rows, got %d", marked)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sheet := f.GetSheetName(0)
	if got, _ := f.GetCellValue(sheet, "E2"); got != "5.00" {
		t.Errorf("expected relative 5.00 in E2, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "F3"); got != "PENDING" {
		t.Errorf("expected PENDING in F3, got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "E4"); got != "" {
		t.Errorf("timeless row must stay unmarked, got %q", got)
	}
	f.Close()

	cleared, err := s.ClearRelative(path)
	if err != nil {
		t.Fatalf("ClearRelative failed: %v", err)
	}
	if !cleared {
		t.Fatalf("expected relative data to be cleared")
	}

	f, err = excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue(sheet, "E2"); got != "" {
		t.Errorf("expected E2 cleared, got %q", got)
	}
	// The status column survives a relative-time rollback.
	if got, _ := f.GetCellValue(sheet, "F2"); got != "PENDING" {
		t.Errorf("expected status column untouched, got %q", got)
	}

	cleared, err = s.ClearRelative(path)
	if err != nil {
		t.Fatalf("second ClearRelative failed: %v", err)
	}
	if cleared {
		t.Errorf("expected nothing left to clear")
	}
}
