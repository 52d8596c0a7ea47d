package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edfmark/internal/adapters/filesystem"
	"edfmark/internal/adapters/xlsx"
	"edfmark/internal/application"
	"edfmark/internal/config"
)

func TestRollbackUndoesConversion(t *testing.T) {
	base, edfPath, sheetPath := newSession(t, 10, 10, [][2]string{
		{"10:00:05", "Eyes Closed"},
	})
	original, err := os.ReadFile(edfPath)
	if err != nil {
		t.Fatal(err)
	}

	lib := filesystem.NewLibrary(base)
	sheets := xlsx.NewSheet(config.DefaultColumns())
	if _, err := NewConvertCommand(lib, sheets, nil, config.DefaultOptions()).Execute(context.Background()); err != nil {
		t.Fatalf("convert Execute() error = %v", err)
	}

	result, err := NewRollbackCommand(lib, sheets).Execute(context.Background())
	if err != nil {
		t.Fatalf("rollback Execute() error = %v", err)
	}

	if len(result.Restored) != 1 || result.Restored[0] != edfPath {
		t.Fatalf("Restored = %v, want [%s]", result.Restored, edfPath)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}
	if result.Cleared != 1 {
		t.Errorf("Cleared = %d, want 1", result.Cleared)
	}

	restored, err := os.ReadFile(edfPath)
	if err != nil {
		t.Fatalf("original not restored: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Error("restored file differs from the original")
	}
	converted := filepath.Join(filepath.Dir(edfPath), "101_20240301_1000.edf")
	if _, err := os.Stat(converted); !os.IsNotExist(err) {
		t.Errorf("converted output %s still present", converted)
	}

	// The relative-time column is blanked, the status column kept.
	if got := cellValue(t, sheetPath, "E2"); got != "" {
		t.Errorf("E2 = %q, want empty after rollback", got)
	}
	if got := cellValue(t, sheetPath, "F2"); got != "INCLUDED" {
		t.Errorf("F2 = %q, want INCLUDED preserved", got)
	}
}

func TestRollbackNothingToDo(t *testing.T) {
	base, _, _ := newSession(t, 10, 10, nil)

	cmd := NewRollbackCommand(filesystem.NewLibrary(base), xlsx.NewSheet(config.DefaultColumns()))
	_, err := cmd.Execute(context.Background())
	if !errors.Is(err, application.ErrNoBackups) {
		t.Errorf("Execute() error = %v, want ErrNoBackups", err)
	}
}

func TestRollbackValidate(t *testing.T) {
	if err := NewRollbackCommand(nil, nil).Validate(); err == nil {
		t.Error("Validate() with nil dependencies should fail")
	}
}
