package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNoPairs          = errors.New("no EDF/spreadsheet pairs found")
	ErrNoBackups        = errors.New("no backup files found")
	ErrAlreadyConverted = errors.New("already converted")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConversionError represents a per-file conversion failure. Stage names the
// pipeline step that failed so batch summaries can say where things broke.
type ConversionError struct {
	Path  string
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s failed at %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
