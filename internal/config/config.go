package config

import (
	"os"
	"strconv"

	"edfmark/internal/domain"
)

// DefaultSampleRate is assumed when a header yields no usable sampling rate.
const DefaultSampleRate = 200.0

// BasePath returns the recordings base path from the EDFMARK_BASE env var,
// falling back to the current directory.
func BasePath() string {
	if env := os.Getenv("EDFMARK_BASE"); env != "" {
		return env
	}
	return "."
}

// ColumnMapping locates the event columns in a spreadsheet. Columns are
// 1-based (A = 1).
type ColumnMapping struct {
	Time     int // event wall-clock timestamp
	Label    int // event label
	Relative int // relative-time output
	Status   int // classification output
}

// DefaultColumns matches the session sheets this tool was built for:
// time in C, label in D, relative time written to E, status to F.
func DefaultColumns() ColumnMapping {
	return ColumnMapping{Time: 3, Label: 4, Relative: 5, Status: 6}
}

// Options carries the tunables for a conversion run.
type Options struct {
	DriftThreshold float64 // seconds; header/data mismatch below this is ignored
	Padding        domain.PaddingPolicy
	Reference      domain.ReferenceSource
	EndTolerance   float64 // seconds past the end an event may clamp to the final sample
	Columns        ColumnMapping
	MarkerCodes    map[string]int // label -> marker channel code; nil disables the marker channel
}

// DefaultMarkerCodes maps the known session event labels to their marker
// channel codes. Unmapped labels get domain.UnknownMarkerCode.
func DefaultMarkerCodes() map[string]int {
	return map[string]int{
		"Eyes Closed": 1,
		"Eyes Open":   2,
		"Move":        3,
		"Rest":        4,
		"Task":        5,
	}
}

// DefaultOptions returns the batch-flow defaults, with the drift threshold
// overridable via EDFMARK_DRIFT_THRESHOLD.
func DefaultOptions() Options {
	opts := Options{
		DriftThreshold: 0.01,
		Padding:        domain.PadZeroFill,
		Reference:      domain.RefEDFStart,
		EndTolerance:   0.1,
		Columns:        DefaultColumns(),
		MarkerCodes:    DefaultMarkerCodes(),
	}
	if env := os.Getenv("EDFMARK_DRIFT_THRESHOLD"); env != "" {
		if v, err := strconv.ParseFloat(env, 64); err == nil && v > 0 && v <= 1.0 {
			opts.DriftThreshold = v
		}
	}
	return opts
}
