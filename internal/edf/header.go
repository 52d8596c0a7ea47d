// Package edf reads and writes European Data Format biosignal files. The
// reader recovers the fixed-layout ASCII header and the int16 sample matrix;
// the writer produces EDF+ files with an annotations channel.
package edf

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// HeaderError reports a file whose header could not be read at all. Field
// level parse failures do not produce it; they degrade to sentinel values.
type HeaderError struct {
	Path string
	Err  error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("cannot read EDF header of %s: %v", e.Path, e.Err)
}

func (e *HeaderError) Unwrap() error {
	return e.Err
}

// Header is the parsed EDF file prologue. Numeric fields that failed to
// parse hold NaN (floats) or 0 (integers); callers check validity before
// deriving durations or rates.
type Header struct {
	Version        string
	PatientID      string
	RecordingID    string
	StartDate      string // DD.MM.YY
	StartTime      string // HH.MM.SS
	HeaderBytes    int
	Reserved       string
	Records        int
	RecordDuration float64 // seconds
	SignalCount    int
	Signals        []SignalHeader
}

// SignalHeader describes one recorded channel.
type SignalHeader struct {
	Label            string
	Transducer       string
	Units            string
	PhysicalMin      float64
	PhysicalMax      float64
	DigitalMin       int
	DigitalMax       int
	Prefilter        string
	SamplesPerRecord int
}

// mainHeaderSize is the fixed prologue length; each signal adds another
// signalHeaderSize bytes.
const (
	mainHeaderSize   = 256
	signalHeaderSize = 256
)

// ParseHeader decodes the main header and all signal headers from a stream
// positioned at offset 0. It fails only when the stream cannot supply the
// minimum header bytes.
func ParseHeader(r io.Reader) (*Header, error) {
	b := make([]byte, mainHeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("reading main header: %w", err)
	}

	hdr := &Header{
		Version:        field(b, 0, 8),
		PatientID:      field(b, 8, 88),
		RecordingID:    field(b, 88, 168),
		StartDate:      field(b, 168, 176),
		StartTime:      field(b, 176, 184),
		HeaderBytes:    parseInt(field(b, 184, 192)),
		Reserved:       field(b, 192, 236),
		Records:        parseInt(field(b, 236, 244)),
		RecordDuration: parseFloat(field(b, 244, 252)),
		SignalCount:    parseInt(field(b, 252, 256)),
	}

	if hdr.Records < 0 {
		hdr.Records = 0
	}
	if hdr.SignalCount < 0 {
		hdr.SignalCount = 0
	}
	hdr.Signals = make([]SignalHeader, hdr.SignalCount)

	for i := range hdr.Signals {
		sb := make([]byte, signalHeaderSize)
		if _, err := io.ReadFull(r, sb); err != nil {
			return nil, fmt.Errorf("reading signal header %d: %w", i, err)
		}
		hdr.Signals[i] = SignalHeader{
			Label:            field(sb, 0, 16),
			Transducer:       field(sb, 16, 32),
			Units:            field(sb, 32, 40),
			PhysicalMin:      parseFloat(field(sb, 40, 48)),
			PhysicalMax:      parseFloat(field(sb, 48, 56)),
			DigitalMin:       parseInt(field(sb, 56, 64)),
			DigitalMax:       parseInt(field(sb, 64, 72)),
			Prefilter:        field(sb, 72, 80),
			SamplesPerRecord: parseInt(field(sb, 80, 88)),
		}
	}

	return hdr, nil
}

// Duration returns the header-declared recording length in seconds. NaN
// propagates when the record duration failed to parse.
func (h *Header) Duration() float64 {
	return float64(h.Records) * h.RecordDuration
}

// SampleRate derives the sampling rate from signal 0. When the derivation
// yields a non-positive or non-finite value the fallback rate is substituted
// and the second return value reports that, so callers can log a warning
// instead of silently trusting the default.
func (h *Header) SampleRate(fallback float64) (float64, bool) {
	if len(h.Signals) == 0 {
		return fallback, true
	}
	rate := float64(h.Signals[0].SamplesPerRecord) / h.RecordDuration
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fallback, true
	}
	return rate, false
}

// TimestampToken formats the header start date and time as the
// YYYYMMDD_HHMM token used in output filenames. Two-digit years below 50
// resolve to 20xx, the rest to 19xx.
func (h *Header) TimestampToken() (string, error) {
	d := strings.Split(h.StartDate, ".")
	tm := strings.Split(h.StartTime, ".")
	if len(d) != 3 || len(tm) < 2 {
		return "", fmt.Errorf("malformed start date %q or time %q", h.StartDate, h.StartTime)
	}

	day, err1 := strconv.Atoi(d[0])
	month, err2 := strconv.Atoi(d[1])
	year, err3 := strconv.Atoi(d[2])
	hour, err4 := strconv.Atoi(tm[0])
	minute, err5 := strconv.Atoi(tm[1])
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			return "", fmt.Errorf("malformed start date %q or time %q", h.StartDate, h.StartTime)
		}
	}

	if year < 50 {
		year += 2000
	} else {
		year += 1900
	}
	return fmt.Sprintf("%04d%02d%02d_%02d%02d", year, month, day, hour, minute), nil
}

func field(b []byte, from, to int) string {
	return strings.TrimSpace(string(b[from:to]))
}

// parseFloat yields NaN on failure so invalid numeric fields stay visible.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}
