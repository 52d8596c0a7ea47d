package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeFormatError reports an unparsable wall-clock timestamp.
type TimeFormatError struct {
	Value string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("cannot recognize time format: %q", e.Value)
}

var clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2}(?:\.\d*)?)$`)

// ParseClockTime converts a spreadsheet timestamp in H:MM:SS[.ss] form to
// seconds since midnight. Fractional seconds are permitted. Timestamps that
// span midnight are not handled; relative offsets against a later reference
// come out negative and callers classify them accordingly.
func ParseClockTime(s string) (float64, error) {
	m := clockRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &TimeFormatError{Value: s}
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &TimeFormatError{Value: s}
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, &TimeFormatError{Value: s}
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, &TimeFormatError{Value: s}
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// ParseEDFClockTime converts the dotted HH.MM.SS start-time field of an EDF
// header to seconds since midnight. Recorders that only write HH.MM get
// seconds assumed as zero.
func ParseEDFClockTime(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return 0, &TimeFormatError{Value: s}
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, &TimeFormatError{Value: s}
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, &TimeFormatError{Value: s}
	}

	seconds := 0.0
	if len(parts) >= 3 {
		seconds, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, &TimeFormatError{Value: s}
		}
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// RelativeOffset returns t relative to the reference instant, in seconds.
// The result is negative when t precedes the reference.
func RelativeOffset(t, reference float64) float64 {
	return t - reference
}
