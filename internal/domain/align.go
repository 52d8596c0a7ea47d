package domain

import (
	"math"
	"strings"
)

// EventStatus is the inclusion/exclusion classification assigned to every
// candidate event, exactly once.
type EventStatus int

const (
	StatusPending EventStatus = iota
	StatusIncluded
	StatusZeroPadding
	StatusBeforeStart
	StatusAfterEnd
	StatusNoTime
)

func (s EventStatus) String() string {
	switch s {
	case StatusIncluded:
		return "INCLUDED"
	case StatusZeroPadding:
		return "ZERO_PADDING"
	case StatusBeforeStart:
		return "BEFORE_START"
	case StatusAfterEnd:
		return "AFTER_END"
	case StatusNoTime:
		return "NO_TIME"
	default:
		return "PENDING"
	}
}

// RawEvent is one spreadsheet row as read, before any validation.
type RawEvent struct {
	Time  string // raw timestamp cell
	Label string
	Row   int // 0-based row in the source sheet
}

// ClassifiedEvent is the aligner's verdict on one raw event.
type ClassifiedEvent struct {
	Label    string
	Latency  int     // 1-based sample index; 0 when the event was excluded
	Duration int     // samples; point events are 0
	Relative float64 // seconds since the reference instant
	Status   EventStatus
}

// AlignOptions tunes the event aligner.
type AlignOptions struct {
	Reference ReferenceSource
	// EndTolerance lets an event land this many seconds past the end of
	// the recording and still clamp to the final sample.
	EndTolerance float64
}

// AlignEvents maps each raw event to a sample-accurate latency on the
// reconciled sample grid and classifies it. It is total: malformed rows
// degrade to StatusNoTime, out-of-range latencies to StatusBeforeStart or
// StatusAfterEnd, and events inside a tagged zero-padded region to
// StatusZeroPadding. Output preserves input order, one entry per input.
func AlignEvents(rec *Recording, events []RawEvent, opts AlignOptions) []ClassifiedEvent {
	reference, haveRef := referenceSeconds(rec, events, opts.Reference)
	sampleCount := rec.SampleCount()

	out := make([]ClassifiedEvent, 0, len(events))
	for _, ev := range events {
		ce := ClassifiedEvent{Label: strings.TrimSpace(ev.Label)}

		seconds, err := ParseClockTime(ev.Time)
		if err != nil || !haveRef || !validLabel(ce.Label) {
			ce.Status = StatusNoTime
			out = append(out, ce)
			continue
		}

		ce.Relative = RelativeOffset(seconds, reference)
		latency := int(math.Round(ce.Relative*rec.SampleRate)) + 1

		switch {
		case latency < 1:
			ce.Status = StatusBeforeStart
		case latency > sampleCount:
			// Events marginally past the end clamp to the final sample.
			if ce.Relative <= rec.Duration()+opts.EndTolerance && sampleCount > 0 {
				latency = sampleCount
				ce.Latency = latency
				ce.Status = classifyInRange(rec, latency)
			} else {
				ce.Status = StatusAfterEnd
			}
		default:
			ce.Latency = latency
			ce.Status = classifyInRange(rec, latency)
		}

		if ce.Status != StatusIncluded && ce.Status != StatusZeroPadding {
			ce.Latency = 0
		}
		out = append(out, ce)
	}

	return out
}

// classifyInRange decides between INCLUDED and ZERO_PADDING for a latency
// already known to be on the sample grid.
func classifyInRange(rec *Recording, latency int) EventStatus {
	if rec.PadStart > 0 && latency >= rec.PadStart {
		return StatusZeroPadding
	}
	return StatusIncluded
}

// Included filters a classified sequence down to the events that made it
// into the output file, in order.
func Included(events []ClassifiedEvent) []ClassifiedEvent {
	var kept []ClassifiedEvent
	for _, ev := range events {
		if ev.Status == StatusIncluded {
			kept = append(kept, ev)
		}
	}
	return kept
}

// validLabel rejects blank labels and the stringified missing values that
// spreadsheet readers produce for empty cells.
func validLabel(label string) bool {
	return label != "" && label != "None" && label != "nan"
}

func referenceSeconds(rec *Recording, events []RawEvent, src ReferenceSource) (float64, bool) {
	if src == RefEDFStart {
		return rec.StartSeconds, true
	}
	for _, ev := range events {
		if seconds, err := ParseClockTime(ev.Time); err == nil {
			return seconds, true
		}
	}
	return 0, false
}
