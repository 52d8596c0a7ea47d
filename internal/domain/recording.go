package domain

// PaddingPolicy selects how a short recording is extended to the
// header-declared duration.
type PaddingPolicy int

const (
	// PadZeroFill appends zero samples and tags the padded region so
	// events landing inside it can be excluded.
	PadZeroFill PaddingPolicy = iota
	// PadEdgeHold replicates the last sample of each channel.
	PadEdgeHold
)

func (p PaddingPolicy) String() string {
	if p == PadEdgeHold {
		return "edge-hold"
	}
	return "zero-fill"
}

// ParsePaddingPolicy maps a policy name to its value. Unknown names fall
// back to zero-fill.
func ParsePaddingPolicy(s string) PaddingPolicy {
	if s == "edge-hold" {
		return PadEdgeHold
	}
	return PadZeroFill
}

// ReferenceSource selects the wall-clock instant treated as t=0 when
// converting event timestamps to sample latencies.
type ReferenceSource int

const (
	// RefEDFStart uses the recording's own start time from the EDF header.
	RefEDFStart ReferenceSource = iota
	// RefFirstEvent uses the first parsable event timestamp.
	RefFirstEvent
)

func (r ReferenceSource) String() string {
	if r == RefFirstEvent {
		return "first-event"
	}
	return "edf-start"
}

// ParseReferenceSource maps a source name to its value. Unknown names fall
// back to the EDF start time.
func ParseReferenceSource(s string) ReferenceSource {
	if s == "first-event" {
		return RefFirstEvent
	}
	return RefEDFStart
}

// Recording is the decoded signal matrix plus the metadata the aligner
// needs. It is mutated in place by Reconcile and read-only afterwards.
type Recording struct {
	Labels       []string    // channel labels, one per row of Samples
	Samples      [][]float64 // physical values, channel-major
	SampleRate   float64     // Hz
	StartSeconds float64     // recording start, seconds since midnight

	// PadStart is the 1-based index of the first padded sample when the
	// recording was extended by zero-fill, or 0 when no tagged padding
	// exists.
	PadStart int
}

// ChannelCount returns the number of channels in the matrix.
func (r *Recording) ChannelCount() int {
	return len(r.Samples)
}

// SampleCount returns the per-channel sample count. All channels hold the
// same number of samples.
func (r *Recording) SampleCount() int {
	if len(r.Samples) == 0 {
		return 0
	}
	return len(r.Samples[0])
}

// Duration returns the recording length in seconds implied by the sample
// count and rate.
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(r.SampleCount()) / r.SampleRate
}
