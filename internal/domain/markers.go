package domain

// UnknownMarkerCode is written to the marker channel for event labels that
// have no configured code.
const UnknownMarkerCode = 99

// MarkerCode resolves an event label against the configured code mapping.
func MarkerCode(codes map[string]int, label string) int {
	if code, ok := codes[label]; ok {
		return code
	}
	return UnknownMarkerCode
}

// BuildMarkerChannel produces a synthetic channel, aligned to the recording
// sample grid, holding the marker code at each included event's latency and
// zero elsewhere. Later events overwrite earlier ones landing on the same
// sample.
func BuildMarkerChannel(sampleCount int, events []ClassifiedEvent, codes map[string]int) []float64 {
	channel := make([]float64, sampleCount)
	for _, ev := range events {
		if ev.Status != StatusIncluded {
			continue
		}
		if ev.Latency < 1 || ev.Latency > sampleCount {
			continue
		}
		channel[ev.Latency-1] = float64(MarkerCode(codes, ev.Label))
	}
	return channel
}
