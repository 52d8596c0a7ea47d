package domain

import "math"

// ReconcileOptions tunes the duration reconciler.
type ReconcileOptions struct {
	// DriftThreshold is the largest header/data duration mismatch, in
	// seconds, that is left uncorrected. Call sites use values between
	// 0.01 and 1.0.
	DriftThreshold float64
	Padding        PaddingPolicy
}

// ReconcileResult describes what Reconcile did to the buffer.
type ReconcileResult struct {
	Delta     float64 // headerDuration - dataDuration before correction
	Padded    int     // samples appended (0 when none)
	Truncated int     // samples discarded (0 when none)
}

// Changed reports whether the buffer was modified.
func (r ReconcileResult) Changed() bool {
	return r.Padded > 0 || r.Truncated > 0
}

// Reconcile forces the recording buffer to match the header-declared
// duration. Short buffers are extended per the padding policy, long buffers
// truncated. The sample count afterwards is round(headerDuration * rate),
// which every downstream latency computation depends on. Applying it again
// to an already-reconciled buffer is a no-op.
func Reconcile(rec *Recording, headerDuration float64, opts ReconcileOptions) ReconcileResult {
	res := ReconcileResult{Delta: headerDuration - rec.Duration()}
	// NaN and Inf come from unparsable header fields and must not reach
	// the target computation below.
	if rec.SampleRate <= 0 || math.IsNaN(headerDuration) || math.IsInf(headerDuration, 0) || headerDuration <= 0 {
		return res
	}
	if math.Abs(res.Delta) <= opts.DriftThreshold {
		return res
	}

	target := int(math.Round(headerDuration * rec.SampleRate))
	current := rec.SampleCount()

	switch {
	case target > current:
		res.Padded = target - current
		for ch := range rec.Samples {
			pad := make([]float64, res.Padded)
			if opts.Padding == PadEdgeHold && current > 0 {
				last := rec.Samples[ch][current-1]
				for i := range pad {
					pad[i] = last
				}
			}
			rec.Samples[ch] = append(rec.Samples[ch], pad...)
		}
		if opts.Padding == PadZeroFill {
			rec.PadStart = current + 1
		}
	case target < current:
		res.Truncated = current - target
		for ch := range rec.Samples {
			rec.Samples[ch] = rec.Samples[ch][:target]
		}
		if rec.PadStart > target {
			rec.PadStart = 0
		}
	}

	return res
}
