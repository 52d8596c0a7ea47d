package ports

import "edfmark/internal/domain"

// RunIndex records conversion runs and per-pair outcomes for later
// inspection. Implementations must be safe for the single-writer batch
// flow; no concurrent access happens within a run.
type RunIndex interface {
	Close() error

	BeginRun(run domain.RunSummary) error
	FinishRun(runID string, succeeded, total int) error
	RecordPair(runID string, outcome domain.PairOutcome) error

	// RecentRuns returns the newest runs first.
	RecentRuns(limit int) ([]domain.RunSummary, error)
}
