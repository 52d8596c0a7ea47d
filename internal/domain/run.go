package domain

import "time"

// FilePair binds one EDF recording to its companion spreadsheets by shared
// date token. Consumed once per conversion attempt, never persisted.
type FilePair struct {
	EDFPath string
	Sheets  []string
	DateKey string // 8-digit YYYYMMDD token
}

// PairOutcome is the per-pair result recorded by the orchestrator.
type PairOutcome struct {
	EDFPath    string
	DateKey    string
	OutputPath string
	Status     string // "converted", "failed" or "skipped"
	Stage      string // pipeline stage that failed, empty on success
	Error      string
	Included   int // events written to the output file
	Excluded   int // events classified out
}

// Pair outcome statuses.
const (
	PairConverted = "converted"
	PairFailed    = "failed"
	PairSkipped   = "skipped"
)

// RunSummary is one batch invocation as recorded in the run index.
type RunSummary struct {
	ID         string
	Base       string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Total      int
}
