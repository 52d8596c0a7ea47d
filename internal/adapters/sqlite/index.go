// Package sqlite persists conversion runs and per-pair outcomes so batches
// can be audited after the fact.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"edfmark/internal/domain"
	"edfmark/internal/ports"
)

// Index implements ports.RunIndex on a SQLite database.
type Index struct {
	db   *sql.DB
	path string
}

var _ ports.RunIndex = (*Index)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	base        TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	total       INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS pairs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	edf_path    TEXT NOT NULL,
	date_key    TEXT,
	output_path TEXT,
	status      TEXT NOT NULL,
	stage       TEXT,
	error       TEXT,
	included    INTEGER NOT NULL DEFAULT 0,
	excluded    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_pairs_run ON pairs(run_id);
`

// DatabasePath returns the index location for a base directory.
func DatabasePath(base string) string {
	return filepath.Join(base, ".edfmark", "index.db")
}

// Open opens (creating if needed) the run index at dbPath.
func Open(dbPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open run index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Index{db: db, path: dbPath}, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

// BeginRun inserts the run row; FinishRun completes it later.
func (idx *Index) BeginRun(run domain.RunSummary) error {
	_, err := idx.db.Exec(
		`INSERT INTO runs (id, base, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Base, run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

func (idx *Index) FinishRun(runID string, succeeded, total int) error {
	_, err := idx.db.Exec(
		`UPDATE runs SET finished_at = ?, succeeded = ?, total = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), succeeded, total, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	return nil
}

func (idx *Index) RecordPair(runID string, outcome domain.PairOutcome) error {
	_, err := idx.db.Exec(
		`INSERT INTO pairs (run_id, edf_path, date_key, output_path, status, stage, error, included, excluded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, outcome.EDFPath, outcome.DateKey, outcome.OutputPath,
		outcome.Status, outcome.Stage, outcome.Error, outcome.Included, outcome.Excluded,
	)
	if err != nil {
		return fmt.Errorf("failed to record pair outcome: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs first.
func (idx *Index) RecentRuns(limit int) ([]domain.RunSummary, error) {
	rows, err := idx.db.Query(
		`SELECT id, base, started_at, COALESCE(finished_at, ''), succeeded, total
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var run domain.RunSummary
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Base, &started, &finished, &run.Succeeded, &run.Total); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			run.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PairsForRun returns the recorded outcomes of one run in insertion order.
func (idx *Index) PairsForRun(runID string) ([]domain.PairOutcome, error) {
	rows, err := idx.db.Query(
		`SELECT edf_path, COALESCE(date_key, ''), COALESCE(output_path, ''), status,
		        COALESCE(stage, ''), COALESCE(error, ''), included, excluded
		 FROM pairs WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.PairOutcome
	for rows.Next() {
		var o domain.PairOutcome
		if err := rows.Scan(&o.EDFPath, &o.DateKey, &o.OutputPath, &o.Status,
			&o.Stage, &o.Error, &o.Included, &o.Excluded); err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
