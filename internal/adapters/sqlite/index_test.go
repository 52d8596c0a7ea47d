package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"edfmark/internal/domain"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestRunLifecycle(t *testing.T) {
	idx := openTestIndex(t)

	run := domain.RunSummary{
		ID:        "run-1",
		Base:      "/data/eeg",
		StartedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	if err := idx.BeginRun(run); err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}
	if err := idx.FinishRun("run-1", 2, 3); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := idx.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns() returned %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != "run-1" || got.Base != "/data/eeg" {
		t.Errorf("run = %+v, want ID run-1 base /data/eeg", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}
	if got.FinishedAt.IsZero() {
		t.Error("FinishedAt not recorded")
	}
	if got.Succeeded != 2 || got.Total != 3 {
		t.Errorf("counts = %d/%d, want 2/3", got.Succeeded, got.Total)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	idx := openTestIndex(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		err := idx.BeginRun(domain.RunSummary{
			ID:        id,
			Base:      "/data/eeg",
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("BeginRun(%s) error = %v", id, err)
		}
	}

	runs, err := idx.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns(2) returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("order = %s, %s; want run-c, run-b", runs[0].ID, runs[1].ID)
	}
}

func TestRecordPair(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.BeginRun(domain.RunSummary{ID: "run-1", Base: "/data/eeg", StartedAt: time.Now()}); err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}

	outcomes := []domain.PairOutcome{
		{
			EDFPath:    "/data/eeg/101_sess/101_20240301_0930.edf",
			DateKey:    "20240301",
			OutputPath: "/data/eeg/101_sess/101_20240301_0930.edf",
			Status:     domain.PairConverted,
			Included:   12,
			Excluded:   1,
		},
		{
			EDFPath: "/data/eeg/102_sess/102_20240301_1015.edf",
			DateKey: "20240301",
			Status:  domain.PairFailed,
			Stage:   "read",
			Error:   "header too short",
		},
	}
	for _, o := range outcomes {
		if err := idx.RecordPair("run-1", o); err != nil {
			t.Fatalf("RecordPair() error = %v", err)
		}
	}

	got, err := idx.PairsForRun("run-1")
	if err != nil {
		t.Fatalf("PairsForRun() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("PairsForRun() returned %d pairs, want 2", len(got))
	}
	if got[0].Status != domain.PairConverted || got[0].Included != 12 {
		t.Errorf("first pair = %+v, want converted with 12 included", got[0])
	}
	if got[1].Stage != "read" || got[1].Error != "header too short" {
		t.Errorf("second pair = %+v, want failed at read", got[1])
	}
}
