package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// Each pooled connection would get its own in-memory database.
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun(startedAt time.Time, state string) *Run {
	return &Run{
		PageURL:      "https://docs.example.com/version/versions.html",
		ShellURL:     "https://docs.example.com/version/index.html",
		ManifestURL:  "https://docs.example.com/version/versions.json",
		State:        state,
		VersionCount: 3,
		StartedAt:    startedAt,
		FinishedAt:   startedAt.Add(120 * time.Millisecond),
	}
}

func TestRecordAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	run := sampleRun(started, "failed")
	run.FailedStage = "remove_sidebar"
	run.ErrorKind = "element_not_found"
	run.ErrorMessage = "secondary navigation element not found"
	run.PageTouched = true
	run.OutputPath = "build/versions.html"
	run.OutputHash = "abc123"

	runID, err := db.RecordRun(run)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if runID == 0 || run.RunID != runID {
		t.Fatalf("RecordRun() returned id %d, run.RunID %d", runID, run.RunID)
	}

	got, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}

	if got.PageURL != run.PageURL {
		t.Errorf("PageURL = %q, want %q", got.PageURL, run.PageURL)
	}
	if got.State != "failed" || got.FailedStage != "remove_sidebar" {
		t.Errorf("State/FailedStage = %q/%q", got.State, got.FailedStage)
	}
	if got.ErrorKind != "element_not_found" {
		t.Errorf("ErrorKind = %q", got.ErrorKind)
	}
	if !got.PageTouched {
		t.Error("PageTouched = false, want true")
	}
	if got.VersionCount != 3 {
		t.Errorf("VersionCount = %d, want 3", got.VersionCount)
	}
	if got.OutputHash != "abc123" {
		t.Errorf("OutputHash = %q", got.OutputHash)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Duration() != 120*time.Millisecond {
		t.Errorf("Duration() = %v, want 120ms", got.Duration())
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetRun(42)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}

	_, err = db.LatestRun()
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LatestRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	states := []string{"sidebar_removed", "failed", "sidebar_removed", "failed"}
	for i, state := range states {
		if _, err := db.RecordRun(sampleRun(base.Add(time.Duration(i)*time.Hour), state)); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	tests := []struct {
		name       string
		limit      int
		failedOnly bool
		wantCount  int
		wantFirst  time.Time
	}{
		{name: "all", limit: 0, wantCount: 4, wantFirst: base.Add(3 * time.Hour)},
		{name: "limited", limit: 2, wantCount: 2, wantFirst: base.Add(3 * time.Hour)},
		{name: "failed only", limit: 0, failedOnly: true, wantCount: 2, wantFirst: base.Add(3 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := db.ListRuns(tt.limit, tt.failedOnly)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			if len(runs) != tt.wantCount {
				t.Fatalf("ListRuns() returned %d runs, want %d", len(runs), tt.wantCount)
			}
			if !runs[0].StartedAt.Equal(tt.wantFirst) {
				t.Errorf("first run started %v, want newest %v", runs[0].StartedAt, tt.wantFirst)
			}
			if tt.failedOnly {
				for _, r := range runs {
					if r.State != "failed" {
						t.Errorf("failed-only listing returned state %q", r.State)
					}
				}
			}
		})
	}

	latest, err := db.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun() error = %v", err)
	}
	if latest.State != "failed" {
		t.Errorf("LatestRun().State = %q, want failed", latest.State)
	}
}

func TestPruneRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := db.RecordRun(sampleRun(base.AddDate(0, 0, i*10), "sidebar_removed")); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	deleted, err := db.PruneRuns(base.AddDate(0, 0, 15))
	if err != nil {
		t.Fatalf("PruneRuns() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("PruneRuns() deleted %d, want 2", deleted)
	}

	runs, err := db.ListRuns(0, false)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("%d runs left, want 1", len(runs))
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := db.RecordRun(sampleRun(time.Now(), "sidebar_removed")); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	db.Close()

	// Reopening finds the existing schema and keeps the data.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(0, false)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("ListRuns() after reopen = %d runs, want 1", len(runs))
	}
}
