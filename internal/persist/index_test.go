package persist

import (
	"path/filepath"
	"testing"
	"time"

	"btt/internal/domain"
)

func TestJSONIndex_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "last-run.json")
	index := NewJSONIndex(path)

	tc := sampleCase()
	summary := domain.NewRunSummary("run-1", []*domain.TestCase{tc}, 42*time.Second, 2,
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	if err := index.SaveRun(summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := index.LoadRun()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded.Meta.RunID != "run-1" || loaded.Meta.Workers != 2 {
		t.Errorf("unexpected meta: %+v", loaded.Meta)
	}
	if loaded.Meta.FailedCases != 1 {
		t.Errorf("expected 1 failed case, got %d", loaded.Meta.FailedCases)
	}
	if len(loaded.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(loaded.Failures))
	}
	if loaded.Failures[0].CaseID != "checkout-1" || loaded.Failures[0].Step != 3 {
		t.Errorf("unexpected failure: %+v", loaded.Failures[0])
	}

	t.Run("triaged state survives a save", func(t *testing.T) {
		loaded.Failures[0].Triaged = true
		if err := index.SaveRun(loaded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		again, err := index.LoadRun()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !again.Failures[0].Triaged {
			t.Error("expected triaged flag to persist")
		}
	})
}

func TestJSONIndex_LoadMissing(t *testing.T) {
	index := NewJSONIndex(filepath.Join(t.TempDir(), "never-written.json"))
	if _, err := index.LoadRun(); err == nil {
		t.Error("expected error for a missing index")
	}
}
