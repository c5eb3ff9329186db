package persist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"btt/internal/domain"
)

func TestMarkdownStore_SaveCase(t *testing.T) {
	store := NewMarkdownStore(filepath.Join(t.TempDir(), "records"))
	tc := sampleCase()

	path, err := store.SaveCase(tc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != store.CasePath("checkout-1") {
		t.Errorf("unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read record: %v", err)
	}
	if !bytes.Equal(data, Render(tc)) {
		t.Error("stored document should match the rendering")
	}

	t.Run("re-saving unchanged state is byte-identical", func(t *testing.T) {
		if _, err := store.SaveCase(tc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		again, _ := os.ReadFile(path)
		if !bytes.Equal(data, again) {
			t.Error("expected identical bytes after re-save")
		}
	})

	t.Run("saving new state overwrites the document", func(t *testing.T) {
		tc.Steps[2].Status = domain.StepSuccess
		tc.Status = tc.ComputeStatus()

		if _, err := store.SaveCase(tc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		updated, _ := os.ReadFile(path)
		if bytes.Equal(data, updated) {
			t.Error("expected the document to change with the state")
		}
		if !bytes.Contains(updated, []byte("3/3 (100.0%)")) {
			t.Error("updated document should reflect the new state")
		}
	})
}

func TestMarkdownStore_UnwritableTarget(t *testing.T) {
	tmpDir := t.TempDir()

	// A regular file where the records directory should go makes every
	// write fail, regardless of the user the tests run as
	blocker := filepath.Join(tmpDir, "records")
	if err := os.WriteFile(blocker, []byte("in the way"), 0644); err != nil {
		t.Fatalf("failed to create blocker: %v", err)
	}

	store := NewMarkdownStore(filepath.Join(blocker, "nested"))
	tc := sampleCase()
	statusBefore := tc.Status

	_, err := store.SaveCase(tc)
	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Path == "" {
		t.Error("error should carry the target path")
	}

	// The in-memory record survives for a later retry
	if tc.Status != statusBefore {
		t.Error("a failed write should not touch the case")
	}
	if len(tc.Steps) != 3 {
		t.Error("a failed write should not touch the steps")
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"checkout-1", "checkout-1"},
		{"TC_12.3", "TC_12.3"},
		{"a/b\\c", "a-b-c"},
		{"weird id!", "weird-id-"},
	}
	for _, tt := range tests {
		if got := sanitizeID(tt.in); got != tt.want {
			t.Errorf("sanitizeID(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
