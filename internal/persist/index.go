package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"btt/internal/domain"
)

// RunStore persists and loads the last run's summary (for stats, the
// review viewer and the archive)
type RunStore interface {
	SaveRun(summary *domain.RunSummary) error
	LoadRun() (*domain.RunSummary, error)
}

// JSONIndex stores the run summary in a single JSON file
type JSONIndex struct {
	path string
}

// NewJSONIndex returns a RunStore backed by the given file
func NewJSONIndex(path string) *JSONIndex {
	return &JSONIndex{path: path}
}

// SaveRun writes the run summary, replacing any previous one
func (s *JSONIndex) SaveRun(summary *domain.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write run index: %w", err)
	}
	return nil
}

// LoadRun reads the last saved run summary
func (s *JSONIndex) LoadRun() (*domain.RunSummary, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read run index: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse run index: %w", err)
	}
	return &summary, nil
}
