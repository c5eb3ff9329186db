package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"btt/internal/domain"
	"btt/internal/logging"
)

// Loader turns source documents into test cases. Loading is a pure
// transformation: a malformed source yields a MalformedSourceError and
// no partial case, and other sources are unaffected.
type Loader struct {
	logger *slog.Logger
}

// New creates a new Loader
func New() *Loader {
	return &Loader{logger: logging.WithComponent("loader")}
}

// rawStep is one parsed step before validation, shared by all formats
type rawStep struct {
	description string
	expected    string
	command     domain.Command
	parsed      bool // command already normalized by the format parser
	independent bool
}

// LoadFile parses one source document into its test cases, dispatching
// on the file extension
func (l *Loader) LoadFile(path string) ([]*domain.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	var cases []*domain.TestCase
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		cases, err = l.parseXML(path, data)
	case ".steps":
		cases, err = l.parsePlain(path, data)
	case ".yaml", ".yml":
		cases, err = l.parseYAML(path, data)
	default:
		return nil, &domain.MalformedSourceError{
			Source: path,
			Reason: fmt.Sprintf("unsupported source format %q", filepath.Ext(path)),
		}
	}
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded source", "path", path, "cases", len(cases))
	return cases, nil
}

// buildCase validates parsed fields and assembles the TestCase. All
// formats funnel through here so the malformed-source rules are applied
// uniformly.
func buildCase(source, id, title, priority string, steps []rawStep) (*domain.TestCase, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.MalformedSourceError{Source: source, Reason: "missing case identifier"}
	}
	if len(steps) == 0 {
		return nil, &domain.MalformedSourceError{
			Source: source,
			Reason: fmt.Sprintf("case %s has no steps", id),
		}
	}

	prio, err := domain.ParsePriority(priority)
	if err != nil {
		return nil, &domain.MalformedSourceError{
			Source: source,
			Reason: fmt.Sprintf("case %s: %v", id, err),
		}
	}

	tc := &domain.TestCase{
		ID:       id,
		Title:    strings.TrimSpace(title),
		Priority: prio,
		Source:   source,
		Status:   domain.CasePending,
		LoadedAt: time.Now(),
	}

	for i, raw := range steps {
		desc := strings.TrimSpace(raw.description)
		if desc == "" {
			return nil, &domain.MalformedSourceError{
				Source: source,
				Reason: fmt.Sprintf("case %s step %d has an empty description", id, i+1),
			}
		}

		cmd := raw.command
		if !raw.parsed {
			cmd, err = ParseCommand(desc)
			if err != nil {
				return nil, &domain.MalformedSourceError{
					Source: source,
					Reason: fmt.Sprintf("case %s step %d: %v", id, i+1, err),
				}
			}
		}

		tc.Steps = append(tc.Steps, &domain.Step{
			Index:       i + 1,
			Description: desc,
			Expected:    strings.TrimSpace(raw.expected),
			Command:     cmd,
			Independent: raw.independent,
			Status:      domain.StepPending,
		})
	}

	return tc, nil
}
