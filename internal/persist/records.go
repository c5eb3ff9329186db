package persist

import (
	"os"
	"path/filepath"
	"strings"

	"btt/internal/domain"
)

// CaseStore persists per-case execution records
type CaseStore interface {
	SaveCase(tc *domain.TestCase) (string, error)
	CasePath(id string) string
}

// MarkdownStore writes one Markdown document per case, keyed by the
// case identifier. Saving the same id again overwrites the previous
// document.
type MarkdownStore struct {
	dir string
}

// NewMarkdownStore returns a store rooted at the given directory
func NewMarkdownStore(dir string) *MarkdownStore {
	return &MarkdownStore{dir: dir}
}

// CasePath returns where the record for the given case id lives
func (s *MarkdownStore) CasePath(id string) string {
	return filepath.Join(s.dir, sanitizeID(id)+".md")
}

// SaveCase renders the case and writes its record, returning the path.
// A write failure comes back as a PersistenceError; the in-memory case
// is untouched, so the caller can retry.
func (s *MarkdownStore) SaveCase(tc *domain.TestCase) (string, error) {
	path := s.CasePath(tc.ID)
	doc := Render(tc)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &domain.PersistenceError{Path: path, Cause: err}
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return "", &domain.PersistenceError{Path: path, Cause: err}
	}
	return path, nil
}

// sanitizeID maps a case id onto a safe file name
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '-'
	}, id)
}
