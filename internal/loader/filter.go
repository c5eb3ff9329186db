package loader

import (
	"path/filepath"
	"strings"

	"btt/internal/domain"
)

// Filter selects loaded cases by name pattern or priority
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// ByName keeps cases whose id or title matches the wildcard pattern.
// Supports patterns like "login-*" or "*checkout*"; a pattern without
// wildcards matches as a substring.
func (f *Filter) ByName(cases []*domain.TestCase, pattern string) []*domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []*domain.TestCase
	for _, tc := range cases {
		if matchesPattern(tc.ID, pattern) || matchesPattern(tc.Title, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// ByPriority keeps cases with the given priority
func (f *Filter) ByPriority(cases []*domain.TestCase, priority domain.Priority) []*domain.TestCase {
	var filtered []*domain.TestCase
	for _, tc := range cases {
		if tc.Priority == priority {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// matchesPattern tries filepath.Match wildcards first, then falls back
// to in-order substring matching so "*Payment*"-style patterns behave
// intuitively
func matchesPattern(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		hasPart := false
		rest := name
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasPart = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return hasPart
	}

	if strings.Contains(pattern, "?") {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}
