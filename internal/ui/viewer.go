package ui

import "btt/internal/domain"

// Viewer displays run results in an interactive TUI
type Viewer interface {
	View(summary *domain.RunSummary) error
}
