package commands

import (
	"github.com/spf13/cobra"

	"btt/internal/config"
	"btt/internal/logging"
	"btt/internal/persist"
	"btt/internal/ui"
)

// ReviewCommand handles the review command
type ReviewCommand struct {
	config *config.Config
}

// NewReviewCommand creates a new ReviewCommand
func NewReviewCommand(cfg *config.Config) *ReviewCommand {
	return &ReviewCommand{
		config: cfg,
	}
}

// Execute runs the command
func (rc *ReviewCommand) Execute(cmd *cobra.Command, args []string) error {
	// Keep log lines from corrupting the TUI
	logging.Suppress()

	index := persist.NewJSONIndex(rc.config.GetIndexPath())
	summary, err := index.LoadRun()
	if err != nil {
		return err
	}

	var viewer ui.Viewer = ui.NewReviewViewer(index)
	return viewer.View(summary)
}
