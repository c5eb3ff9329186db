package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"btt/internal/config"
	"btt/internal/history"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config *config.Config
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{
		config: cfg,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	db, err := history.Open(hc.config.ProjectPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	archive := history.NewArchive(db)
	ctx := cmd.Context()

	if caseID := hc.config.Flags.CaseID; caseID != "" {
		rows, err := archive.CaseHistory(ctx, caseID, hc.config.Flags.Limit)
		if err != nil {
			return err
		}
		printCaseHistory(caseID, rows)
		return nil
	}

	rows, err := archive.RecentRuns(ctx, hc.config.Flags.Limit)
	if err != nil {
		return err
	}
	printRuns(rows)
	return nil
}

// printRuns prints archived runs, newest first
func printRuns(rows []history.RunRow) {
	if len(rows) == 0 {
		color.Yellow("No archived runs found")
		return
	}

	color.Cyan("Found %d archived run(s):\n", len(rows))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCASES\tCOMPLETED\tFAILED\tDURATION\tWORKERS\tCREATED")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2fs\t%d\t%s\n",
			shortRunID(row.RunID), row.TotalCases, row.CompletedCases, row.FailedCases,
			row.DurationSeconds, row.Workers, row.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

// printCaseHistory prints one case's archived outcomes, newest first
func printCaseHistory(caseID string, rows []history.CaseRow) {
	if len(rows) == 0 {
		color.Yellow("No archived outcomes found for %s", caseID)
		return
	}

	color.Cyan("Found %d archived outcome(s) for %s:\n", len(rows), caseID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTATUS\tSTEPS\tPASSED\tFAILED\tCREATED")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			shortRunID(row.RunID), row.Status, row.StepsTotal, row.StepsPassed, row.StepsFailed,
			row.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

// shortRunID trims a uuid down to its first block for display
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
