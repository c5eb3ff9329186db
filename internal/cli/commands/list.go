package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"btt/internal/config"
	"btt/internal/loader"
	"btt/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	loader    *loader.Loader
	filter    *loader.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	ldr *loader.Loader,
	filter *loader.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		loader:    ldr,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	scanner := loader.NewScanner(lc.config.SkipDirs)
	sources, err := scanner.Scan(lc.config.GetCasesPath())
	if err != nil {
		return err
	}

	cases := loadCases(lc.loader, sources)
	cases, err = filterCases(lc.filter, cases, lc.config.Flags)
	if err != nil {
		return err
	}

	if len(cases) == 0 {
		color.Yellow("No test cases found")
		return nil
	}

	lc.formatter.PrintCaseList(cases, lc.config.Flags.Steps, failedCaseIDs(lc.config.GetIndexPath()))
	return nil
}
