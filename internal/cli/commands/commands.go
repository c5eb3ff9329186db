package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"btt/internal/cli"
	"btt/internal/config"
	"btt/internal/domain"
	"btt/internal/loader"
	"btt/internal/persist"
	"btt/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Review  *ReviewCommand
	History *HistoryCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	caseLoader := loader.New()
	filter := loader.NewFilter()
	formatter := ui.NewFormatter(cfg)

	return &Commands{
		Run:     NewRunCommand(cfg, caseLoader, filter, formatter),
		List:    NewListCommand(cfg, caseLoader, filter, formatter),
		Review:  NewReviewCommand(cfg),
		History: NewHistoryCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Resolve the effective config (file first, then flags) once cobra
	// has parsed the command line
	resolve := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run browser test cases in parallel",
		Long:    "Load test cases, drive their steps in a browser and record the outcome of every step",
		RunE:    c.Run.Execute,
		PreRunE: resolve,
	}
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of parallel browser sessions")
	runCmd.Flags().StringVarP(&flags.CasesPath, "cases-path", "c", "", "Path to the folder where case discovery should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by id or title pattern (supports wildcards, e.g., 'login-*' or '*checkout*')")
	runCmd.Flags().StringVarP(&flags.Priority, "priority", "p", "", "Only run cases with the given priority (low, normal, high)")
	runCmd.Flags().DurationVar(&flags.StepTimeout, "step-timeout", 0, "Per-step timeout (e.g. 30s, 0 disables it)")
	runCmd.Flags().BoolVar(&flags.ContinueOnFailure, "continue-on-failure", false, "Keep dispatching independent steps after a failed step")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop starting new cases after the first failed case")
	runCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Simulate the run without launching a browser")
	runCmd.Flags().BoolVar(&flags.Headful, "headful", false, "Run the browser with a visible window")
	runCmd.Flags().BoolVar(&flags.Archive, "archive", false, "Copy the finished run into the MySQL history database")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only cases that failed in the last run")
	runCmd.Flags().BoolVar(&flags.RerunFailures, "rerun-failures", false, "After the run, give failed cases one more pass and save that result")
	runCmd.Flags().BoolVar(&flags.Review, "review", false, "Open the review viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered test cases",
		Long:    "Scan for case sources and list every loadable test case without executing it",
		RunE:    c.List.Execute,
		PreRunE: resolve,
	}
	listCmd.Flags().StringVarP(&flags.CasesPath, "cases-path", "c", "", "Path to the folder where case discovery should start")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by id or title pattern (supports wildcards, e.g., 'login-*' or '*checkout*')")
	listCmd.Flags().StringVarP(&flags.Priority, "priority", "p", "", "Only list cases with the given priority (low, normal, high)")
	listCmd.Flags().BoolVarP(&flags.Steps, "steps", "s", false, "List the steps under each test case")
	rootCmd.AddCommand(listCmd)

	// Review command
	reviewCmd := &cobra.Command{
		Use:     "review",
		Short:   "Review step failures interactively",
		Long:    "Display step failures from the last run in an interactive viewer",
		RunE:    c.Review.Execute,
		PreRunE: resolve,
	}
	rootCmd.AddCommand(reviewCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show archived runs",
		Long:    "List archived runs, or one case's outcomes across runs, from the MySQL history database",
		RunE:    c.History.Execute,
		PreRunE: resolve,
	}
	historyCmd.Flags().StringVar(&flags.CaseID, "case", "", "Show the archived outcomes of a single case id")
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 0, "Maximum number of rows to show")
	rootCmd.AddCommand(historyCmd)
}

// loadCases loads every discovered source. Malformed sources are
// reported and skipped so one broken document never blocks a run.
func loadCases(ldr *loader.Loader, sources []string) []*domain.TestCase {
	var cases []*domain.TestCase
	for _, source := range sources {
		loaded, err := ldr.LoadFile(source)
		if err != nil {
			var malformed *domain.MalformedSourceError
			if errors.As(err, &malformed) {
				color.Yellow("skipping %s: %s", source, malformed.Reason)
			} else {
				color.Yellow("skipping %s: %v", source, err)
			}
			continue
		}
		cases = append(cases, loaded...)
	}
	return cases
}

// filterCases applies the name and priority filter flags
func filterCases(filter *loader.Filter, cases []*domain.TestCase, flags config.Flags) ([]*domain.TestCase, error) {
	cases = filter.ByName(cases, flags.NameFilter)
	if flags.Priority != "" {
		priority, err := domain.ParsePriority(flags.Priority)
		if err != nil {
			return nil, err
		}
		cases = filter.ByPriority(cases, priority)
	}
	return cases, nil
}

// failedCaseIDs collects the case ids that failed in the last run, if a
// run index exists
func failedCaseIDs(indexPath string) map[string]struct{} {
	summary, err := persist.NewJSONIndex(indexPath).LoadRun()
	if err != nil {
		return nil
	}

	ids := make(map[string]struct{})
	for _, failure := range summary.Failures {
		ids[failure.CaseID] = struct{}{}
	}
	return ids
}
