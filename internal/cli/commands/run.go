package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"btt/internal/config"
	"btt/internal/domain"
	"btt/internal/driver"
	"btt/internal/history"
	"btt/internal/loader"
	"btt/internal/logging"
	"btt/internal/persist"
	"btt/internal/tracker"
	"btt/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	loader    *loader.Loader
	filter    *loader.Filter
	formatter *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	ldr *loader.Loader,
	filter *loader.Filter,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		loader:    ldr,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Discover case sources
	scanner := loader.NewScanner(rc.config.SkipDirs)
	sources, err := scanner.Scan(rc.config.GetCasesPath())
	if err != nil {
		return err
	}

	// Load and filter cases
	cases := loadCases(rc.loader, sources)
	cases, err = filterCases(rc.filter, cases, rc.config.Flags)
	if err != nil {
		return err
	}

	// Optionally keep only the cases that failed in the last run
	if rc.config.Flags.OnlyFailed {
		failed := failedCaseIDs(rc.config.GetIndexPath())
		if len(failed) == 0 {
			color.Yellow("No failed cases recorded in the last run")
			return nil
		}
		var kept []*domain.TestCase
		for _, tc := range cases {
			if _, ok := failed[tc.ID]; ok {
				kept = append(kept, tc)
			}
		}
		cases = kept
	}

	if len(cases) == 0 {
		color.Yellow("No test cases to execute")
		return nil
	}

	// Pick the driver: a real browser, or a scripted one for dry runs
	var factory driver.Factory
	if rc.config.Flags.DryRun {
		factory = dryRunFactory(cases)
	} else {
		factory = driver.NewChromeFactory(rc.config.Headless)
	}

	opts := tracker.Options{
		StepTimeout:       rc.config.StepTimeout,
		ContinueOnFailure: rc.config.ContinueOnFailure,
	}
	pool := tracker.NewPool(factory, rc.config.GetWorkers(), opts)

	// Create and set progress bar
	progressBar := ui.NewProgressBar(len(cases))
	pool.SetProgress(progressBar)

	// Execute cases
	duration, runErr := pool.Execute(ctx, cases, rc.config.Flags.FailFast)

	// Optionally give failed cases one more pass. The retry policy
	// re-dispatches only their failed steps; successful steps keep their
	// recorded outcome.
	if runErr == nil && rc.config.Flags.RerunFailures {
		var failedCases []*domain.TestCase
		for _, tc := range cases {
			if tc.Status == domain.CaseFailed {
				failedCases = append(failedCases, tc)
			}
		}
		if len(failedCases) > 0 {
			color.Yellow("Re-running %d failed case(s)...", len(failedCases))
			rerunPool := tracker.NewPool(factory, rc.config.GetWorkers(), opts)
			rerunPool.SetProgress(ui.NewProgressBar(len(failedCases)))
			var rerun time.Duration
			rerun, runErr = rerunPool.Execute(ctx, failedCases, false)
			duration += rerun
		}
	}

	// Persist a Markdown record for every case that was started, even
	// when the run was interrupted
	store := persist.NewMarkdownStore(rc.config.GetRecordsDir())
	for _, tc := range cases {
		if tc.StartedAt.IsZero() {
			continue
		}
		if _, err := store.SaveCase(tc); err != nil {
			return err
		}
	}

	// Save the run summary for review, list markers and history
	summary := domain.NewRunSummary(uuid.New().String(), cases, duration, rc.config.GetWorkers(), time.Now())
	index := persist.NewJSONIndex(rc.config.GetIndexPath())
	if err := index.SaveRun(summary); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}

	// Archive the run when enabled
	if rc.config.Archive {
		rc.archiveRun(summary, cases)
	}

	// Print stats
	rc.formatter.PrintRunStats(summary)

	// Optionally drop straight into the review viewer
	if runErr == nil && rc.config.Flags.Review && len(summary.Failures) > 0 {
		logging.Suppress()
		var viewer ui.Viewer = ui.NewReviewViewer(index)
		return viewer.View(summary)
	}

	return runErr
}

// archiveRun copies the finished run into MySQL. Archive problems are
// reported but never fail the run itself.
func (rc *RunCommand) archiveRun(summary *domain.RunSummary, cases []*domain.TestCase) {
	// Detached context so an interrupted run still gets archived
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := history.Open(rc.config.ProjectPath)
	if err != nil {
		color.Yellow("archive skipped: %v", err)
		return
	}
	defer db.Close()

	if err := history.NewArchive(db).ArchiveRun(ctx, summary, cases); err != nil {
		color.Yellow("archive failed: %v", err)
	}
}

// dryRunFactory builds a scripted driver whose discovery results cover
// every referenced element name, so reference resolution works without
// a browser
func dryRunFactory(cases []*domain.TestCase) *driver.ScriptFactory {
	elements := make(map[string]string)
	for _, tc := range cases {
		for _, step := range tc.Steps {
			cmd := step.Command
			if cmd.Action != domain.ActionClick && cmd.Action != domain.ActionType {
				continue
			}
			if domain.IsRef(cmd.Target) {
				name := domain.RefName(cmd.Target)
				elements[name] = "#" + name
			}
		}
	}

	return driver.NewScriptFactory(func(d *driver.ScriptDriver) {
		d.WithPage("", elements)
	})
}
