package cli

import (
	"time"

	"btt/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Workers           int
	CasesPath         string
	NameFilter        string
	Priority          string
	StepTimeout       time.Duration
	ContinueOnFailure bool
	FailFast          bool
	DryRun            bool
	Headful           bool
	Archive           bool
	OnlyFailed        bool
	RerunFailures     bool
	Review            bool
	Steps             bool
	CaseID            string
	Limit             int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Workers:           f.Workers,
		CasesPath:         f.CasesPath,
		NameFilter:        f.NameFilter,
		Priority:          f.Priority,
		StepTimeout:       f.StepTimeout,
		ContinueOnFailure: f.ContinueOnFailure,
		FailFast:          f.FailFast,
		DryRun:            f.DryRun,
		Headful:           f.Headful,
		Archive:           f.Archive,
		OnlyFailed:        f.OnlyFailed,
		RerunFailures:     f.RerunFailures,
		Review:            f.Review,
		Steps:             f.Steps,
		CaseID:            f.CaseID,
		Limit:             f.Limit,
	}
}
