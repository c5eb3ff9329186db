package domain

import "time"

// RunMeta summarizes one execution run across all of its cases
type RunMeta struct {
	RunID           string  `json:"run_id"`
	TotalCases      int     `json:"total_cases"`
	CompletedCases  int     `json:"completed_cases"`
	FailedCases     int     `json:"failed_cases"`
	PendingCases    int     `json:"pending_cases"`
	TotalSteps      int     `json:"total_steps"`
	PassedSteps     int     `json:"passed_steps"`
	FailedSteps     int     `json:"failed_steps"`
	SuccessRate     float64 `json:"success_rate"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// StepFailure is one failed step, flattened for the run index, the
// review viewer and the archive
type StepFailure struct {
	CaseID    string `json:"case_id"`
	CaseTitle string `json:"case_title,omitempty"`
	Source    string `json:"source"`
	Step      int    `json:"step"`
	Command   string `json:"command"`
	Expected  string `json:"expected,omitempty"`
	Observed  string `json:"observed,omitempty"`
	Error     string `json:"error,omitempty"`
	Triaged   bool   `json:"triaged,omitempty"` // set from the review viewer
}

// RunSummary is the persisted output of one run: meta plus failure details
type RunSummary struct {
	Meta     RunMeta       `json:"meta"`
	Failures []StepFailure `json:"failures"`
}

// NewRunSummary builds the summary for the given cases. Cases that never
// reached a terminal status (for example after cancellation) count as
// pending.
func NewRunSummary(runID string, cases []*TestCase, duration time.Duration, workers int, at time.Time) *RunSummary {
	meta := RunMeta{
		RunID:           runID,
		TotalCases:      len(cases),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       at.Format(time.RFC3339),
	}

	var failures []StepFailure
	for _, tc := range cases {
		switch tc.Status {
		case CaseCompleted:
			meta.CompletedCases++
		case CaseFailed:
			meta.FailedCases++
		default:
			meta.PendingCases++
		}
		succeeded, failed, _ := tc.Counts()
		meta.TotalSteps += len(tc.Steps)
		meta.PassedSteps += succeeded
		meta.FailedSteps += failed

		for _, s := range tc.Steps {
			if s.Status != StepFailed {
				continue
			}
			failures = append(failures, StepFailure{
				CaseID:    tc.ID,
				CaseTitle: tc.Title,
				Source:    tc.Source,
				Step:      s.Index,
				Command:   s.Command.String(),
				Expected:  s.Expected,
				Observed:  s.Observed,
				Error:     s.Error,
			})
		}
	}
	if meta.TotalSteps > 0 {
		meta.SuccessRate = float64(meta.PassedSteps) / float64(meta.TotalSteps)
	}

	return &RunSummary{Meta: meta, Failures: failures}
}
