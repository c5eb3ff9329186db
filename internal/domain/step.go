package domain

import "time"

// StepStatus is the execution status of a single step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepSuccess
	StepFailed
)

// String returns the display form of the status
func (s StepStatus) String() string {
	switch s {
	case StepSuccess:
		return "Success"
	case StepFailed:
		return "Failed"
	default:
		return "Pending"
	}
}

// IsTerminal reports whether the status is final for the current pass.
// Terminal statuses only change through an explicit retry dispatch.
func (s StepStatus) IsTerminal() bool {
	return s != StepPending
}

// Step is one atomic action within a test case, mapped to exactly one
// automation driver call. A dispatch records its outcome once; a retry
// is a new dispatch that bumps Attempts.
type Step struct {
	Index       int // 1-based position within the case
	Description string
	Expected    string
	Command     Command
	Independent bool // failing this step need not halt the rest of the pass

	Status    StepStatus
	Observed  string
	Error     string
	Selectors map[string]string // logical element name -> selector, from discovery

	DispatchedAt time.Time
	Duration     time.Duration
	Attempts     int
}
