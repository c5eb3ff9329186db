package domain

import (
	"fmt"
	"strings"
	"time"
)

// Priority of a test case, as declared in its source document
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
	PriorityLow
)

// String returns the display form of the priority
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Normal"
	}
}

// ParsePriority maps a source document's priority field to a Priority.
// An empty value defaults to Normal.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "medium":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	case "low":
		return PriorityLow, nil
	}
	return PriorityNormal, fmt.Errorf("unknown priority %q", s)
}

// CaseStatus is the overall execution status of a test case
type CaseStatus int

const (
	CasePending CaseStatus = iota
	CaseInProgress
	CaseCompleted
	CaseFailed
)

// String returns the display form of the status
func (s CaseStatus) String() string {
	switch s {
	case CaseInProgress:
		return "InProgress"
	case CaseCompleted:
		return "Completed"
	case CaseFailed:
		return "Failed"
	default:
		return "Pending"
	}
}

// TestCase is a single end-to-end scenario: an ordered sequence of steps
// executed one at a time against one browser session. Cases are created
// by the loader and mutated only by the tracker; step order is fixed at
// load time and never changes.
type TestCase struct {
	ID       string
	Title    string
	Priority Priority
	Source   string // path of the originating source document
	Steps    []*Step
	Status   CaseStatus

	LoadedAt   time.Time
	StartedAt  time.Time // zero until the first dispatch
	FinishedAt time.Time // zero until an execution pass finished
}

// ComputeStatus derives the overall status from the step statuses:
// Completed when every step succeeded, Failed when any step failed,
// InProgress once execution started, Pending otherwise.
func (tc *TestCase) ComputeStatus() CaseStatus {
	if len(tc.Steps) == 0 {
		return CasePending
	}
	allSuccess := true
	anyTerminal := false
	for _, s := range tc.Steps {
		switch s.Status {
		case StepFailed:
			return CaseFailed
		case StepSuccess:
			anyTerminal = true
		default:
			allSuccess = false
		}
	}
	if allSuccess {
		return CaseCompleted
	}
	if anyTerminal || !tc.StartedAt.IsZero() {
		return CaseInProgress
	}
	return CasePending
}

// Counts returns how many steps succeeded, failed and are still pending
func (tc *TestCase) Counts() (succeeded, failed, pending int) {
	for _, s := range tc.Steps {
		switch s.Status {
		case StepSuccess:
			succeeded++
		case StepFailed:
			failed++
		default:
			pending++
		}
	}
	return succeeded, failed, pending
}

// SelectorsBefore merges the selectors discovered by every step ahead of
// the given 1-based index, in step order. Later discoveries win on name
// collisions.
func (tc *TestCase) SelectorsBefore(index int) map[string]string {
	merged := make(map[string]string)
	for _, s := range tc.Steps {
		if s.Index >= index {
			break
		}
		for name, sel := range s.Selectors {
			merged[name] = sel
		}
	}
	return merged
}
