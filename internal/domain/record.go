package domain

import "fmt"

// ExecutionRecord is the derived summary of a case's steps. It is
// recomputed on every persistence write, never stored on its own.
type ExecutionRecord struct {
	CaseID    string
	Total     int
	Succeeded int
	Failed    int
	Pending   int
	Findings  []string
}

// NewExecutionRecord computes the record for the case's current state.
// Every failed step contributes one finding, in step order.
func NewExecutionRecord(tc *TestCase) *ExecutionRecord {
	rec := &ExecutionRecord{
		CaseID: tc.ID,
		Total:  len(tc.Steps),
	}
	for _, s := range tc.Steps {
		switch s.Status {
		case StepSuccess:
			rec.Succeeded++
		case StepFailed:
			rec.Failed++
			detail := s.Error
			if detail == "" {
				detail = s.Observed
			}
			if detail == "" {
				detail = "no further detail recorded"
			}
			rec.Findings = append(rec.Findings, fmt.Sprintf("step %d (%s): %s", s.Index, s.Command, detail))
		default:
			rec.Pending++
		}
	}
	return rec
}

// SuccessRate returns the fraction of succeeded steps, 0 for an empty case
func (r *ExecutionRecord) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Total)
}
