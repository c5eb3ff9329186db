package domain

import "fmt"

// MalformedSourceError reports a source that could not be turned into a
// valid test case. The loader leaves no partial case behind when it
// returns one of these.
type MalformedSourceError struct {
	Source string
	Reason string
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed source %s: %s", e.Source, e.Reason)
}

// StepExecutionError wraps a driver failure for a single step
type StepExecutionError struct {
	CaseID string
	Step   int
	Cause  error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("case %s step %d: %v", e.CaseID, e.Step, e.Cause)
}

func (e *StepExecutionError) Unwrap() error { return e.Cause }

// PersistenceError reports a failed write of an execution record. The
// in-memory record is still valid when one of these comes back.
type PersistenceError struct {
	Path  string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist record to %s: %v", e.Path, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }
