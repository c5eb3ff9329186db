package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestMalformedSourceError(t *testing.T) {
	base := &MalformedSourceError{Source: "cases/login.xml", Reason: "missing id"}
	wrapped := fmt.Errorf("loading cases: %w", base)

	var target *MalformedSourceError
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find MalformedSourceError")
	}
	if target.Source != "cases/login.xml" {
		t.Errorf("expected source cases/login.xml, got %q", target.Source)
	}
	if got := base.Error(); got != "malformed source cases/login.xml: missing id" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestStepExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("element not visible")
	err := &StepExecutionError{CaseID: "tc-1", Step: 3, Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if got := err.Error(); got != "case tc-1 step 3: element not visible" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &PersistenceError{Path: "records/tc-1.md", Cause: cause}

	wrapped := fmt.Errorf("saving record: %w", err)
	var target *PersistenceError
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find PersistenceError")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}
