package domain

import (
	"testing"
	"time"
)

func caseWithStatuses(statuses ...StepStatus) *TestCase {
	tc := &TestCase{ID: "tc-1", Title: "Login works"}
	for i, st := range statuses {
		tc.Steps = append(tc.Steps, &Step{Index: i + 1, Status: st})
	}
	return tc
}

func TestTestCase_ComputeStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []StepStatus
		started  bool
		want     CaseStatus
	}{
		{"all pending before start", []StepStatus{StepPending, StepPending}, false, CasePending},
		{"all pending after start", []StepStatus{StepPending, StepPending}, true, CaseInProgress},
		{"partial success", []StepStatus{StepSuccess, StepPending}, true, CaseInProgress},
		{"all success", []StepStatus{StepSuccess, StepSuccess}, true, CaseCompleted},
		{"one failed", []StepStatus{StepSuccess, StepFailed, StepPending}, true, CaseFailed},
		{"failed first", []StepStatus{StepFailed, StepPending}, true, CaseFailed},
		{"single success", []StepStatus{StepSuccess}, true, CaseCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := caseWithStatuses(tt.statuses...)
			if tt.started {
				tc.StartedAt = time.Now()
			}
			if got := tc.ComputeStatus(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("case without steps stays pending", func(t *testing.T) {
		tc := &TestCase{ID: "tc-empty"}
		if got := tc.ComputeStatus(); got != CasePending {
			t.Errorf("expected Pending, got %v", got)
		}
	})
}

func TestTestCase_Counts(t *testing.T) {
	tc := caseWithStatuses(StepSuccess, StepFailed, StepPending, StepSuccess, StepPending)

	succeeded, failed, pending := tc.Counts()
	if succeeded != 2 {
		t.Errorf("expected 2 succeeded, got %d", succeeded)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed, got %d", failed)
	}
	if pending != 2 {
		t.Errorf("expected 2 pending, got %d", pending)
	}
}

func TestTestCase_SelectorsBefore(t *testing.T) {
	tc := &TestCase{
		ID: "tc-2",
		Steps: []*Step{
			{Index: 1, Selectors: map[string]string{"login": "#login", "search": "#q"}},
			{Index: 2},
			{Index: 3, Selectors: map[string]string{"login": "#login-v2"}},
			{Index: 4},
		},
	}

	t.Run("merges earlier discoveries", func(t *testing.T) {
		got := tc.SelectorsBefore(3)
		if got["login"] != "#login" {
			t.Errorf("expected #login, got %q", got["login"])
		}
		if got["search"] != "#q" {
			t.Errorf("expected #q, got %q", got["search"])
		}
	})

	t.Run("later discovery wins", func(t *testing.T) {
		got := tc.SelectorsBefore(4)
		if got["login"] != "#login-v2" {
			t.Errorf("expected #login-v2, got %q", got["login"])
		}
	})

	t.Run("nothing visible to the first step", func(t *testing.T) {
		if got := tc.SelectorsBefore(1); len(got) != 0 {
			t.Errorf("expected empty map, got %v", got)
		}
	})
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityNormal, false},
		{"normal", PriorityNormal, false},
		{"medium", PriorityNormal, false},
		{"High", PriorityHigh, false},
		{" low ", PriorityLow, false},
		{"urgent", PriorityNormal, true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePriority(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePriority(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestStepStatus_IsTerminal(t *testing.T) {
	if StepPending.IsTerminal() {
		t.Error("pending should not be terminal")
	}
	if !StepSuccess.IsTerminal() {
		t.Error("success should be terminal")
	}
	if !StepFailed.IsTerminal() {
		t.Error("failed should be terminal")
	}
}
