package tracker

import (
	"context"
	"sync"
	"testing"

	"btt/internal/domain"
	"btt/internal/driver"
)

type recordingProgress struct {
	mu       sync.Mutex
	updates  int
	finished bool
	last     [3]int
}

func (p *recordingProgress) Update(completed, passed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
	p.last = [3]int{completed, passed, failed}
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}

func poolCases(ids ...string) []*domain.TestCase {
	var cases []*domain.TestCase
	for _, id := range ids {
		cases = append(cases, newCase(id,
			navStep("https://shop.local/"+id),
			clickStep("#go"),
		))
	}
	return cases
}

func TestPool_Execute(t *testing.T) {
	factory := driver.NewScriptFactory(nil)
	cases := poolCases("a", "b", "c", "d")
	progress := &recordingProgress{}

	pool := NewPool(factory, 2, Options{})
	pool.SetProgress(progress)

	duration, err := pool.Execute(context.Background(), cases, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if duration <= 0 {
		t.Error("expected a positive duration")
	}

	for _, tc := range cases {
		if tc.Status != domain.CaseCompleted {
			t.Errorf("case %s: expected Completed, got %v", tc.ID, tc.Status)
		}
	}

	// One exclusive session per worker, all closed afterwards
	sessions := factory.Sessions()
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
	for i, s := range sessions {
		if !s.Closed() {
			t.Errorf("session %d should be closed", i)
		}
	}

	progress.mu.Lock()
	defer progress.mu.Unlock()
	if !progress.finished {
		t.Error("expected Finish to be called")
	}
	if progress.last != [3]int{4, 4, 0} {
		t.Errorf("expected final update 4/4/0, got %v", progress.last)
	}
}

func TestPool_Execute_CountsFailures(t *testing.T) {
	factory := driver.NewScriptFactory(func(d *driver.ScriptDriver) {
		d.FailWith("navigate https://shop.local/bad", "server error page")
	})
	cases := poolCases("good", "bad")

	pool := NewPool(factory, 1, Options{})
	if _, err := pool.Execute(context.Background(), cases, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cases[0].Status != domain.CaseCompleted {
		t.Errorf("expected Completed, got %v", cases[0].Status)
	}
	if cases[1].Status != domain.CaseFailed {
		t.Errorf("expected Failed, got %v", cases[1].Status)
	}
}

func TestPool_Execute_FailFast(t *testing.T) {
	factory := driver.NewScriptFactory(func(d *driver.ScriptDriver) {
		d.FailWith("navigate https://shop.local/a", "boom")
	})
	cases := poolCases("a", "b", "c")

	// One worker makes the dispatch order deterministic
	pool := NewPool(factory, 1, Options{})
	if _, err := pool.Execute(context.Background(), cases, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cases[0].Status != domain.CaseFailed {
		t.Fatalf("expected the first case Failed, got %v", cases[0].Status)
	}
	for _, tc := range cases[1:] {
		if tc.Status != domain.CasePending {
			t.Errorf("case %s should not run after fail-fast, got %v", tc.ID, tc.Status)
		}
	}
}

func TestPool_Execute_CanceledContext(t *testing.T) {
	factory := driver.NewScriptFactory(nil)
	cases := poolCases("a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPool(factory, 2, Options{}).Execute(ctx, cases, false)
	if err == nil {
		t.Fatal("expected an error for a canceled run")
	}
	for _, tc := range cases {
		if tc.Status != domain.CasePending {
			t.Errorf("case %s should stay Pending, got %v", tc.ID, tc.Status)
		}
	}
}

func TestPool_Execute_Empty(t *testing.T) {
	pool := NewPool(driver.NewScriptFactory(nil), 2, Options{})
	duration, err := pool.Execute(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if duration != 0 {
		t.Errorf("expected zero duration, got %v", duration)
	}
}
