package driver

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestScriptDriver_Outcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured calls succeed", func(t *testing.T) {
		d := NewScriptDriver()
		res, err := d.Navigate(ctx, "https://shop.local")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.OK || res.Observed == "" {
			t.Errorf("expected success with observed text, got %+v", res)
		}
	})

	t.Run("configured failure", func(t *testing.T) {
		d := NewScriptDriver().FailWith("click #buy", "button is disabled")
		res, err := d.Click(ctx, "#buy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.OK {
			t.Error("expected a failed result")
		}
		if res.Observed != "button is disabled" {
			t.Errorf("unexpected observed text %q", res.Observed)
		}
	})

	t.Run("configured transport error", func(t *testing.T) {
		boom := errors.New("browser crashed")
		d := NewScriptDriver().ErrWith("type #user", boom)
		_, err := d.Type(ctx, "#user", "alice")
		if !errors.Is(err, boom) {
			t.Errorf("expected the configured error, got %v", err)
		}
	})

	t.Run("records calls in order", func(t *testing.T) {
		d := NewScriptDriver()
		d.Navigate(ctx, "https://a.example")
		d.Click(ctx, "#one")
		d.Click(ctx, "#two")

		calls := d.Calls()
		want := []string{"navigate https://a.example", "click #one", "click #two"}
		if len(calls) != len(want) {
			t.Fatalf("expected %d calls, got %d", len(want), len(calls))
		}
		for i := range want {
			if calls[i] != want[i] {
				t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
			}
		}
	})
}

func TestScriptDriver_Discover(t *testing.T) {
	ctx := context.Background()
	d := NewScriptDriver().
		WithPage("", map[string]string{"login": "#login"}).
		WithPage("#nav", map[string]string{"home": "a.home"})

	t.Run("scoped page", func(t *testing.T) {
		res, err := d.DiscoverElements(ctx, "#nav")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Elements["home"] != "a.home" {
			t.Errorf("unexpected elements %v", res.Elements)
		}
	})

	t.Run("falls back to the default page", func(t *testing.T) {
		res, err := d.DiscoverElements(ctx, "#footer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Elements["login"] != "#login" {
			t.Errorf("unexpected elements %v", res.Elements)
		}
	})

	t.Run("results are copies", func(t *testing.T) {
		res, _ := d.DiscoverElements(ctx, "#nav")
		res.Elements["home"] = "mutated"
		again, _ := d.DiscoverElements(ctx, "#nav")
		if again.Elements["home"] != "a.home" {
			t.Error("driver page table should not be mutable through results")
		}
	})
}

func TestScriptDriver_Latency(t *testing.T) {
	t.Run("expired context aborts the wait", func(t *testing.T) {
		d := NewScriptDriver().WithLatency(time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := d.Navigate(ctx, "https://slow.example")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("wait should abort early, took %v", elapsed)
		}
	})

	t.Run("zero latency ignores a canceled context", func(t *testing.T) {
		d := NewScriptDriver()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := d.Click(ctx, "#ok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.OK {
			t.Error("expected success")
		}
	})
}

func TestScriptFactory(t *testing.T) {
	factory := NewScriptFactory(func(d *ScriptDriver) {
		d.FailWith("click #buy", "out of stock")
	})

	s1, err := factory.NewSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := factory.NewSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1 == s2 {
		t.Error("sessions should be independent")
	}

	res, _ := s2.Click(context.Background(), "#buy")
	if res.OK {
		t.Error("configuration hook should apply to every session")
	}

	if len(factory.Sessions()) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(factory.Sessions()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := factory.NewSession(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}
