package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"btt/internal/domain"
	"btt/internal/driver"
	"btt/internal/logging"
)

// Options configure how a tracker runs a case
type Options struct {
	// StepTimeout bounds each driver call. Zero means no timeout; a
	// timed-out step is Failed.
	StepTimeout time.Duration
	// ContinueOnFailure lets a pass keep going past a failed step that
	// is marked independent. Without it every failure halts the pass.
	ContinueOnFailure bool
	// Retry gates re-dispatching terminal steps. Nil means RetryFailed.
	Retry RetryPolicy
}

// Tracker executes one case at a time against one driver session,
// recording every outcome on the case's steps. Steps run strictly in
// source order.
type Tracker struct {
	driver driver.Driver
	opts   Options
	logger *slog.Logger
}

// New creates a Tracker bound to an exclusive driver session
func New(drv driver.Driver, opts Options) *Tracker {
	if opts.Retry == nil {
		opts.Retry = RetryFailed{}
	}
	return &Tracker{
		driver: drv,
		opts:   opts,
		logger: logging.WithComponent("tracker"),
	}
}

// ExecutePass runs the case's steps in order. The default policy halts
// on the first failed step, leaving later steps Pending and the case
// Failed. A non-nil error means the pass was cut short by cancellation;
// step outcomes recorded so far are kept and the current in-flight
// attempt is left unmarked.
//
// Re-running a pass over a partially executed case keeps successful
// steps and re-dispatches terminal ones only where the retry policy
// allows it.
func (t *Tracker) ExecutePass(ctx context.Context, tc *domain.TestCase) error {
	if tc.StartedAt.IsZero() {
		tc.StartedAt = time.Now()
	}
	tc.Status = domain.CaseInProgress
	t.logger.Debug("pass started", "case", tc.ID, "steps", len(tc.Steps))

	for _, step := range tc.Steps {
		if err := ctx.Err(); err != nil {
			tc.Status = tc.ComputeStatus()
			return err
		}

		if step.Status.IsTerminal() && !t.opts.Retry.AllowRetry(step) {
			if step.Status == domain.StepFailed && !t.mayContinuePast(step) {
				break
			}
			continue
		}

		if err := t.dispatch(ctx, tc, step); err != nil {
			tc.Status = tc.ComputeStatus()
			return err
		}

		if step.Status == domain.StepFailed && !t.mayContinuePast(step) {
			break
		}
	}

	tc.Status = tc.ComputeStatus()
	tc.FinishedAt = time.Now()
	t.logger.Debug("pass finished", "case", tc.ID, "status", tc.Status.String())
	return nil
}

// RetryStep re-dispatches one terminal step if the retry policy allows
// it. On a recorded failure the returned error wraps the step's new
// outcome; the state is updated either way.
func (t *Tracker) RetryStep(ctx context.Context, tc *domain.TestCase, index int) error {
	if index < 1 || index > len(tc.Steps) {
		return fmt.Errorf("case %s has no step %d", tc.ID, index)
	}
	step := tc.Steps[index-1]
	if !step.Status.IsTerminal() {
		return fmt.Errorf("step %d of case %s is still pending, run a pass instead", index, tc.ID)
	}
	if !t.opts.Retry.AllowRetry(step) {
		return fmt.Errorf("retry of step %d in case %s not permitted by policy", index, tc.ID)
	}

	if err := t.dispatch(ctx, tc, step); err != nil {
		tc.Status = tc.ComputeStatus()
		return err
	}
	tc.Status = tc.ComputeStatus()

	if step.Status == domain.StepFailed {
		detail := step.Error
		if detail == "" {
			detail = step.Observed
		}
		return &domain.StepExecutionError{CaseID: tc.ID, Step: index, Cause: errors.New(detail)}
	}
	return nil
}

// mayContinuePast reports whether a pass may proceed beyond this failed
// step
func (t *Tracker) mayContinuePast(step *domain.Step) bool {
	return step.Independent && t.opts.ContinueOnFailure
}

// dispatch issues one driver call for the step and records its outcome.
// A non-nil return means the attempt was aborted by external
// cancellation and nothing was recorded.
func (t *Tracker) dispatch(ctx context.Context, tc *domain.TestCase, step *domain.Step) error {
	stepCtx := ctx
	if t.opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, t.opts.StepTimeout)
		defer cancel()
	}

	step.DispatchedAt = time.Now()
	res, err := t.send(stepCtx, tc, step)
	step.Duration = time.Since(step.DispatchedAt)

	if err != nil {
		if ctx.Err() != nil {
			// External cancellation: the attempt does not count
			return ctx.Err()
		}
		step.Attempts++
		step.Status = domain.StepFailed
		if errors.Is(err, context.DeadlineExceeded) && t.opts.StepTimeout > 0 {
			step.Error = fmt.Sprintf("step timed out after %v", t.opts.StepTimeout)
		} else {
			step.Error = err.Error()
		}
		step.Observed = res.Observed
		t.logger.Warn("step failed", "case", tc.ID, "step", step.Index, "error", step.Error)
		return nil
	}

	step.Attempts++
	step.Observed = res.Observed
	if !res.OK {
		step.Status = domain.StepFailed
		step.Error = ""
		t.logger.Warn("step failed", "case", tc.ID, "step", step.Index, "observed", step.Observed)
		return nil
	}

	step.Status = domain.StepSuccess
	step.Error = ""
	if len(res.Elements) > 0 {
		step.Selectors = res.Elements
	}
	t.logger.Debug("step succeeded", "case", tc.ID, "step", step.Index, "duration", step.Duration)
	return nil
}

// send maps the step's command onto the driver capability set,
// resolving @name targets against earlier discoveries
func (t *Tracker) send(ctx context.Context, tc *domain.TestCase, step *domain.Step) (driver.Result, error) {
	cmd := step.Command
	switch cmd.Action {
	case domain.ActionNavigate:
		return t.driver.Navigate(ctx, cmd.URL)
	case domain.ActionClick:
		selector, err := resolveTarget(tc, step, cmd.Target)
		if err != nil {
			return driver.Result{}, err
		}
		return t.driver.Click(ctx, selector)
	case domain.ActionType:
		selector, err := resolveTarget(tc, step, cmd.Target)
		if err != nil {
			return driver.Result{}, err
		}
		return t.driver.Type(ctx, selector, cmd.Text)
	case domain.ActionDiscover:
		return t.driver.DiscoverElements(ctx, cmd.Scope)
	}
	return driver.Result{}, fmt.Errorf("unknown action %q", cmd.Action)
}

// resolveTarget turns an @name reference into the selector an earlier
// discover step found for it. Plain selectors pass through.
func resolveTarget(tc *domain.TestCase, step *domain.Step, target string) (string, error) {
	if !domain.IsRef(target) {
		return target, nil
	}

	name := domain.RefName(target)
	if selector, ok := tc.SelectorsBefore(step.Index)[name]; ok {
		return selector, nil
	}
	return "", fmt.Errorf("no earlier discovery named %q", name)
}
