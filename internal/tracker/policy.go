package tracker

import "btt/internal/domain"

// RetryPolicy decides whether a terminal step may be dispatched again.
// Pending steps never consult the policy.
type RetryPolicy interface {
	AllowRetry(step *domain.Step) bool
}

// RetryFailed permits re-dispatching failed steps only. This is the
// default policy.
type RetryFailed struct{}

// AllowRetry implements RetryPolicy
func (RetryFailed) AllowRetry(step *domain.Step) bool {
	return step.Status == domain.StepFailed
}

// NeverRetry forbids overwriting any terminal status
type NeverRetry struct{}

// AllowRetry implements RetryPolicy
func (NeverRetry) AllowRetry(step *domain.Step) bool {
	return false
}
