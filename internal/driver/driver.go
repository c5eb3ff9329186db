package driver

import "context"

// Result is the outcome of one driver call: success or failure plus a
// description of the observed browser state
type Result struct {
	OK       bool
	Observed string
	Elements map[string]string // discovery results, logical name -> selector
}

// Driver is the automation capability set steps are dispatched to. A
// session serves at most one test case at a time; concurrent cases each
// need their own session.
type Driver interface {
	Navigate(ctx context.Context, url string) (Result, error)
	Click(ctx context.Context, selector string) (Result, error)
	Type(ctx context.Context, selector, text string) (Result, error)
	DiscoverElements(ctx context.Context, scope string) (Result, error)
	Close() error
}

// Factory opens exclusive driver sessions, one per worker
type Factory interface {
	NewSession(ctx context.Context) (Driver, error)
}
