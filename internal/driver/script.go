package driver

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ScriptDriver plays back configured outcomes without touching a
// browser. Dry runs use it to validate case sequencing offline and the
// tracker tests use it to script failures.
//
// Calls are keyed by "<action> <argument>", for example "click #buy" or
// "navigate https://shop.local". Unconfigured calls succeed.
type ScriptDriver struct {
	mu       sync.Mutex
	failWith map[string]string
	errWith  map[string]error
	pages    map[string]map[string]string
	latency  time.Duration
	onCall   func(key string)
	calls    []string
	closed   bool
}

// NewScriptDriver creates a driver where every call succeeds
func NewScriptDriver() *ScriptDriver {
	return &ScriptDriver{
		failWith: make(map[string]string),
		errWith:  make(map[string]error),
		pages:    make(map[string]map[string]string),
	}
}

// FailWith makes the keyed call report an action failure with the given
// observed text
func (d *ScriptDriver) FailWith(key, observed string) *ScriptDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failWith[key] = observed
	return d
}

// ErrWith makes the keyed call return a transport error
func (d *ScriptDriver) ErrWith(key string, err error) *ScriptDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errWith[key] = err
	return d
}

// WithPage sets the elements a discover call returns for the given
// scope. Scope "" is the fallback for any scope without its own entry.
func (d *ScriptDriver) WithPage(scope string, elements map[string]string) *ScriptDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[scope] = elements
	return d
}

// WithLatency makes every call take the given time, observing context
// cancellation while it waits
func (d *ScriptDriver) WithLatency(latency time.Duration) *ScriptDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = latency
	return d
}

// OnCall registers a hook invoked at the start of every call
func (d *ScriptDriver) OnCall(hook func(key string)) *ScriptDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onCall = hook
	return d
}

// Calls returns the keys of every call made so far, in order
func (d *ScriptDriver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Closed reports whether Close was called
func (d *ScriptDriver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// perform records the call and resolves its configured outcome. The
// context is only consulted during the latency wait: a zero-latency
// call behaves like an in-flight action that completes before noticing
// cancellation.
func (d *ScriptDriver) perform(ctx context.Context, key, observed string) (Result, error) {
	d.mu.Lock()
	d.calls = append(d.calls, key)
	fail, hasFail := d.failWith[key]
	errOut, hasErr := d.errWith[key]
	latency := d.latency
	hook := d.onCall
	d.mu.Unlock()

	if hook != nil {
		hook(key)
	}

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	if hasErr {
		return Result{}, errOut
	}
	if hasFail {
		return Result{OK: false, Observed: fail}, nil
	}
	return Result{OK: true, Observed: observed}, nil
}

func (d *ScriptDriver) Navigate(ctx context.Context, url string) (Result, error) {
	return d.perform(ctx, "navigate "+url, fmt.Sprintf("page %s loaded", url))
}

func (d *ScriptDriver) Click(ctx context.Context, selector string) (Result, error) {
	return d.perform(ctx, "click "+selector, fmt.Sprintf("clicked %s", selector))
}

func (d *ScriptDriver) Type(ctx context.Context, selector, text string) (Result, error) {
	return d.perform(ctx, "type "+selector, fmt.Sprintf("typed %d characters into %s", len(text), selector))
}

func (d *ScriptDriver) DiscoverElements(ctx context.Context, scope string) (Result, error) {
	res, err := d.perform(ctx, "discover "+scope, "")
	if err != nil || !res.OK {
		return res, err
	}

	d.mu.Lock()
	elements, ok := d.pages[scope]
	if !ok {
		elements = d.pages[""]
	}
	d.mu.Unlock()

	res.Elements = make(map[string]string, len(elements))
	for name, sel := range elements {
		res.Elements[name] = sel
	}
	res.Observed = fmt.Sprintf("discovered %d elements", len(res.Elements))
	return res, nil
}

func (d *ScriptDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// ScriptFactory hands out script drivers sharing one configuration hook
type ScriptFactory struct {
	mu        sync.Mutex
	configure func(*ScriptDriver)
	sessions  []*ScriptDriver
}

// NewScriptFactory creates a factory whose sessions are set up by the
// given hook. A nil hook yields always-succeeding sessions.
func NewScriptFactory(configure func(*ScriptDriver)) *ScriptFactory {
	return &ScriptFactory{configure: configure}
}

// NewSession opens a fresh scripted session
func (f *ScriptFactory) NewSession(ctx context.Context) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := NewScriptDriver()
	if f.configure != nil {
		f.configure(d)
	}

	f.mu.Lock()
	f.sessions = append(f.sessions, d)
	f.mu.Unlock()
	return d, nil
}

// Sessions returns every session opened so far
func (f *ScriptFactory) Sessions() []*ScriptDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*ScriptDriver(nil), f.sessions...)
}
