package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/chromedp/chromedp"

	"btt/internal/logging"
)

// ChromeFactory opens chromedp sessions, each backed by its own browser
// process so concurrent cases never share page state
type ChromeFactory struct {
	headless bool
	logger   *slog.Logger
}

// NewChromeFactory creates a factory for Chrome-backed sessions
func NewChromeFactory(headless bool) *ChromeFactory {
	return &ChromeFactory{
		headless: headless,
		logger:   logging.WithComponent("driver"),
	}
}

// NewSession starts a browser and returns a session bound to it
func (f *ChromeFactory) NewSession(ctx context.Context) (Driver, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", f.headless),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	f.logger.Debug("browser session started", "headless", f.headless)
	return &chromeSession{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

type chromeSession struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// run executes chromedp actions on the session's browser while honoring
// the caller's context. chromedp.Run needs the browser context, so the
// caller's cancellation and deadline are forwarded onto a derived one.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (s *chromeSession) Navigate(ctx context.Context, url string) (Result, error) {
	var title string
	if err := s.run(ctx, chromedp.Navigate(url), chromedp.Title(&title)); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Observed: fmt.Sprintf("page %q loaded", title)}, nil
}

func (s *chromeSession) Click(ctx context.Context, selector string) (Result, error) {
	err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{OK: true, Observed: fmt.Sprintf("clicked %s", selector)}, nil
}

func (s *chromeSession) Type(ctx context.Context, selector, text string) (Result, error) {
	err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return Result{}, err
	}
	// Observed output never echoes the text, it may be a credential
	return Result{OK: true, Observed: fmt.Sprintf("typed %d characters into %s", len(text), selector)}, nil
}

// discoverScript collects interactable elements and names them by
// data-testid, id or name attribute, in that order of preference
const discoverScript = `(() => {
	const sel = %s;
	const root = sel ? document.querySelector(sel) : document;
	const out = {};
	if (!root) return out;
	for (const el of root.querySelectorAll('[data-testid], [id], [name]')) {
		if (el.dataset && el.dataset.testid) {
			out[el.dataset.testid] = '[data-testid="' + el.dataset.testid + '"]';
		} else if (el.id) {
			out[el.id] = '#' + el.id;
		} else {
			const n = el.getAttribute('name');
			if (n) out[n] = '[name="' + n + '"]';
		}
	}
	return out;
})()`

func (s *chromeSession) DiscoverElements(ctx context.Context, scope string) (Result, error) {
	scopeLit := "null"
	if scope != "" {
		scopeLit = strconv.Quote(scope)
	}

	var elements map[string]string
	if err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(discoverScript, scopeLit), &elements)); err != nil {
		return Result{}, err
	}
	return Result{
		OK:       true,
		Observed: fmt.Sprintf("discovered %d elements", len(elements)),
		Elements: elements,
	}, nil
}

func (s *chromeSession) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}
