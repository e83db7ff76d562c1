package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/nao1215/contactscan/internal/config"
)

// Browser is the dynamic fetcher: it loads pages in a headless browsing
// context, waits for the DOM to stop changing, and reads the rendered
// document. It exists for sites that assemble their contact sections with
// JavaScript, where the static body contains nothing to extract.
//
// Design decision: The underlying browser is launched lazily on the first
// Fetch rather than at construction because:
//  1. Most crawls never need rendering; the static path finds the contacts
//  2. Launching Chromium costs seconds and a few hundred MB
//  3. The dynamic fallback is the exception, not the rule
//
// One Browser instance is shared across all sites of a run and must be
// released with Close on every exit path.
type Browser struct {
	// mu guards lazy connection and Close.
	mu sync.Mutex

	// browser is the connected rod browser, nil until first use.
	browser *rod.Browser

	// launcher manages the Chromium process we spawned ourselves.
	// Nil when attached to an external browser via controlURL.
	launcher *launcher.Launcher

	// controlURL attaches to an already-running browser instead of
	// launching one. Empty means launch on demand.
	controlURL string

	// userAgent overrides the browser's default User-Agent per page.
	userAgent string

	// timeout bounds one navigate-and-read cycle.
	timeout time.Duration

	// renderWait is how long the DOM must stay unchanged before the
	// document is considered settled.
	renderWait time.Duration
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithControlURL attaches to an external browser via its DevTools
// websocket URL instead of launching a headless one.
func WithControlURL(u string) BrowserOption {
	return func(b *Browser) {
		b.controlURL = u
	}
}

// WithBrowserUserAgent sets the User-Agent override applied to each page.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(b *Browser) {
		b.userAgent = ua
	}
}

// WithBrowserTimeout sets the per-page navigate-and-read timeout.
func WithBrowserTimeout(timeout time.Duration) BrowserOption {
	return func(b *Browser) {
		b.timeout = timeout
	}
}

// WithRenderWait sets how long the DOM must be stable before reading.
func WithRenderWait(wait time.Duration) BrowserOption {
	return func(b *Browser) {
		b.renderWait = wait
	}
}

// NewBrowser creates a dynamic fetcher. No browser process is started
// until the first Fetch.
func NewBrowser(opts ...BrowserOption) *Browser {
	b := &Browser{
		userAgent:  config.DefaultUserAgent,
		timeout:    config.DefaultTimeout,
		renderWait: config.DefaultRenderWait,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns "dynamic".
func (b *Browser) Name() string {
	return "dynamic"
}

// connect returns the shared rod browser, launching or attaching on first
// use.
func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	controlURL := b.controlURL
	if controlURL == "" {
		l := launcher.New().
			Headless(true).
			Set("no-sandbox").
			Set("disable-gpu").
			Set("disable-dev-shm-usage")
		u, err := l.Launch()
		if err != nil {
			return nil, err
		}
		b.launcher = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}

	b.browser = browser
	return browser, nil
}

// Fetch renders rawURL and returns the resulting document HTML.
// Navigation and read failures are returned as *FetchError; a page that
// never fully settles is read anyway once the render wait elapses.
func (b *Browser) Fetch(ctx context.Context, rawURL string) (string, error) {
	browser, err := b.connect()
	if err != nil {
		return "", &FetchError{URL: rawURL, Mode: b.Name(), Err: err}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", &FetchError{URL: rawURL, Mode: b.Name(), Err: err}
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(b.timeout)

	if b.userAgent != "" {
		// Best effort; the default UA still loads the page.
		_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: b.userAgent,
		})
	}

	if err := page.Navigate(rawURL); err != nil {
		return "", &FetchError{URL: rawURL, Mode: b.Name(), Err: err}
	}

	// A page that keeps polling never stabilizes; after the wait we read
	// whatever has rendered rather than failing the fetch.
	_ = page.WaitStable(b.renderWait)

	html, err := page.HTML()
	if err != nil {
		return "", &FetchError{URL: rawURL, Mode: b.Name(), Err: err}
	}

	return html, nil
}

// Close releases the browser and, when we launched it ourselves, the
// Chromium process and its temporary profile. Safe to call when no
// browser was ever started, and safe to call more than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	b.browser = nil

	if b.launcher != nil {
		b.launcher.Cleanup()
		b.launcher = nil
	}

	return err
}
