package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/nao1215/contactscan/internal/config"
)

// Fetcher retrieves the text content of a single URL.
// Implementations return the page text on success and a *FetchError on
// any per-page failure. Fetchers are stateless with respect to the crawl:
// politeness pacing and retry decisions belong to the crawl loop.
type Fetcher interface {
	// Fetch returns the text content served at rawURL.
	Fetch(ctx context.Context, rawURL string) (string, error)

	// Name returns the fetcher name for logging ("static" or "dynamic").
	Name() string
}

// Client is the static fetcher: one GET per page with browser-like
// headers, a fixed timeout, and a capped body read.
//
// Design decision: We send a real browser User-Agent and Accept header
// because many small-business sites serve reduced pages, or none at all,
// to obvious bots, and the reduced pages are exactly the ones missing the
// contact sections this tool exists to find.
type Client struct {
	// client is the underlying HTTP client carrying the timeout.
	client *http.Client

	// userAgent is sent as the User-Agent header on every request.
	userAgent string

	// maxBodySize caps how many bytes of the response body are read.
	maxBodySize int64

	// headers are extra per-site headers added to every request.
	headers map[string]string

	// cookie is an optional raw Cookie header value for sites that gate
	// content behind a consent or session cookie.
	cookie string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) ClientOption {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithCookie sets a raw Cookie header value sent with every request.
func WithCookie(cookie string) ClientOption {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// NewClient creates a static fetcher with browser-mimicking defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: config.DefaultTimeout,
		},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns "static".
func (c *Client) Name() string {
	return "static"
}

// Fetch issues a single GET and returns the raw response body as text.
// A non-2xx status, transport failure, or body read failure is returned
// as a *FetchError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Mode: c.Name(), Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Mode: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, Mode: c.Name(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return "", &FetchError{URL: rawURL, Mode: c.Name(), Err: err}
	}

	return string(body), nil
}
