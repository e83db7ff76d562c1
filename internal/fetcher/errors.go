package fetcher

import "fmt"

// FetchError describes the failure of a single page fetch: a non-success
// HTTP status, a transport problem, or a rendering failure. Fetch errors
// are always transient from the crawl's point of view; the page is skipped
// and the crawl continues.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// StatusCode is the HTTP status when the server answered with a
	// non-success status. Zero when the failure happened before or
	// instead of an HTTP response (timeout, connection refused,
	// rendering error).
	StatusCode int

	// Mode is the name of the fetcher that produced the error
	// ("static" or "dynamic").
	Mode string

	// Err is the underlying error, nil for plain status failures.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch of %s failed: status %d", e.Mode, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s fetch of %s failed: %v", e.Mode, e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}
