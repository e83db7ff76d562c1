package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Errors that carry a dynamic value (the bad
// region code, the unknown strategy name) are wrapped with fmt.Errorf at
// the call site so errors.Is keeps working.
var (
	// ErrNoSeeds is returned when no seed URL or seed file is specified.
	// This error occurs when neither --seeds nor a positional argument
	// provides a target.
	ErrNoSeeds = errors.New("no seeds specified: provide a URL or use --seeds")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate fetch failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	// Use 0 for an unlimited page budget.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxDepth is returned when the depth limit is negative.
	// Use 0 for unlimited depth.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// A negative delay is invalid; use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidThreshold is returned when a contact-count threshold is
	// negative. Use 0 to disable a threshold.
	ErrInvalidThreshold = errors.New("invalid threshold: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownPhoneStrategy is returned when the phone strategy is
	// neither "locale" nor "regex".
	ErrUnknownPhoneStrategy = errors.New("unknown phone strategy")

	// ErrInvalidRegion is returned when a region hint is not a valid
	// ISO 3166-1 alpha-2 code (and is not "auto").
	ErrInvalidRegion = errors.New("invalid region code")
)
