package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

// Default configuration values.
// These values are chosen to mimic an ordinary browser session and match
// the crawl behavior the engine was originally tuned for.
const (
	// DefaultTimeout is the per-request fetch timeout. Ten seconds is long
	// enough for slow shared hosting, which small-business sites often use,
	// while keeping a stuck host from stalling the whole seed list.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxPages is the maximum number of pages to visit per site.
	// Contact details almost always live within the first pages reachable
	// from the landing page, so a moderate cap keeps runs predictable.
	// 0 means unlimited. Users can override via the --max-pages CLI flag.
	DefaultMaxPages = 100

	// DefaultMaxDepth is the maximum link depth followed from the seed.
	// 0 means no depth limit; the page cap is the effective bound then.
	DefaultMaxDepth = 0

	// DefaultCrawlDelay is the politeness pause between requests to the
	// same site. 1 second is conservative and respectful of server
	// resources. Can be adjusted via the --delay CLI flag.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultUserAgent mimics a current desktop Chrome. Many sites serve
	// reduced or blocked content to obvious bot user agents, which would
	// hide exactly the contact sections this tool looks for.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/115.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultRegion selects automatic phone-region detection from the
	// site's top-level domain.
	DefaultRegion = "auto"

	// DefaultFallbackRegion is used when automatic detection cannot map
	// the site's TLD to a region. The engine grew up crawling Italian
	// business sites, so IT is the historical default.
	DefaultFallbackRegion = "IT"

	// DefaultRenderWait is how long the dynamic fetcher waits for the DOM
	// to stop changing after navigation before reading the document.
	DefaultRenderWait = 2 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "contactscan"
)

// Phone extraction strategy names accepted by Config.PhoneStrategy.
const (
	// PhoneStrategyLocale parses candidates with a locale-aware phone
	// library, keeps mobile or mobile-or-fixed line types, and formats
	// survivors in E.164. This is the default.
	PhoneStrategyLocale = "locale"

	// PhoneStrategyRegex matches the historical Italian-mobile pattern
	// and normalizes prefixes by hand. Kept for compatibility with runs
	// tuned against it.
	PhoneStrategyRegex = "regex"
)

// Config holds all configuration options for contactscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Seeds is the ordered list of seed URLs to crawl. Entries may omit
	// the scheme; https is assumed. Order is preserved: results are
	// reported in the order seeds were supplied.
	Seeds []string

	// SeedFile is an optional path to a seed list file (.txt, .csv, or
	// .xlsx). Seeds loaded from the file are appended after positional
	// seeds, skipping duplicates.
	SeedFile string

	// MaxPages is the maximum number of pages to visit per site.
	// 0 means unlimited.
	MaxPages int

	// MaxDepth is the maximum link depth followed from the seed.
	// 0 means unlimited; 1 means the seed page plus pages it links to.
	MaxDepth int

	// ForceDynamic makes every fetch use the headless browser instead of
	// the static HTTP client. When set, the dynamic fallback re-fetch
	// never runs because every page was already rendered.
	ForceDynamic bool

	// Region is the phone-parsing region hint: "auto" derives a region
	// from each site's TLD, anything else must be an ISO 3166-1 alpha-2
	// code applied to all sites.
	Region string

	// FallbackRegion is the region used when automatic detection fails.
	FallbackRegion string

	// PhoneStrategy selects the phone extraction implementation:
	// PhoneStrategyLocale or PhoneStrategyRegex.
	PhoneStrategy string

	// EmailThreshold stops a site's crawl early once this many emails
	// have been found and every other configured threshold is also met.
	// 0 disables the email threshold.
	EmailThreshold int

	// PhoneThreshold stops a site's crawl early once this many phones
	// have been found and every other configured threshold is also met.
	// 0 disables the phone threshold.
	PhoneThreshold int

	// Timeout is the per-request fetch timeout, applied to both static
	// requests and dynamic page loads.
	Timeout time.Duration

	// CrawlDelay is the politeness pause between requests to one site.
	// Lower values may trigger rate limiting on the target.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with every fetch, static
	// and dynamic alike.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. 0 uses the default.
	MaxBodySize int64

	// RenderWait is how long the dynamic fetcher waits for the DOM to
	// settle before reading the rendered document.
	RenderWait time.Duration

	// BrowserURL attaches the dynamic fetcher to an already-running
	// browser via its DevTools websocket URL instead of launching one.
	// Empty means launch a headless browser on first dynamic fetch.
	BrowserURL string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above reach the event stream.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .contactscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// JSONReport switches the final report to JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport switches the final report to Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to this path instead of stdout.
	ReportFile string

	// ExportFile writes an additional spreadsheet (.xlsx) of the results
	// to this path, independently of the report format on stdout.
	ExportFile string

	// DBDir is the directory holding the SQLite results database.
	// When set, finished site results are recorded for later comparison
	// with the history command. Empty disables persistence.
	DBDir string

	// SaveToDB indicates whether to save results to the database.
	// Automatically true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, the user
// agent, the region fallback). This also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:       DefaultMaxPages,
		MaxDepth:       DefaultMaxDepth,
		Region:         DefaultRegion,
		FallbackRegion: DefaultFallbackRegion,
		PhoneStrategy:  PhoneStrategyLocale,
		Timeout:        DefaultTimeout,
		CrawlDelay:     DefaultCrawlDelay,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		RenderWait:     DefaultRenderWait,
	}
}

// XDGDataDir returns the XDG data directory for contactscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/contactscan
// On macOS: ~/Library/Application Support/contactscan
// On Windows: %LOCALAPPDATA%\contactscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// At least one seed must arrive via arguments or a seed file
	if len(c.Seeds) == 0 && c.SeedFile == "" {
		return ErrNoSeeds
	}

	// Timeout must be positive; zero would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Page and depth limits use 0 for "unlimited"; negatives are invalid
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	// CrawlDelay must be non-negative
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// Thresholds use 0 for "disabled"; negatives are invalid
	if c.EmailThreshold < 0 || c.PhoneThreshold < 0 {
		return ErrInvalidThreshold
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	switch c.PhoneStrategy {
	case PhoneStrategyLocale, PhoneStrategyRegex:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPhoneStrategy, c.PhoneStrategy)
	}

	// Region hints must be real ISO 3166-1 alpha-2 codes
	if c.Region != DefaultRegion && !validRegion(c.Region) {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, c.Region)
	}
	if !validRegion(c.FallbackRegion) {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, c.FallbackRegion)
	}

	return nil
}

// validRegion reports whether code parses as an ISO 3166-1 region.
func validRegion(code string) bool {
	_, err := language.ParseRegion(code)
	return err == nil
}
