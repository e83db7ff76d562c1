package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/contactscan/internal/config"
	"github.com/nao1215/contactscan/internal/extractor"
	"github.com/nao1215/contactscan/internal/fetcher"
	"github.com/nao1215/contactscan/internal/model"
)

// Spider crawls a single seed site breadth-first and collects the contact
// identifiers found on its pages. One Spider instance serves one site
// crawl; the visited set, frontier queue, and running result sets are
// owned exclusively by the goroutine executing Crawl.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// static fetches pages with a plain HTTP GET.
	static fetcher.Fetcher

	// dynamic renders pages in a headless browser. Used for every page
	// when forceDynamic is set, and for the one-time seed re-fetch when
	// the static crawl found no contacts. May be nil when rendering is
	// unavailable; the fallback is then skipped.
	dynamic fetcher.Fetcher

	// phones is the configured phone extraction strategy.
	phones extractor.PhoneStrategy

	// maxPages limits pages visited per site. 0 means unlimited.
	maxPages int

	// maxDepth limits link depth from the seed. 0 means unlimited.
	maxDepth int

	// forceDynamic renders every page instead of static fetching.
	forceDynamic bool

	// emailThreshold and phoneThreshold stop the crawl early once every
	// configured (non-zero) threshold is met.
	emailThreshold int
	phoneThreshold int

	// region is the phone-parsing hint: "auto" or an ISO 3166-1 code.
	region string

	// fallbackRegion is used when auto-detection cannot map the TLD.
	fallbackRegion string

	// delay is the politeness pause between fetches to the site.
	delay time.Duration

	// logger narrates crawl progress; its records become LogLine events.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the page budget per site. 0 means unlimited.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithMaxDepth sets the link depth limit. 0 means unlimited;
// 1 means the seed page plus the pages it links to.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithForceDynamic renders every page in the browser. The dynamic
// fallback never runs then, because nothing was left unrendered.
func WithForceDynamic(force bool) SpiderOption {
	return func(s *Spider) {
		s.forceDynamic = force
	}
}

// WithThresholds sets the early-stop contact counts. A zero disables
// that threshold; when both are zero the crawl runs to its other limits.
func WithThresholds(emails, phones int) SpiderOption {
	return func(s *Spider) {
		s.emailThreshold = emails
		s.phoneThreshold = phones
	}
}

// WithRegion sets the phone-parsing region hint and the fallback used
// when the hint is "auto" and the site's TLD is not recognized.
func WithRegion(region, fallback string) SpiderOption {
	return func(s *Spider) {
		s.region = region
		s.fallbackRegion = fallback
	}
}

// WithDelay sets the politeness pause between fetches.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithSpiderLogger sets the logger for crawl progress.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider using the given fetchers and phone strategy.
//
// Design decision: We require the fetchers from outside rather than
// constructing them because:
//  1. The browser is an expensive shared resource owned by the caller
//  2. Consistent client configuration across all sites of a run
//  3. Tests can substitute stub fetchers
func NewSpider(static, dynamic fetcher.Fetcher, phones extractor.PhoneStrategy, opts ...SpiderOption) *Spider {
	s := &Spider{
		static:         static,
		dynamic:        dynamic,
		phones:         phones,
		maxPages:       config.DefaultMaxPages,
		maxDepth:       config.DefaultMaxDepth,
		region:         config.DefaultRegion,
		fallbackRegion: config.DefaultFallbackRegion,
		delay:          config.DefaultCrawlDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// frontierEntry pairs a normalized URL with its discovery depth.
// Depth 0 is the seed; each hop adds one.
type frontierEntry struct {
	url   string
	depth int
}

// Crawl runs the breadth-first crawl of one seed site.
//
// An invalid seed (unparseable after scheme-prepending, or without a
// host) returns a nil result and an error before any fetching starts.
// Everything after that point is non-fatal: failed pages and bad links
// are logged and skipped. On cancellation Crawl returns the partial
// result together with the context error so the caller can decide
// whether to report it.
func (s *Spider) Crawl(ctx context.Context, seed string) (*model.SiteResult, error) {
	start, err := NormalizeURL(EnsureScheme(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
	}
	baseDomain, err := BaseDomain(start)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
	}

	region := s.region
	if region == config.DefaultRegion {
		region = extractor.DetectRegion(baseDomain, s.fallbackRegion)
	}

	result := &model.SiteResult{
		Seed:      seed,
		URL:       start,
		Emails:    make([]string, 0),
		Phones:    make([]string, 0),
		StartedAt: time.Now(),
	}

	s.logger.Info("starting crawl",
		"site", start,
		"region", region,
		"maxPages", s.maxPages,
		"maxDepth", s.maxDepth,
		"dynamic", s.forceDynamic,
	)

	pageFetcher := s.static
	if s.forceDynamic {
		if s.dynamic != nil {
			pageFetcher = s.dynamic
		} else {
			s.logger.Warn("browser rendering requested but unavailable, fetching statically", "site", start)
		}
	}

	var limiter *rate.Limiter
	if s.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.delay), 1)
		// The bucket starts full, which would make the pause after the
		// first fetch free. Drain it so every inter-fetch wait is real.
		limiter.Allow()
	}

	visited := make(map[string]struct{})
	queue := []frontierEntry{{url: start, depth: 0}}
	seenEmails := make(map[string]bool)
	seenPhones := make(map[string]bool)

	reason := model.StopQueueEmpty
	depthLimited := false
	cancelled := false

loop:
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			reason = model.StopCancelled
			cancelled = true
			break loop
		default:
		}

		entry := queue[0]
		queue = queue[1:]

		if _, ok := visited[entry.url]; ok {
			continue
		}

		// The page budget is checked before fetching the dequeued entry,
		// so a budget of N fetches exactly N pages.
		if s.maxPages > 0 && len(visited) >= s.maxPages {
			reason = model.StopPageLimit
			break
		}
		visited[entry.url] = struct{}{}

		s.logger.Info("visiting", "url", entry.url, "depth", entry.depth)

		body, err := pageFetcher.Fetch(ctx, entry.url)
		if err != nil {
			// One bad page contributes nothing; the crawl continues.
			s.logger.Warn("fetch failed", "url", entry.url, "error", err)
			continue
		}

		for _, email := range extractor.Emails(body) {
			if !seenEmails[email] {
				seenEmails[email] = true
				result.Emails = append(result.Emails, email)
				s.logger.Info("found email", "email", email)
			}
		}
		for _, phone := range s.phones.Extract(body, region) {
			if !seenPhones[phone] {
				seenPhones[phone] = true
				result.Phones = append(result.Phones, phone)
				s.logger.Info("found phone", "phone", phone)
			}
		}

		current, err := url.Parse(entry.url)
		if err == nil {
			for _, link := range ExtractLinks(body, current) {
				normalized, err := NormalizeURL(link)
				if err != nil {
					s.logger.Debug("dropping malformed link", "href", link, "error", err)
					continue
				}
				target, err := url.Parse(normalized)
				if err != nil || target.Host != baseDomain {
					continue
				}
				if _, ok := visited[normalized]; ok {
					continue
				}
				if s.maxDepth == 0 || entry.depth < s.maxDepth {
					queue = append(queue, frontierEntry{url: normalized, depth: entry.depth + 1})
				} else {
					depthLimited = true
				}
			}
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				reason = model.StopCancelled
				cancelled = true
				break
			}
		}

		// The threshold is evaluated after link-following, so a page
		// that alone satisfies it still enqueues its links and the stop
		// lands on the next iteration. The overshoot costs queue memory,
		// never an extra fetch.
		if s.thresholdsMet(len(result.Emails), len(result.Phones)) {
			reason = model.StopThreshold
			break
		}
	}

	if reason == model.StopQueueEmpty && depthLimited {
		reason = model.StopDepthExhausted
	}

	// Dynamic fallback: one browser-rendered re-fetch of the seed when
	// the static crawl left a contact category empty. Forced-dynamic
	// runs already rendered everything, and a cancelled crawl must not
	// start new fetches.
	if !cancelled && !s.forceDynamic && s.dynamic != nil &&
		(len(result.Emails) == 0 || len(result.Phones) == 0) {
		s.runDynamicFallback(ctx, start, region, result, seenEmails, seenPhones)
	}

	result.PagesVisited = len(visited)
	result.StopReason = reason
	result.CompletedAt = time.Now()
	result.Elapsed = result.CompletedAt.Sub(result.StartedAt)

	s.logger.Info("crawl finished",
		"site", start,
		"pages", result.PagesVisited,
		"emails", len(result.Emails),
		"phones", len(result.Phones),
		"reason", reason.String(),
	)

	if cancelled {
		return result, ctx.Err()
	}
	return result, nil
}

// thresholdsMet reports whether early stopping applies: at least one
// threshold is configured and every configured one is satisfied.
func (s *Spider) thresholdsMet(emails, phones int) bool {
	if s.emailThreshold == 0 && s.phoneThreshold == 0 {
		return false
	}
	if s.emailThreshold > 0 && emails < s.emailThreshold {
		return false
	}
	if s.phoneThreshold > 0 && phones < s.phoneThreshold {
		return false
	}
	return true
}

// runDynamicFallback performs the one-time rendered re-fetch of the seed
// page and merges anything new into the result. A failure here is logged
// and discards nothing already collected.
func (s *Spider) runDynamicFallback(ctx context.Context, start, region string, result *model.SiteResult, seenEmails, seenPhones map[string]bool) {
	s.logger.Info("no contacts from static crawl, retrying seed with browser rendering", "url", start)
	result.UsedDynamicFallback = true

	body, err := s.dynamic.Fetch(ctx, start)
	if err != nil {
		s.logger.Warn("dynamic fallback failed", "url", start, "error", err)
		return
	}

	for _, email := range extractor.Emails(body) {
		if !seenEmails[email] {
			seenEmails[email] = true
			result.Emails = append(result.Emails, email)
			s.logger.Info("found email", "email", email, "via", "dynamic")
		}
	}
	for _, phone := range s.phones.Extract(body, region) {
		if !seenPhones[phone] {
			seenPhones[phone] = true
			result.Phones = append(result.Phones, phone)
			s.logger.Info("found phone", "phone", phone, "via", "dynamic")
		}
	}
}
