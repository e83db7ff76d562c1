package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/contactscan/internal/config"
	"github.com/nao1215/contactscan/internal/extractor"
	"github.com/nao1215/contactscan/internal/fetcher"
	"github.com/nao1215/contactscan/internal/log"
	"github.com/nao1215/contactscan/internal/model"
)

// eventBuffer is the event channel capacity. The buffer absorbs bursts of
// log lines so the crawl worker rarely blocks on a slow consumer, but
// sends remain blocking: SiteCompleted and AllCompleted must never be
// dropped.
const eventBuffer = 256

// Scheduler runs the whole crawl: it iterates the seed list in order,
// crawls one site at a time with a Spider, and streams typed events to
// whatever consumes them. The crawl runs on whichever goroutine calls
// Run; consumers read Events from another.
//
// Design decision: All output leaves through the one event channel, and
// the only inbound signal is the context. Explicit state owned by the
// scheduler, one-way communication in each direction, nothing ambient.
type Scheduler struct {
	// cfg is the immutable per-run configuration.
	cfg *config.Config

	// static and dynamic are shared by every site's Spider. The dynamic
	// fetcher is lazily launched on first use and closed by the caller.
	static  fetcher.Fetcher
	dynamic fetcher.Fetcher

	// events carries LogLine, SiteCompleted, and AllCompleted events.
	// Closed by Run after AllCompleted.
	events chan model.Event

	// logger forwards engine log records into the event stream.
	logger *slog.Logger
}

// NewScheduler creates a Scheduler for one crawl run.
func NewScheduler(cfg *config.Config, static, dynamic fetcher.Fetcher) *Scheduler {
	s := &Scheduler{
		cfg:     cfg,
		static:  static,
		dynamic: dynamic,
		events:  make(chan model.Event, eventBuffer),
	}
	s.logger = log.NewEventLogger(s.emit, cfg.Verbose)
	return s
}

// Events returns the channel the engine reports on. It is closed after
// the AllCompleted event; consumers can simply range over it.
func (s *Scheduler) Events() <-chan model.Event {
	return s.events
}

// emit sends one event. Sends block rather than drop; the buffer exists
// for bursts, not for discarding results.
func (s *Scheduler) emit(e model.Event) {
	s.events <- e
}

// Run crawls every seed in order and closes the event channel when done.
// Cancellation is cooperative: it is checked before each seed and inside
// each site crawl. A site interrupted mid-crawl is not reported; its
// partial results are discarded. AllCompleted fires on every path,
// including cancellation.
//
// Run returns the context error when the run was cancelled, nil
// otherwise. Per-seed failures are log lines, never returned errors: a
// bad seed must not stop the remaining seeds.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.events)
	defer func() {
		s.emit(model.Event{Kind: model.EventAllCompleted, Time: time.Now()})
	}()

	for _, seed := range s.cfg.Seeds {
		select {
		case <-ctx.Done():
			s.logger.Info("stop requested, skipping remaining sites")
			return ctx.Err()
		default:
		}

		result, err := s.crawlSite(ctx, seed)
		if err != nil {
			if ctx.Err() != nil {
				// The in-flight site's partial result is discarded.
				s.logger.Info("stop requested, discarding partial result", "seed", seed)
				return ctx.Err()
			}
			// Invalid seed: report and continue with the rest.
			s.logger.Warn("skipping seed", "seed", seed, "error", err)
			continue
		}

		s.emit(model.Event{
			Kind:   model.EventSiteCompleted,
			Time:   time.Now(),
			Result: result,
		})
	}

	return nil
}

// crawlSite builds the Spider for one seed, applying per-site overrides
// from the config file, and runs it.
func (s *Scheduler) crawlSite(ctx context.Context, seed string) (*model.SiteResult, error) {
	host, err := BaseDomain(EnsureScheme(seed))
	if err != nil {
		return nil, err
	}

	maxPages := s.cfg.MaxPages
	maxDepth := s.cfg.MaxDepth
	forceDynamic := s.cfg.ForceDynamic
	region := s.cfg.Region
	emailThreshold := s.cfg.EmailThreshold
	phoneThreshold := s.cfg.PhoneThreshold

	if s.cfg.SiteConfigs != nil {
		site := s.cfg.SiteConfigs.GetSiteConfig(host)
		if site.MaxPages != 0 {
			maxPages = site.MaxPages
		}
		if site.MaxDepth != 0 {
			maxDepth = site.MaxDepth
		}
		if site.ForceDynamic {
			forceDynamic = true
		}
		if site.Region != "" {
			region = site.Region
		}
		if site.EmailThreshold != 0 {
			emailThreshold = site.EmailThreshold
		}
		if site.PhoneThreshold != 0 {
			phoneThreshold = site.PhoneThreshold
		}
	}

	phones, err := extractor.NewPhoneStrategy(s.cfg.PhoneStrategy)
	if err != nil {
		return nil, err
	}

	static := s.static
	if s.cfg.SiteConfigs != nil {
		// Cookie and header overrides need their own client; the shared
		// one stays untouched for the other sites.
		site := s.cfg.SiteConfigs.GetSiteConfig(host)
		if site.Cookie != "" || len(site.Headers) > 0 {
			static = fetcher.NewClient(
				fetcher.WithTimeout(s.cfg.Timeout),
				fetcher.WithUserAgent(s.cfg.UserAgent),
				fetcher.WithMaxBodySize(s.cfg.MaxBodySize),
				fetcher.WithCookie(site.Cookie),
				fetcher.WithHeaders(site.Headers),
			)
		}
	}

	spider := NewSpider(static, s.dynamic, phones,
		WithMaxPages(maxPages),
		WithMaxDepth(maxDepth),
		WithForceDynamic(forceDynamic),
		WithRegion(region, s.cfg.FallbackRegion),
		WithThresholds(emailThreshold, phoneThreshold),
		WithDelay(s.cfg.CrawlDelay),
		WithSpiderLogger(s.logger),
	)

	return spider.Crawl(ctx, seed)
}
