package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nao1215/contactscan/internal/config"
	"github.com/nao1215/contactscan/internal/fetcher"
	"github.com/nao1215/contactscan/internal/model"
)

// runScheduler drives a Scheduler to completion and collects every event
// from its stream.
func runScheduler(t *testing.T, cfg *config.Config) ([]model.Event, error) {
	t.Helper()

	s := NewScheduler(cfg, fetcher.NewClient(), nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
	}()

	var events []model.Event
	for e := range s.Events() {
		events = append(events, e)
	}
	return events, <-done
}

// TestSchedulerRun tests the multi-seed crawl loop and its event stream.
func TestSchedulerRun(t *testing.T) {
	t.Parallel()

	siteA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("first@a.example"))
	}))
	defer siteA.Close()
	siteB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("second@b.example"))
	}))
	defer siteB.Close()

	cfg := config.NewConfig()
	cfg.Seeds = []string{siteA.URL, siteB.URL}
	cfg.CrawlDelay = 0

	events, err := runScheduler(t, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var completed []*model.SiteResult
	sawAllCompleted := false
	for _, e := range events {
		switch e.Kind {
		case model.EventSiteCompleted:
			if sawAllCompleted {
				t.Error("SiteCompleted arrived after AllCompleted")
			}
			completed = append(completed, e.Result)
		case model.EventAllCompleted:
			sawAllCompleted = true
		}
	}

	if !sawAllCompleted {
		t.Error("expected an AllCompleted event")
	}
	if len(completed) != 2 {
		t.Fatalf("expected 2 SiteCompleted events, got %d", len(completed))
	}
	// Sites complete in seed order.
	if completed[0].Seed != siteA.URL || completed[1].Seed != siteB.URL {
		t.Errorf("results out of seed order: %q, %q", completed[0].Seed, completed[1].Seed)
	}
	if len(completed[0].Emails) != 1 || completed[0].Emails[0] != "first@a.example" {
		t.Errorf("unexpected emails for first site: %v", completed[0].Emails)
	}
}

// TestSchedulerInvalidSeedSkipped verifies one bad seed does not stop the
// remaining seeds.
func TestSchedulerInvalidSeedSkipped(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("valid@site.example"))
	}))
	defer site.Close()

	cfg := config.NewConfig()
	cfg.Seeds = []string{"https://bad%zz", site.URL}
	cfg.CrawlDelay = 0

	events, err := runScheduler(t, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var completed int
	for _, e := range events {
		if e.Kind == model.EventSiteCompleted {
			completed++
			if e.Result.Seed != site.URL {
				t.Errorf("unexpected completed seed: %q", e.Result.Seed)
			}
		}
	}
	if completed != 1 {
		t.Errorf("expected 1 SiteCompleted event, got %d", completed)
	}
}

// TestSchedulerCancellation verifies cancellation returns the context
// error, discards the in-flight site, and still emits AllCompleted
// before closing the channel.
func TestSchedulerCancellation(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Seeds = []string{"https://example.it/", "https://example.com/"}
	cfg.CrawlDelay = 0

	s := NewScheduler(cfg, fetcher.NewClient(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	var events []model.Event
	for e := range s.Events() {
		events = append(events, e)
	}

	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	for _, e := range events {
		if e.Kind == model.EventSiteCompleted {
			t.Error("cancelled run must not report SiteCompleted")
		}
	}
	if len(events) == 0 || events[len(events)-1].Kind != model.EventAllCompleted {
		t.Error("expected AllCompleted as the final event")
	}
}

// TestSchedulerSiteOverrides verifies per-site config overrides reach the
// crawl.
func TestSchedulerSiteOverrides(t *testing.T) {
	t.Parallel()

	mux := newTrackingMux()
	mux.mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`a@b.com <a href="/p1">1</a><a href="/p2">2</a><a href="/p3">3</a>`))
	})
	for _, path := range []string{"/p1", "/p2", "/p3"} {
		mux.mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("leaf"))
		})
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	host, err := BaseDomain(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := config.NewConfig()
	cfg.Seeds = []string{server.URL}
	cfg.CrawlDelay = 0
	cfg.SiteConfigs = &config.File{
		Sites: map[string]config.SiteConfig{
			host: {MaxPages: 2},
		},
	}

	events, err := runScheduler(t, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, e := range events {
		if e.Kind != model.EventSiteCompleted {
			continue
		}
		if e.Result.PagesVisited != 2 {
			t.Errorf("site override ignored: visited %d pages, expected 2", e.Result.PagesVisited)
		}
		if e.Result.StopReason != model.StopPageLimit {
			t.Errorf("expected page_limit_reached, got %s", e.Result.StopReason)
		}
	}
}

// TestSchedulerLogEvents verifies engine log records arrive as LogLine
// events on the same stream.
func TestSchedulerLogEvents(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello@site.example"))
	}))
	defer site.Close()

	cfg := config.NewConfig()
	cfg.Seeds = []string{site.URL}
	cfg.CrawlDelay = 0

	events, err := runScheduler(t, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var logLines int
	for _, e := range events {
		if e.Kind == model.EventLogLine {
			logLines++
			if e.Message == "" {
				t.Error("LogLine event with empty message")
			}
			if e.Time.IsZero() {
				t.Error("LogLine event with zero time")
			}
		}
	}
	if logLines == 0 {
		t.Error("expected LogLine events during the crawl")
	}
}

// TestSchedulerEventTimes verifies events carry wall-clock timestamps.
func TestSchedulerEventTimes(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Seeds = nil

	before := time.Now()
	events, err := runScheduler(t, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Kind != model.EventAllCompleted {
		t.Fatalf("expected a single AllCompleted event, got %v", events)
	}
	if events[0].Time.Before(before) {
		t.Error("AllCompleted timestamp predates the run")
	}
}
