package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/contactscan/internal/config"
	"github.com/nao1215/contactscan/internal/crawler"
	"github.com/nao1215/contactscan/internal/database"
	"github.com/nao1215/contactscan/internal/fetcher"
	"github.com/nao1215/contactscan/internal/model"
	"github.com/nao1215/contactscan/internal/report"
	"github.com/nao1215/contactscan/internal/seed"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [website...]",
		Short: "Crawl websites and collect their published contact details",
		Long: `Crawl visits each seed website, stays within its domain, and collects
the email addresses and mobile phone numbers published on its pages.

Seeds may omit the scheme; https is assumed. Pages are fetched with a
plain HTTP client first. When a site yields no contacts that way, its
landing page is re-fetched once in a headless browser so JavaScript-
rendered contact sections are not missed.

Examples:
  # Crawl a single site
  contactscan crawl example.it

  # Crawl several sites with a tighter page budget
  contactscan crawl --max-pages 20 site1.it site2.it

  # Load seeds from a spreadsheet and export results to another
  contactscan crawl --seeds customers.xlsx --export results.xlsx

  # Render every page in the headless browser
  contactscan crawl --dynamic spa-heavy.example.com

  # Output JSON report
  contactscan crawl --json example.it

Configuration file (.contactscan) example:
  sites:
    www.example.it:
      cookie: "session_id=abc123"
      maxPages: 20
      forceDynamic: true
    www.other.example.com:
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Seed flags
	cmd.Flags().StringP("seeds", "s", "",
		"Seed list file (.txt, .csv, or .xlsx); merged after positional seeds")

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to visit per site (0 = unlimited)")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link depth from the seed (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Fetch timeout for each request")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness pause between requests to the same site")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Rendering flags
	cmd.Flags().Bool("dynamic", false,
		"Render every page in the headless browser instead of static fetching")
	cmd.Flags().String("browser-url", "",
		"Attach to a running browser via its DevTools websocket URL instead of launching one")
	cmd.Flags().Duration("render-wait", config.DefaultRenderWait,
		"How long rendered pages may settle before the document is read")

	// Extraction flags
	cmd.Flags().StringP("region", "r", config.DefaultRegion,
		`Phone parsing region: "auto" derives it from each site's TLD, or an ISO 3166-1 code`)
	cmd.Flags().String("fallback-region", config.DefaultFallbackRegion,
		"Region used when automatic detection cannot map a TLD")
	cmd.Flags().String("phone-strategy", config.PhoneStrategyLocale,
		`Phone extraction strategy: "locale" or "regex"`)
	cmd.Flags().Int("email-threshold", 0,
		"Stop a site early once this many emails were found (0 = disabled)")
	cmd.Flags().Int("phone-threshold", 0,
		"Stop a site early once this many phones were found (0 = disabled)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .contactscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("export", "x", "",
		"Additionally export results as a spreadsheet (.xlsx) to this path")
	cmd.Flags().Bool("no-save", false,
		"Do not record results in the local history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Resolve the seed file before any crawling starts
	if cfg.SeedFile != "" {
		loaded, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		cfg.Seeds = seed.Merge(cfg.Seeds, loaded)
	}
	if len(cfg.Seeds) == 0 {
		return config.ErrNoSeeds
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nstop requested, finishing up...")
		cancel()
	}()

	return runCrawl(ctx, cfg, getVerboseFlag(cmd))
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.SeedFile, err = cmd.Flags().GetString("seeds")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ForceDynamic, err = cmd.Flags().GetBool("dynamic")
	if err != nil {
		return nil, err
	}

	cfg.BrowserURL, err = cmd.Flags().GetString("browser-url")
	if err != nil {
		return nil, err
	}

	cfg.RenderWait, err = cmd.Flags().GetDuration("render-wait")
	if err != nil {
		return nil, err
	}

	cfg.Region, err = cmd.Flags().GetString("region")
	if err != nil {
		return nil, err
	}

	cfg.FallbackRegion, err = cmd.Flags().GetString("fallback-region")
	if err != nil {
		return nil, err
	}

	cfg.PhoneStrategy, err = cmd.Flags().GetString("phone-strategy")
	if err != nil {
		return nil, err
	}

	cfg.EmailThreshold, err = cmd.Flags().GetInt("email-threshold")
	if err != nil {
		return nil, err
	}

	cfg.PhoneThreshold, err = cmd.Flags().GetInt("phone-threshold")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ExportFile, err = cmd.Flags().GetString("export")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if !noSave {
		// Record results in the XDG data directory by default
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (seed websites)
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the crawl and renders its results.
func runCrawl(ctx context.Context, cfg *config.Config, verbose bool) error {
	// Open database connection if saving is enabled
	var db *database.ContactDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	static := fetcher.NewClient(
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	)

	// The browser launches lazily on its first fetch, so creating it here
	// costs nothing when every site resolves statically.
	browserOpts := []fetcher.BrowserOption{
		fetcher.WithBrowserUserAgent(cfg.UserAgent),
		fetcher.WithBrowserTimeout(cfg.Timeout),
		fetcher.WithRenderWait(cfg.RenderWait),
	}
	if cfg.BrowserURL != "" {
		browserOpts = append(browserOpts, fetcher.WithControlURL(cfg.BrowserURL))
	}
	browser := fetcher.NewBrowser(browserOpts...)
	defer func() {
		if err := browser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close browser: %v\n", err)
		}
	}()

	scheduler := crawler.NewScheduler(cfg, static, browser)

	fmt.Printf("Crawling %d site(s)...\n\n", len(cfg.Seeds))
	startTime := time.Now()

	// The scheduler crawls on its own goroutine; this one consumes the
	// event stream so progress appears as it happens.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	var results []*model.SiteResult
	for event := range scheduler.Events() {
		switch event.Kind {
		case model.EventLogLine:
			if verbose {
				fmt.Fprintln(os.Stderr, event.Message)
			}
		case model.EventSiteCompleted:
			results = append(results, event.Result)
			fmt.Printf("[%d/%d] %s: %d email(s), %d phone(s), %d page(s)\n",
				len(results), len(cfg.Seeds),
				event.Result.URL,
				len(event.Result.Emails),
				len(event.Result.Phones),
				event.Result.PagesVisited,
			)
		case model.EventAllCompleted:
			fmt.Printf("\nCrawl completed in %s\n", time.Since(startTime).Round(time.Millisecond))
		}
	}

	runErr := g.Wait()

	// Report whatever completed, even on a cancelled run.
	if err := outputReport(cfg, results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.ExportFile != "" {
		if _, err := report.NewXLSXWriter(cfg.ExportFile).Write(results); err != nil {
			return fmt.Errorf("failed to export spreadsheet: %w", err)
		}
		fmt.Printf("Results exported to %s\n", cfg.ExportFile)
	}

	if db != nil {
		for _, result := range results {
			if err := db.SaveSiteResult(context.Background(), result); err != nil {
				fmt.Fprintf(os.Stderr, "failed to save result for %s: %v\n", result.URL, err)
			}
		}
	}

	return runErr
}

// outputReport writes the crawl report in the requested format.
func outputReport(cfg *config.Config, results []*model.SiteResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(results)
	return err
}
