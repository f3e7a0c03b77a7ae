package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fixfirst/msx-parts-scraper/internal/browser"
	"github.com/fixfirst/msx-parts-scraper/internal/catalog"
	"github.com/fixfirst/msx-parts-scraper/internal/config"
	"github.com/fixfirst/msx-parts-scraper/internal/crawler"
	"github.com/fixfirst/msx-parts-scraper/internal/database"
	"github.com/fixfirst/msx-parts-scraper/internal/models"
	"github.com/fixfirst/msx-parts-scraper/internal/observability"
	"github.com/fixfirst/msx-parts-scraper/internal/ratelimit"
	"github.com/fixfirst/msx-parts-scraper/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dryRun     = flag.Bool("dry-run", false, "Crawl and normalize without writing to the database")
		categories = flag.String("category", "", "Comma-separated category keys (default: pro,air)")
		brand      = flag.String("brand", "", "Crawl all categories of one brand: apple, samsung, google")
		headless   = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(lg)
	lg.Info("Starting parts catalog scraper", "dry_run", *dryRun)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Info("Shutdown signal received")
		cancel()
	}()

	metrics := observability.NewMetrics()
	if cfg.Metrics.Addr != "" {
		go metrics.Serve(ctx, cfg.Metrics.Addr, lg)
	}

	resolved, err := catalog.Resolve(splitKeys(*categories), *brand)
	if err != nil {
		lg.Error("Failed to resolve categories", "error", err)
		return 1
	}

	// Dry runs never touch the store: no upserts and no audit row.
	var db *database.DB
	var scrapeLogs *database.ScrapeLogRepository
	var runID uuid.UUID
	if !*dryRun {
		db, err = database.New(ctx, database.Config{
			URL:         cfg.Database.URL,
			ServiceKey:  cfg.Database.ServiceKey,
			MaxConns:    cfg.Database.MaxConns,
			MinConns:    cfg.Database.MinConns,
			MaxConnLife: cfg.Database.MaxConnLife,
			MaxConnIdle: cfg.Database.MaxConnIdle,
		})
		if err != nil {
			lg.Error("Failed to connect to database", "error", err)
			return 1
		}
		defer db.Close()

		scrapeLogs = database.NewScrapeLogRepository(db)
		runID, err = scrapeLogs.Create(ctx)
		if err != nil {
			// The run can still produce data without its audit row.
			lg.Warn("Failed to open scrape log, continuing without audit row", "error", err)
		}
	}

	started := time.Now()

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = *headless && cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	browserOpts.ViewportWidth = cfg.Browser.ViewportWidth
	browserOpts.ViewportHeight = cfg.Browser.ViewportHeight
	browserOpts.AcceptLanguage = cfg.Browser.AcceptLanguage
	browserOpts.TimezoneID = cfg.Browser.TimezoneID
	browserOpts.Locale = cfg.Browser.Locale
	browserOpts.ProxyServer = cfg.Browser.ProxyServer

	b, err := browser.New(browserOpts)
	if err != nil {
		lg.Error("Failed to initialize browser", "error", err)
		closeRunFailed(ctx, scrapeLogs, runID, err)
		return 1
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		lg.Error("Failed to open page", "error", err)
		closeRunFailed(ctx, scrapeLogs, runID, err)
		return 1
	}
	defer page.Close()

	exec := crawler.NewExecutor(lg.With("component", "retry"))
	exec.MaxAttempts = cfg.Crawler.MaxAttempts
	exec.OnRetry = func(string) { metrics.Retries.Inc() }

	c := crawler.New(page, exec, ratelimit.New(cfg.Crawler.PolitenessDelay), lg.With("component", "crawler"))
	c.CardWaitTimeout = cfg.Crawler.CardWaitTimeout
	c.OnPage = metrics.PagesCrawled.Inc
	c.OnCards = func(extracted, skipped int) {
		metrics.CardsExtracted.Add(float64(extracted))
		metrics.CardsSkipped.Add(float64(skipped))
	}

	res, err := c.CrawlAll(ctx, resolved)
	if err != nil {
		lg.Error("Crawl aborted", "error", err)
		closeRunFailed(ctx, scrapeLogs, runID, err)
		return 1
	}

	unique, dropped := crawler.Dedupe(res.Records)
	lg.Info("Crawl finished",
		"pages", res.PagesCrawled,
		"cards_seen", res.CardsSeen,
		"cards_skipped", res.CardsSkipped,
		"products", len(unique),
		"duplicates_dropped", dropped,
		"errors", len(res.Errors))

	runErrors := res.Errors

	outcome := database.RunOutcome{
		ProductsFound: len(unique),
		Errors:        runErrors,
	}

	if *dryRun {
		printDryRunSummary(unique, dropped, res)
		metrics.RunDuration.Observe(time.Since(started).Seconds())
		return 0
	}

	products := database.NewProductRepository(db)
	products.SetBatchSize(cfg.Crawler.BatchSize)
	upsertRes := products.UpsertProducts(ctx, unique)
	metrics.BatchErrors.Add(float64(len(upsertRes.BatchErrors)))
	for _, be := range upsertRes.BatchErrors {
		runErrors = append(runErrors, models.RunError{Context: "upsert", Message: be.Error()})
	}
	lg.Info("Persistence finished",
		"upserted", upsertRes.Upserted,
		"failed", upsertRes.Failed,
		"batches", upsertRes.Batches)

	if cfg.Redis.URL != "" {
		drainOutbox(ctx, cfg.Redis.URL, db, lg)
	}

	if stats, err := products.Stats(ctx); err != nil {
		lg.Warn("Failed to load catalog stats", "error", err)
	} else {
		lg.Info("Catalog state",
			"total_products", stats.TotalProducts,
			"in_stock", stats.InStock,
			"by_category", stats.ByCategory,
			"by_quality", stats.ByQuality)
	}

	outcome.ProductsUpserted = upsertRes.Upserted
	outcome.Errors = runErrors
	outcome.Status = runStatus(upsertRes.Upserted, runErrors)
	finishRun(ctx, scrapeLogs, runID, outcome, metrics, started, lg)

	if outcome.Status == models.RunStatusFailed {
		return 1
	}
	return 0
}

// runStatus classifies a finished run. Nothing produced plus errors means
// the run failed outright.
func runStatus(produced int, errs []models.RunError) models.RunStatus {
	switch {
	case produced == 0 && len(errs) > 0:
		return models.RunStatusFailed
	case len(errs) > 0:
		return models.RunStatusCompletedWithErrors
	default:
		return models.RunStatusCompleted
	}
}

func finishRun(ctx context.Context, logs *database.ScrapeLogRepository, runID uuid.UUID, outcome database.RunOutcome, metrics *observability.Metrics, started time.Time, lg *slog.Logger) {
	metrics.RunDuration.Observe(time.Since(started).Seconds())
	if logs == nil {
		return
	}
	if err := logs.Close(ctx, runID, outcome); err != nil {
		lg.Warn("Failed to close scrape log", "error", err)
	}
}

func closeRunFailed(ctx context.Context, logs *database.ScrapeLogRepository, runID uuid.UUID, cause error) {
	if logs == nil {
		return
	}
	outcome := database.RunOutcome{
		Status: models.RunStatusFailed,
		Errors: []models.RunError{{Context: "startup", Message: cause.Error()}},
	}
	if err := logs.Close(ctx, runID, outcome); err != nil {
		slog.Warn("Failed to close scrape log", "error", err)
	}
}

func drainOutbox(ctx context.Context, redisURL string, db *database.DB, lg *slog.Logger) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		lg.Warn("Invalid REDIS_URL, skipping change-event relay", "error", err)
		return
	}
	client := goredis.NewClient(opts)
	defer client.Close()

	relay := database.NewRelay(db, client, lg, database.RelayConfig{})
	published, err := relay.DrainOnce(ctx)
	if err != nil {
		lg.Warn("Change-event relay stopped early", "published", published, "error", err)
		return
	}
	lg.Info("Change events published", "count", published)
}

func splitKeys(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

func printDryRunSummary(records []*models.ProductRecord, dropped int, res *crawler.Result) {
	byCategory := make(map[models.Category]int)
	byQuality := make(map[models.QualityTier]int)
	byDeviceLine := make(map[string]int)
	inStock := 0
	for _, rec := range records {
		byCategory[rec.Category]++
		byQuality[rec.QualityTier]++
		line := "(unknown)"
		if rec.DeviceLine != nil {
			line = *rec.DeviceLine
		}
		byDeviceLine[line]++
		if rec.IsInStock {
			inStock++
		}
	}

	fmt.Println("--- Dry run: no records written ---")
	fmt.Printf("Pages crawled:      %d\n", res.PagesCrawled)
	fmt.Printf("Cards seen:         %d\n", res.CardsSeen)
	fmt.Printf("Cards skipped:      %d\n", res.CardsSkipped)
	fmt.Printf("Unique products:    %d\n", len(records))
	fmt.Printf("Duplicates dropped: %d\n", dropped)
	fmt.Printf("In stock:           %d\n", inStock)
	fmt.Println("By category:")
	for category, count := range byCategory {
		fmt.Printf("  %-12s %d\n", category, count)
	}
	fmt.Println("By device line:")
	for line, count := range byDeviceLine {
		fmt.Printf("  %-12s %d\n", line, count)
	}
	fmt.Println("By quality tier:")
	for tier, count := range byQuality {
		fmt.Printf("  %-12s %d\n", tier, count)
	}

	sample := records
	if len(sample) > 10 {
		sample = sample[:10]
	}
	if len(sample) > 0 {
		fmt.Println("Sample:")
		for _, rec := range sample {
			price := "n/a"
			if rec.WholesalePrice != nil {
				price = fmt.Sprintf("CA$%.2f", *rec.WholesalePrice)
			}
			fmt.Printf("  %-44s %-10s %-8s %-8s in_stock=%t\n",
				rec.SKU, price, rec.Category, rec.QualityTier, rec.IsInStock)
		}
	}

	if len(res.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Printf("  [%s] %s\n", e.Context, e.Message)
		}
	}
}
