package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fixfirst/msx-parts-scraper/internal/catalog"
	"github.com/fixfirst/msx-parts-scraper/internal/models"
	"github.com/fixfirst/msx-parts-scraper/internal/parser"
)

// Delayer paces navigations between pages. The production implementation is
// the jittered politeness limiter; tests plug in a no-op.
type Delayer interface {
	Wait(ctx context.Context) error
}

// Result accumulates everything a full crawl produced, including the
// non-fatal errors that degraded it.
type Result struct {
	Records      []*models.ProductRecord
	PagesCrawled int
	CardsSeen    int
	CardsSkipped int
	Errors       []models.RunError
}

// Crawler walks category listings page by page, extracting and normalizing
// product cards. Failures are contained at the narrowest scope that still
// makes progress: a dead page skips the page, a dead category skips the
// category, and the run keeps whatever the rest produced.
type Crawler struct {
	Driver  PageDriver
	Exec    *Executor
	Limiter Delayer
	Logger  *slog.Logger

	// CardWaitTimeout bounds the wait for product cards after navigation.
	CardWaitTimeout time.Duration

	// MaxPagesPerListing caps pagination in case a site change makes the
	// next-page link self-referential. Zero means the default cap.
	MaxPagesPerListing int

	// Metrics hooks, optional.
	OnPage  func()
	OnCards func(extracted, skipped int)

	// navigated flips after the first navigation of the run; every later
	// navigation is preceded by the politeness delay.
	navigated bool
}

const defaultMaxPagesPerListing = 200

// New returns a crawler with default pacing and wait policy.
func New(driver PageDriver, exec *Executor, limiter Delayer, logger *slog.Logger) *Crawler {
	return &Crawler{
		Driver:          driver,
		Exec:            exec,
		Limiter:         limiter,
		Logger:          logger,
		CardWaitTimeout: catalog.DefaultCardWaitTimeout,
	}
}

// CrawlAll visits every resolved category in order. It only returns an error
// when the context is cancelled; per-category failures are recorded on the
// result and the crawl moves on.
func (c *Crawler) CrawlAll(ctx context.Context, categories []catalog.Category) (*Result, error) {
	res := &Result{}
	for _, cat := range categories {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c.Logger.Info("crawling category", "category", cat.Key, "url", cat.URL)
		c.crawlCategory(ctx, cat, res)
	}
	return res, ctx.Err()
}

// crawlCategory runs sub-model discovery on the category landing page, then
// fans out over the resulting listings. A category with no discoverable
// sub-model pages and no seeds degrades to crawling the landing page itself
// as a listing.
func (c *Crawler) crawlCategory(ctx context.Context, cat catalog.Category, res *Result) {
	pageCtx := models.PageContext{DeviceLine: cat.DeviceLine, Brand: cat.Brand}

	subURLs, landingOK := c.discoverSubModels(ctx, cat, res)
	if len(subURLs) == 0 {
		if !landingOK {
			// The landing fetch burned its retries and is already recorded
			// as a run error; there is nothing left to try here.
			return
		}
		c.Logger.Warn("no sub-model pages found, crawling category page directly", "category", cat.Key)
		c.crawlListing(ctx, cat.URL, pageCtx, res)
		return
	}

	c.Logger.Info("fanning out over sub-model pages", "category", cat.Key, "sub_models", len(subURLs))
	for _, u := range subURLs {
		if ctx.Err() != nil {
			return
		}
		c.crawlListing(ctx, u, pageCtx, res)
	}
}

// discoverSubModels loads the category landing page and harvests sub-model
// links, then unions in the seeded slugs. Seeds cover sub-model pages only
// reachable through sidebar navigation, which the landing-page scan cannot
// see, and still apply when the landing page itself is unreachable. The bool
// reports whether the landing page was fetched.
func (c *Crawler) discoverSubModels(ctx context.Context, cat catalog.Category, res *Result) ([]string, bool) {
	var discovered []string
	html, _, fetched := c.fetch(ctx, cat.URL, res)
	if fetched {
		res.PagesCrawled++
		c.notePage()
		discovered = parser.SubModelLinks(html, cat.URL)
	}

	seen := make(map[string]struct{}, len(discovered)+len(cat.SubModelSlugs))
	urls := make([]string, 0, len(discovered)+len(cat.SubModelSlugs))
	add := func(u string) {
		if _, ok := seen[u]; !ok {
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	for _, u := range discovered {
		add(u)
	}
	for _, slug := range cat.SubModelSlugs {
		add(cat.URL + "/" + slug)
	}
	return urls, fetched
}

// crawlListing follows a listing's pagination chain, extracting cards from
// every page. A page that fails all retries ends this listing but not the
// run.
func (c *Crawler) crawlListing(ctx context.Context, startURL string, pageCtx models.PageContext, res *Result) {
	maxPages := c.MaxPagesPerListing
	if maxPages <= 0 {
		maxPages = defaultMaxPagesPerListing
	}

	visited := make(map[string]struct{})
	url := startURL
	for page := 0; page < maxPages; page++ {
		if ctx.Err() != nil {
			return
		}
		if _, seen := visited[url]; seen {
			c.Logger.Warn("pagination loop detected, stopping listing", "url", url)
			return
		}
		visited[url] = struct{}{}

		html, cards, ok := c.fetch(ctx, url, res)
		if !ok {
			return
		}
		res.PagesCrawled++
		c.notePage()
		if !cards {
			// End of results. Listing pages that never render a card are
			// common and end pagination without an error.
			c.Logger.Info("no product cards appeared, ending listing", "url", url)
			return
		}
		c.extractPage(html, url, pageCtx, res)

		next, hasNext := parser.NextPageURL(html, url)
		if !hasNext {
			return
		}
		url = next
	}
	res.Errors = append(res.Errors, models.RunError{
		Context: startURL,
		Message: fmt.Sprintf("listing exceeded %d pages, truncated", maxPages),
	})
}

// fetch paces, navigates with retries, waits for a product card, and reads
// the page HTML. Terminal failures are recorded as run errors. ok reports
// whether HTML was obtained; cards whether a card rendered before the
// timeout, which the content read must come after.
func (c *Crawler) fetch(ctx context.Context, url string, res *Result) (html string, cards, ok bool) {
	if c.navigated && c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return "", false, false
		}
	}
	c.navigated = true

	attempt := 0
	err := c.Exec.Do(ctx, url, func() error {
		attempt++
		if err := c.Driver.Navigate(ctx, url); err != nil {
			return &NavigationError{URL: url, Attempt: attempt, Err: err}
		}
		return nil
	})
	if err != nil {
		res.Errors = append(res.Errors, models.RunError{Context: url, Message: err.Error()})
		return "", false, false
	}

	cards = c.Driver.WaitForAny(ctx, catalog.Selectors.CardSignatures, c.CardWaitTimeout)

	html, err = c.Driver.Content()
	if err != nil {
		res.Errors = append(res.Errors, models.RunError{Context: url, Message: fmt.Sprintf("read page content: %v", err)})
		return "", false, false
	}
	return html, cards, true
}

// extractPage runs extraction and normalization over one page of HTML.
func (c *Crawler) extractPage(html, url string, pageCtx models.PageContext, res *Result) {
	cards, extractSkipped, err := parser.ExtractCards(html, pageCtx)
	if err != nil {
		res.Errors = append(res.Errors, models.RunError{Context: url, Message: fmt.Sprintf("extract cards: %v", err)})
		return
	}

	skipped := extractSkipped
	normalized := 0
	for _, card := range cards {
		rec := parser.Normalize(card)
		if rec == nil {
			skipped++
			continue
		}
		res.Records = append(res.Records, rec)
		normalized++
	}

	res.CardsSeen += len(cards) + extractSkipped
	res.CardsSkipped += skipped
	if c.OnCards != nil {
		c.OnCards(normalized, skipped)
	}
	c.Logger.Debug("page extracted", "url", url, "cards", normalized, "skipped", skipped)
}

func (c *Crawler) notePage() {
	if c.OnPage != nil {
		c.OnPage()
	}
}
