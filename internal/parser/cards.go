package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fixfirst/msx-parts-scraper/internal/catalog"
	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

// ExtractCards scans a rendered listing page for product cards. Cards with no
// resolvable name are dropped; the second return value counts them so the
// caller can surface the discard rate.
func ExtractCards(html string, pageCtx models.PageContext) ([]models.RawCard, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	var cards []models.RawCard
	skipped := 0

	doc.Find(catalog.Selectors.ProductCard).Each(func(_ int, li *goquery.Selection) {
		link := li.Find(catalog.Selectors.ProductLink).First()
		href, _ := link.Attr("href")
		title, _ := link.Attr("title")

		name := strings.TrimSpace(li.Find(catalog.Selectors.ProductName).First().Text())
		if name == "" {
			name = strings.TrimSpace(title)
		}
		if name == "" {
			skipped++
			return
		}

		priceText := strings.TrimSpace(li.Find(catalog.Selectors.ProductPrice).First().Text())
		skuText := strings.TrimSpace(li.Find(catalog.Selectors.ProductSKU).First().Text())

		badge := li.Find(catalog.Selectors.ProductBadge).First()
		badgeText, ok := badge.Attr("alt")
		if !ok || strings.TrimSpace(badgeText) == "" {
			badgeText, _ = badge.Attr("title")
		}

		var stockParts []string
		var stockClasses []string
		for _, sel := range catalog.Selectors.StockHints {
			li.Find(sel).Each(func(_ int, hint *goquery.Selection) {
				if text := strings.TrimSpace(hint.Text()); text != "" {
					stockParts = append(stockParts, text)
				}
				if class, ok := hint.Attr("class"); ok {
					stockClasses = append(stockClasses, class)
				}
			})
		}

		cards = append(cards, models.RawCard{
			Name:         name,
			FullTitle:    strings.TrimSpace(title),
			PriceText:    priceText,
			SKUText:      skuText,
			StockText:    strings.Join(stockParts, " "),
			StockClasses: stockClasses,
			BadgeText:    strings.TrimSpace(badgeText),
			URL:          href,
			PageContext:  pageCtx,
		})
	})

	return cards, skipped, nil
}

// NextPageURL looks for a pagination "next" link and resolves it against the
// current page URL. Returns false when the listing has no further pages.
func NextPageURL(html, currentURL string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	base, err := url.Parse(currentURL)
	if err != nil {
		return "", false
	}

	for _, sel := range catalog.Selectors.NextPage {
		href, ok := doc.Find(sel).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		next := base.ResolveReference(ref)
		if next.Scheme != "http" && next.Scheme != "https" {
			continue
		}
		return next.String(), true
	}
	return "", false
}

// SubModelLinks extracts candidate sub-model page URLs from a category
// landing page using two independent strategies: a generic anchor scan
// filtered by path heuristics, and a fixed set of grid/collection containers.
// Results are unioned into an order-preserving, URL-deduplicated list. An
// empty result is a valid degraded state, not an error.
func SubModelLinks(html, categoryURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(categoryURL)
	if err != nil {
		return nil
	}
	categoryPath := strings.TrimSuffix(base.Path, "/")

	seen := make(map[string]bool)
	var links []string
	add := func(u *url.URL) {
		u.Fragment = ""
		s := u.String()
		if !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	}

	resolve := func(href string) (*url.URL, bool) {
		href = strings.TrimSpace(href)
		// Query and fragment links are navigation chrome (sorting,
		// filters, anchors), never sub-model pages.
		if href == "" || strings.Contains(href, "?") || strings.Contains(href, "#") {
			return nil, false
		}
		ref, err := url.Parse(href)
		if err != nil {
			return nil, false
		}
		u := base.ResolveReference(ref)
		if u.Host != base.Host {
			return nil, false
		}
		return u, true
	}

	// Strategy A: anchor scan. A sub-model page shares the category path
	// prefix and sits strictly deeper in the hierarchy.
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, ok := resolve(href)
		if !ok {
			return
		}
		path := strings.TrimSuffix(u.Path, "/")
		if !strings.HasPrefix(path, categoryPath+"/") {
			return
		}
		if len(strings.Split(strings.Trim(path, "/"), "/")) <= len(strings.Split(strings.Trim(categoryPath, "/"), "/")) {
			return
		}
		add(u)
	})

	// Strategy B: known grid/collection containers.
	for _, sel := range catalog.Selectors.SubModelContainers {
		doc.Find(sel).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			if u, ok := resolve(a.AttrOr("href", "")); ok {
				add(u)
			}
		})
	}

	return links
}
