package crawler

import (
	"context"
	"time"
)

// PageDriver is the crawler's view of a browser page. The production
// implementation wraps a Playwright page; tests substitute a fake serving
// canned HTML.
type PageDriver interface {
	// Navigate loads the given URL and waits for the DOM to settle.
	Navigate(ctx context.Context, url string) error

	// WaitForAny blocks until one of the selectors appears or the timeout
	// expires. Returns false on timeout; the caller decides whether a page
	// without product cards is degraded or simply empty.
	WaitForAny(ctx context.Context, selectors []string, timeout time.Duration) bool

	// Content returns the page's current HTML.
	Content() (string, error)
}
