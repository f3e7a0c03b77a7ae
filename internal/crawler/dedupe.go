package crawler

import "github.com/fixfirst/msx-parts-scraper/internal/models"

// Dedupe collapses records sharing a SKU, keeping the first occurrence in
// crawl order. Listing pages repeat products across sub-model pages, so
// duplicates are expected rather than exceptional. Returns the surviving
// records and the number dropped.
func Dedupe(records []*models.ProductRecord) ([]*models.ProductRecord, int) {
	seen := make(map[string]struct{}, len(records))
	unique := records[:0:0]
	dropped := 0
	for _, rec := range records {
		if _, ok := seen[rec.SKU]; ok {
			dropped++
			continue
		}
		seen[rec.SKU] = struct{}{}
		unique = append(unique, rec)
	}
	return unique, dropped
}
