package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fixfirst/msx-parts-scraper/internal/catalog"
	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

var (
	priceStripPattern = regexp.MustCompile(`[^0-9.]`)
	skuStripPattern   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	skuLabelPattern   = regexp.MustCompile(`(?i)^sku[:\s]+`)

	// Model-compatibility matchers, most specific first.
	modelPatterns = []struct {
		re    *regexp.Regexp
		group int
	}{
		// explicit "for <model> (<year>)" phrasing
		{regexp.MustCompile(`(?i)\bfor\s+(.+?[A-Z]\d{4}(?:\s*/\s*[A-Z]\d{4})*\s*\(\d{4}\))`), 1},
		// known device line followed by a part number
		{regexp.MustCompile(`(?i)\b((?:MacBook\s+(?:Pro|Air)|iPhone|iPad|Galaxy|Pixel)[\w\s."-]*?[A-Z]\d{4}(?:\s*/\s*[A-Z]\d{4})*)`), 1},
		// bare "A2442 / A2779" token
		{regexp.MustCompile(`[A-Z]\d{4}(?:\s*/\s*[A-Z]\d{4})*`), 0},
	}

	negativeStockPhrases = []string{"sold out", "out of stock", "unavailable"}
	positiveStockPhrases = []string{"in stock", "available", "add to cart"}
)

// Normalize turns one raw card into a product record. Returns nil when the
// card has no resolvable name; everything else always normalizes to a record
// with a category and quality tier assigned.
func Normalize(card models.RawCard) *models.ProductRecord {
	name := strings.TrimSpace(card.Name)
	if name == "" {
		return nil
	}

	brand := card.PageContext.Brand
	if brand == "" {
		brand = "Apple"
	}

	tier, ok := QualityFromBadge(card.BadgeText)
	if !ok {
		tier = DetectQuality(name)
	}

	modelSource := card.FullTitle
	if modelSource == "" {
		modelSource = name
	}

	rec := &models.ProductRecord{
		SKU:                ResolveSKU(card.SKUText, name),
		Name:               name,
		Brand:              brand,
		DeviceLine:         DetectDeviceLine(name, card.PageContext.DeviceLine),
		ModelCompatibility: ExtractModelCompatibility(modelSource),
		Category:           DetectCategory(name),
		QualityTier:        tier,
		WholesalePrice:     ParsePrice(card.PriceText),
		IsInStock:          DetectStock(card.StockText, card.StockClasses),
	}
	if badge := strings.TrimSpace(card.BadgeText); badge != "" {
		rec.WarrantyInfo = &badge
	}
	if u := strings.TrimSpace(card.URL); u != "" {
		rec.SourceURL = &u
	}
	return rec
}

// ParsePrice extracts a numeric value from price text such as "CA$966.96",
// "$49.99", "CA$49.99 CAD" or "1,249.00". Input with no parseable digits
// yields nil.
func ParsePrice(priceText string) *float64 {
	cleaned := priceStripPattern.ReplaceAllString(priceText, "")
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

// DetectStock combines visible stock text and structural class hints into a
// single haystack and matches negative phrases before positive ones. No
// signal at all means not confirmed in stock.
func DetectStock(stockText string, stockClasses []string) bool {
	combined := strings.ToLower(stockText + " " + strings.Join(stockClasses, " "))
	combined = strings.NewReplacer("-", " ", "_", " ").Replace(combined)

	for _, phrase := range negativeStockPhrases {
		if strings.Contains(combined, phrase) {
			return false
		}
	}
	for _, phrase := range positiveStockPhrases {
		if strings.Contains(combined, phrase) {
			return true
		}
	}
	return false
}

// ExtractModelCompatibility pulls a model/part-number substring out of a
// product title, e.g. "MacBook Pro 16 A2991 (2023)". First matcher wins.
func ExtractModelCompatibility(name string) *string {
	for _, p := range modelPatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		found := strings.TrimSpace(m[p.group])
		if found != "" {
			return &found
		}
	}
	return nil
}

// DetectDeviceLine matches known line names in the product name, falling back
// to the listing page's device line when the name itself carries no hint.
func DetectDeviceLine(name, pageDeviceLine string) *string {
	lower := strings.ToLower(name)
	for _, line := range catalog.DeviceLineNames {
		if strings.Contains(lower, strings.ToLower(line)) {
			l := line
			return &l
		}
	}
	if pageDeviceLine != "" {
		return &pageDeviceLine
	}
	return nil
}

// DetectCategory classifies a product name against the ordered keyword map.
// Always returns a category; the fallback bucket is CategoryOther.
func DetectCategory(name string) models.Category {
	lower := strings.ToLower(name)
	for _, entry := range catalog.CategoryMap {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Tag
			}
		}
	}
	return models.CategoryOther
}

// DetectQuality classifies a product name into a quality tier. Standard is
// the default: this catalog's unmarked listings are aftermarket stock.
func DetectQuality(name string) models.QualityTier {
	lower := strings.ToLower(name)
	for _, entry := range catalog.QualityMap {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Tier
			}
		}
	}
	return models.QualityStandard
}

// QualityFromBadge maps the quality badge label to a tier. Badge labels are
// more reliable than product-name keywords, so a hit here outranks them.
func QualityFromBadge(badgeText string) (models.QualityTier, bool) {
	lower := strings.ToLower(badgeText)
	if lower == "" {
		return "", false
	}
	switch {
	case strings.Contains(lower, "genuine"), strings.Contains(lower, "oem"):
		return models.QualityOEM, true
	case strings.Contains(lower, "aftermarket plus"), strings.Contains(lower, "premium"):
		return models.QualityPremium, true
	case strings.Contains(lower, "aftermarket"), strings.Contains(lower, "refurbished"):
		return models.QualityStandard, true
	}
	return "", false
}

// ResolveSKU prefers the SKU token scraped from the page, stripping a leading
// "SKU:" label. With no page token it derives a stable key from the name.
func ResolveSKU(skuText, name string) string {
	token := strings.TrimSpace(skuLabelPattern.ReplaceAllString(strings.TrimSpace(skuText), ""))
	if token != "" {
		return catalog.SKUPrefix + strings.ToUpper(token)
	}
	return SKUFromName(name)
}

// SKUFromName derives a deterministic fallback SKU: prefix plus the
// uppercased, punctuation-stripped, hyphen-joined name truncated to 40
// characters. Pure, so repeated runs upsert the same row for the same name.
func SKUFromName(name string) string {
	slug := skuStripPattern.ReplaceAllString(name, "")
	slug = strings.ToUpper(strings.Join(strings.Fields(slug), "-"))
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return catalog.SKUPrefix + slug
}
