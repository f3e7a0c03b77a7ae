package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

// BaseURL is the storefront root. MobileSentrix is Magento-based with
// server-rendered product listings.
const BaseURL = "https://www.mobilesentrix.ca"

// Category is one top-level catalog section (a device line) containing
// sub-model listing pages.
type Category struct {
	Key        string
	URL        string
	DeviceLine string
	Brand      string
	// SubModelSlugs seeds sub-model pages that are not linked from the
	// category landing page (sidebar-only navigation). MacBook categories
	// rely on dynamic discovery and carry no seeds.
	SubModelSlugs []string
}

var categoryOrder = []string{"pro", "air", "iphone", "galaxy-s", "galaxy-note", "galaxy-a", "pixel"}

var Categories = map[string]Category{
	"pro": {
		Key:        "pro",
		URL:        BaseURL + "/replacement-parts/apple/macbook-pro",
		DeviceLine: "MacBook Pro",
		Brand:      "Apple",
	},
	"air": {
		Key:        "air",
		URL:        BaseURL + "/replacement-parts/apple/macbook-air",
		DeviceLine: "MacBook Air",
		Brand:      "Apple",
	},
	"iphone": {
		Key:           "iphone",
		URL:           BaseURL + "/replacement-parts/apple/iphone-parts",
		DeviceLine:    "iPhone",
		Brand:         "Apple",
		SubModelSlugs: iphoneSlugs,
	},
	"galaxy-s": {
		Key:           "galaxy-s",
		URL:           BaseURL + "/replacement-parts/samsung/galaxy-s-series",
		DeviceLine:    "Galaxy S",
		Brand:         "Samsung",
		SubModelSlugs: galaxySSlugs,
	},
	"galaxy-note": {
		Key:           "galaxy-note",
		URL:           BaseURL + "/replacement-parts/samsung/galaxy-note-series",
		DeviceLine:    "Galaxy Note",
		Brand:         "Samsung",
		SubModelSlugs: galaxyNoteSlugs,
	},
	"galaxy-a": {
		Key:           "galaxy-a",
		URL:           BaseURL + "/replacement-parts/samsung/galaxy-a-series",
		DeviceLine:    "Galaxy A",
		Brand:         "Samsung",
		SubModelSlugs: galaxyASlugs,
	},
	"pixel": {
		Key:           "pixel",
		URL:           BaseURL + "/replacement-parts/google-pixel/pixel",
		DeviceLine:    "Pixel",
		Brand:         "Google",
		SubModelSlugs: pixelSlugs,
	},
}

// Brands maps a brand key to its category set for --brand expansion.
var Brands = map[string][]string{
	"apple":   {"pro", "air", "iphone"},
	"samsung": {"galaxy-s", "galaxy-note", "galaxy-a"},
	"google":  {"pixel"},
}

// DefaultCategories is the set crawled when no flags narrow the run.
var DefaultCategories = []string{"pro", "air"}

// Resolve expands a brand key and explicit category keys into an ordered,
// deduplicated category list. Unknown keys are an error.
func Resolve(categoryKeys []string, brand string) ([]Category, error) {
	var keys []string
	if brand != "" {
		expanded, ok := Brands[strings.ToLower(brand)]
		if !ok {
			return nil, fmt.Errorf("unknown brand: %s", brand)
		}
		keys = append(keys, expanded...)
	}
	for _, k := range categoryKeys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := Categories[k]; !ok {
			return nil, fmt.Errorf("unknown category: %s", k)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		keys = DefaultCategories
	}

	requested := make(map[string]bool, len(keys))
	for _, k := range keys {
		requested[k] = true
	}

	var out []Category
	for _, k := range categoryOrder {
		if requested[k] {
			out = append(out, Categories[k])
		}
	}
	return out, nil
}

// Selectors for MobileSentrix pages. The storefront markup is brittle by
// nature, so the full selector set lives here rather than inline in the
// traversal code.
var Selectors = struct {
	// CardSignatures gate the pagination loop: at least one must appear
	// before a page is treated as a listing with results.
	CardSignatures []string
	ProductCard    string
	ProductName    string
	ProductPrice   string
	ProductLink    string
	ProductSKU     string
	ProductBadge   string
	StockHints     []string
	NextPage       []string
	// SubModelContainers are the grid/collection blocks scanned for
	// sub-model links, unioned with the generic anchor scan.
	SubModelContainers []string
}{
	CardSignatures: []string{"ul.product-listing > li.item"},
	ProductCard:    "ul.product-listing > li.item",
	ProductName:    "h2.product-name",
	ProductPrice:   "span.regular-price.price, .price-box .price",
	ProductLink:    "a.product-image",
	ProductSKU:     ".sku, .product-sku",
	ProductBadge:   "img.product-badges",
	StockHints:     []string{".availability", ".custom-add-to-cart", ".out-of-stock", ".sold-out"},
	NextPage:       []string{".pages li.next a", "a.next.i-next"},
	SubModelContainers: []string{
		".sub-categories",
		".category-grid",
		"ul.categories-menu",
	},
}

// Crawl pacing and retry defaults, mirrored by the config env overrides.
var (
	DefaultPolitenessDelay = 2 * time.Second
	DefaultCardWaitTimeout = 8 * time.Second
	DefaultBackoffSchedule = []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}
	DefaultBackoffFallback = 10 * time.Second
)

const DefaultMaxAttempts = 3

// SKUPrefix tags every derived key so catalog rows are traceable to this
// source.
const SKUPrefix = "MSX-"

// CategoryKeywords pairs a taxonomy tag with its trigger keywords. The slice
// order is the match order: first tag with a keyword hit wins. The default
// bucket (other) is deliberately absent.
type CategoryKeywords struct {
	Tag      models.Category
	Keywords []string
}

var CategoryMap = []CategoryKeywords{
	{models.CategoryScreen, []string{"screen", "lcd", "display", "oled", "retina display", "panel"}},
	{models.CategoryBattery, []string{"battery", "batt"}},
	{models.CategoryKeyboard, []string{"keyboard", "topcase with keyboard", "top case"}},
	{models.CategoryTrackpad, []string{"trackpad", "track pad", "touchpad", "force touch"}},
	{models.CategoryCharger, []string{"charger", "charging port", "magsafe", "usb-c port", "dc-in", "i/o board"}},
	{models.CategoryFan, []string{"fan", "cooling", "heatsink", "heat sink"}},
	{models.CategorySpeaker, []string{"speaker"}},
	{models.CategoryCamera, []string{"camera", "webcam", "isight", "facetime"}},
	{models.CategoryHinge, []string{"hinge", "clutch"}},
	{models.CategoryCable, []string{"cable", "flex", "ribbon"}},
	{models.CategoryLogicBoard, []string{"logic board", "motherboard", "mainboard"}},
	{models.CategorySSD, []string{"ssd", "solid state", "storage"}},
	{models.CategoryRAM, []string{"ram", "memory"}},
}

// QualityKeywords pairs a tier with its trigger keywords, matched in order.
// "aftermarket plus" sits in premium and must be checked before the plain
// "aftermarket" of the standard tier.
type QualityKeywords struct {
	Tier     models.QualityTier
	Keywords []string
}

var QualityMap = []QualityKeywords{
	{models.QualityOEM, []string{"genuine oem", "apple genuine", "genuine"}},
	{models.QualityPremium, []string{"aftermarket plus", "premium", "high quality", "grade a", "grade-a"}},
	{models.QualityStandard, []string{"aftermarket", "compatible", "replacement", "refurbished"}},
}

// DeviceLineNames are the known product families matched against product
// names before falling back to page context.
var DeviceLineNames = []string{
	"MacBook Pro",
	"MacBook Air",
	"iPhone",
	"iPad",
	"Galaxy S",
	"Galaxy Note",
	"Galaxy A",
	"Pixel",
}
