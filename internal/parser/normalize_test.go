package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"canadian dollar prefix", "CA$966.96", floatPtr(966.96)},
		{"plain dollar", "$49.99", floatPtr(49.99)},
		{"currency suffix", "CA$49.99 CAD", floatPtr(49.99)},
		{"thousands separator", "1,249.00", floatPtr(1249.00)},
		{"no digits", "Call for price", nil},
		{"empty", "", nil},
		{"whitespace around", "  CA$ 12.50  ", floatPtr(12.50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 0.001)
		})
	}
}

func TestDetectStock(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		classes []string
		want    bool
	}{
		{"in stock text", "In Stock", nil, true},
		{"sold out text", "Sold Out", nil, false},
		{"negative beats positive", "Available - Sold Out", nil, false},
		{"hyphenated class negative", "", []string{"product-sold-out"}, false},
		{"hyphenated class positive", "", []string{"in-stock availability"}, true},
		{"add to cart button", "Add to Cart", nil, true},
		{"out of stock phrasing", "Currently out of stock", nil, false},
		{"unavailable", "Temporarily Unavailable", nil, false},
		{"no signal defaults to false", "", nil, false},
		{"unrelated text defaults to false", "Ships from Ontario", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStock(tt.text, tt.classes))
		})
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name string
		want models.Category
	}{
		{"LCD Screen for MacBook Pro 16 A2991 (2023)", models.CategoryScreen},
		{"Battery A2389 for MacBook Air 13", models.CategoryBattery},
		{"Topcase with Keyboard UK Layout", models.CategoryKeyboard},
		{"Force Touch Trackpad A1708", models.CategoryTrackpad},
		{"MagSafe 3 DC-In Board", models.CategoryCharger},
		{"Left Cooling Fan A2442", models.CategoryFan},
		{"Loud Speaker Assembly", models.CategorySpeaker},
		{"FaceTime Camera Module", models.CategoryCamera},
		{"Display Hinge Clutch Cover", models.CategoryScreen},
		{"Trackpad Flex Cable", models.CategoryTrackpad},
		{"Logic Board 8GB 256GB", models.CategoryLogicBoard},
		{"Mystery Bracket Set", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.name))
		})
	}
}

func TestDetectCategoryFirstMatchWins(t *testing.T) {
	// "LCD Screen Flex Cable" mentions both screen and cable; screen sits
	// earlier in the keyword order.
	assert.Equal(t, models.CategoryScreen, DetectCategory("LCD Screen Flex Cable"))
}

func TestDetectQuality(t *testing.T) {
	tests := []struct {
		name string
		want models.QualityTier
	}{
		{"Genuine OEM Battery", models.QualityOEM},
		{"Apple Genuine Screen Assembly", models.QualityOEM},
		{"Aftermarket Plus LCD", models.QualityPremium},
		{"Premium Replacement Display", models.QualityPremium},
		{"Aftermarket Battery", models.QualityStandard},
		{"Compatible Charger", models.QualityStandard},
		{"Unmarked Part", models.QualityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectQuality(tt.name))
		})
	}
}

func TestQualityFromBadge(t *testing.T) {
	tier, ok := QualityFromBadge("Genuine")
	require.True(t, ok)
	assert.Equal(t, models.QualityOEM, tier)

	tier, ok = QualityFromBadge("Aftermarket Plus")
	require.True(t, ok)
	assert.Equal(t, models.QualityPremium, tier)

	tier, ok = QualityFromBadge("Aftermarket")
	require.True(t, ok)
	assert.Equal(t, models.QualityStandard, tier)

	_, ok = QualityFromBadge("")
	assert.False(t, ok)

	_, ok = QualityFromBadge("Free Shipping")
	assert.False(t, ok)
}

func TestQualityBadgeOutranksName(t *testing.T) {
	card := models.RawCard{
		Name:      "Aftermarket Battery for MacBook Air 13",
		BadgeText: "Genuine",
	}
	rec := Normalize(card)
	require.NotNil(t, rec)
	assert.Equal(t, models.QualityOEM, rec.QualityTier)
	require.NotNil(t, rec.WarrantyInfo)
	assert.Equal(t, "Genuine", *rec.WarrantyInfo)
}

func TestExtractModelCompatibility(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"for phrasing with year",
			"LCD Screen for MacBook Pro 16 A2991 (2023)",
			"MacBook Pro 16 A2991 (2023)",
		},
		{
			"bare line with part number",
			"MacBook Pro 14 A2779 Top Case",
			"MacBook Pro 14 A2779",
		},
		{
			"part number only",
			"Bottom Case Screws Set A2442 / A2779",
			"A2442 / A2779",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractModelCompatibility(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, ExtractModelCompatibility("Universal Cleaning Kit"))
}

func TestDetectDeviceLine(t *testing.T) {
	got := DetectDeviceLine("LCD Screen for MacBook Pro 16", "")
	require.NotNil(t, got)
	assert.Equal(t, "MacBook Pro", *got)

	got = DetectDeviceLine("OLED Assembly", "iPhone")
	require.NotNil(t, got)
	assert.Equal(t, "iPhone", *got)

	assert.Nil(t, DetectDeviceLine("Universal Tool Kit", ""))
}

func TestResolveSKU(t *testing.T) {
	assert.Equal(t, "MSX-AB1234", ResolveSKU("AB1234", "ignored"))
	assert.Equal(t, "MSX-AB1234", ResolveSKU("SKU: ab1234", "ignored"))
	assert.Equal(t, "MSX-BATTERY-A2389", ResolveSKU("", "Battery A2389"))
}

func TestSKUFromNameTruncation(t *testing.T) {
	sku := SKUFromName("LCD Screen for MacBook Pro 16 A2991 (2023) Extra Long Descriptive Tail")
	// Prefix plus at most 40 slug characters.
	assert.LessOrEqual(t, len(sku), len("MSX-")+40)
	assert.Equal(t, "MSX-LCD-SCREEN-FOR-MACBOOK-PRO-16-A2991-2023", sku)
}

func TestSKUFromNameDeterministic(t *testing.T) {
	a := SKUFromName("Battery   A2389,  v2!")
	b := SKUFromName("Battery   A2389,  v2!")
	assert.Equal(t, a, b)
	assert.Equal(t, "MSX-BATTERY-A2389-V2", a)
}

func TestNormalizeFullCard(t *testing.T) {
	card := models.RawCard{
		Name:      "LCD Screen for MacBook Pro 16 A2991 (2023)",
		PriceText: "CA$249.99",
		SKUText:   "",
		StockText: "In Stock",
		PageContext: models.PageContext{
			DeviceLine: "MacBook Pro",
			Brand:      "Apple",
		},
	}

	rec := Normalize(card)
	require.NotNil(t, rec)

	assert.Equal(t, "MSX-LCD-SCREEN-FOR-MACBOOK-PRO-16-A2991-2023", rec.SKU)
	assert.Equal(t, "LCD Screen for MacBook Pro 16 A2991 (2023)", rec.Name)
	assert.Equal(t, "Apple", rec.Brand)
	assert.Equal(t, models.CategoryScreen, rec.Category)
	assert.Equal(t, models.QualityStandard, rec.QualityTier)
	require.NotNil(t, rec.WholesalePrice)
	assert.InDelta(t, 249.99, *rec.WholesalePrice, 0.001)
	assert.True(t, rec.IsInStock)
	require.NotNil(t, rec.DeviceLine)
	assert.Equal(t, "MacBook Pro", *rec.DeviceLine)
	require.NotNil(t, rec.ModelCompatibility)
	assert.Equal(t, "MacBook Pro 16 A2991 (2023)", *rec.ModelCompatibility)
	assert.Nil(t, rec.WarrantyInfo)
}

func TestNormalizeNamelessCard(t *testing.T) {
	assert.Nil(t, Normalize(models.RawCard{PriceText: "CA$10.00"}))
	assert.Nil(t, Normalize(models.RawCard{Name: "   "}))
}

func floatPtr(f float64) *float64 { return &f }
