package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

const listingHTML = `
<html><body>
<ul class="product-listing">
  <li class="item">
    <a class="product-image" href="/replacement-parts/apple/macbook-pro/lcd-a2991" title="LCD Screen for MacBook Pro 16 A2991 (2023)"></a>
    <h2 class="product-name">LCD Screen for MacBook Pro 16 A2991 (2023)</h2>
    <span class="regular-price price">CA$249.99</span>
    <div class="availability in-stock">In Stock</div>
  </li>
  <li class="item">
    <a class="product-image" href="/replacement-parts/apple/macbook-pro/battery-a2519" title="Battery A2519 for MacBook Pro 16"></a>
    <h2 class="product-name">Battery A2519 for MacBook Pro 16</h2>
    <span class="regular-price price">CA$89.99</span>
    <span class="sku">BAT-A2519</span>
    <img class="product-badges" alt="Genuine" src="/badges/genuine.png"/>
    <div class="custom-add-to-cart sold-out">Sold Out</div>
  </li>
  <li class="item">
    <span class="regular-price price">CA$9.99</span>
  </li>
</ul>
</body></html>`

func TestExtractCards(t *testing.T) {
	pageCtx := models.PageContext{DeviceLine: "MacBook Pro", Brand: "Apple"}

	cards, skipped, err := ExtractCards(listingHTML, pageCtx)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "nameless card should be skipped, not dropped silently")
	require.Len(t, cards, 2)

	first := cards[0]
	assert.Equal(t, "LCD Screen for MacBook Pro 16 A2991 (2023)", first.Name)
	assert.Equal(t, "CA$249.99", first.PriceText)
	assert.Equal(t, "/replacement-parts/apple/macbook-pro/lcd-a2991", first.URL)
	assert.Contains(t, first.StockText, "In Stock")
	assert.Equal(t, pageCtx, first.PageContext)

	second := cards[1]
	assert.Equal(t, "Battery A2519 for MacBook Pro 16", second.Name)
	assert.Equal(t, "BAT-A2519", second.SKUText)
	assert.Equal(t, "Genuine", second.BadgeText)
	assert.Contains(t, second.StockText, "Sold Out")
	assert.NotEmpty(t, second.StockClasses)
}

func TestExtractCardsNameFallsBackToLinkTitle(t *testing.T) {
	html := `
	<ul class="product-listing">
	  <li class="item">
	    <a class="product-image" href="/p/x" title="Trackpad A1708"></a>
	    <span class="regular-price price">CA$39.99</span>
	  </li>
	</ul>`

	cards, skipped, err := ExtractCards(html, models.PageContext{})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, cards, 1)
	assert.Equal(t, "Trackpad A1708", cards[0].Name)
}

func TestExtractCardsEmptyPage(t *testing.T) {
	cards, skipped, err := ExtractCards("<html><body><p>No results</p></body></html>", models.PageContext{})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, cards)
}

func TestNextPageURL(t *testing.T) {
	current := "https://www.mobilesentrix.ca/replacement-parts/apple/macbook-pro?p=2"

	t.Run("relative link resolves against current page", func(t *testing.T) {
		html := `<div class="pages"><ol><li class="next"><a href="?p=3">Next</a></li></ol></div>`
		next, ok := NextPageURL(html, current)
		require.True(t, ok)
		assert.Equal(t, "https://www.mobilesentrix.ca/replacement-parts/apple/macbook-pro?p=3", next)
	})

	t.Run("legacy next anchor", func(t *testing.T) {
		html := `<a class="next i-next" href="https://www.mobilesentrix.ca/replacement-parts/apple/macbook-pro?p=3">&raquo;</a>`
		next, ok := NextPageURL(html, current)
		require.True(t, ok)
		assert.Contains(t, next, "p=3")
	})

	t.Run("last page has no next link", func(t *testing.T) {
		html := `<div class="pages"><ol><li class="current">2</li></ol></div>`
		_, ok := NextPageURL(html, current)
		assert.False(t, ok)
	})

	t.Run("javascript href is rejected", func(t *testing.T) {
		html := `<div class="pages"><ol><li class="next"><a href="javascript:void(0)">Next</a></li></ol></div>`
		_, ok := NextPageURL(html, current)
		assert.False(t, ok)
	})
}

func TestSubModelLinks(t *testing.T) {
	categoryURL := "https://www.mobilesentrix.ca/replacement-parts/apple/iphone-parts"

	html := `
	<div class="sub-categories">
	  <a href="/replacement-parts/apple/iphone-parts/iphone-15-pro">iPhone 15 Pro</a>
	  <a href="/replacement-parts/apple/iphone-parts/iphone-15">iPhone 15</a>
	</div>
	<a href="/replacement-parts/apple/iphone-parts/iphone-14">iPhone 14</a>
	<a href="/replacement-parts/apple/iphone-parts/iphone-15">iPhone 15 duplicate</a>
	<a href="/replacement-parts/apple/iphone-parts?dir=asc">sort link</a>
	<a href="/replacement-parts/apple/iphone-parts#top">anchor link</a>
	<a href="https://other.example.com/replacement-parts/apple/iphone-parts/iphone-13">offsite</a>
	<a href="/replacement-parts/apple/iphone-parts">self link</a>`

	links := SubModelLinks(html, categoryURL)
	assert.Equal(t, []string{
		"https://www.mobilesentrix.ca/replacement-parts/apple/iphone-parts/iphone-15-pro",
		"https://www.mobilesentrix.ca/replacement-parts/apple/iphone-parts/iphone-15",
		"https://www.mobilesentrix.ca/replacement-parts/apple/iphone-parts/iphone-14",
	}, links)
}

func TestSubModelLinksEmptyPage(t *testing.T) {
	assert.Empty(t, SubModelLinks("<html><body></body></html>", "https://www.mobilesentrix.ca/x"))
}
