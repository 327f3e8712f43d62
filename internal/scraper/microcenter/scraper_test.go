package microcenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPageFixture = `
<html><body>
<ul class="search_results">
  <li class="product_wrapper">
    <a class="productClickItemV2" href="/product/123456/msi-rtx-4090"
       data-name=" MSI NVIDIA GeForce RTX 4090 Gaming X Trio 24GB "
       data-brand="MSI" data-price="1899.99">MSI RTX 4090</a>
    <p class="sku">SKU: 123456</p>
    <span class="inventoryCnt">25+
      IN STOCK</span>
    <img class="SearchResultProductImage" src="/img/blank.gif" data-src="https://cdn.example.com/4090.jpg">
  </li>
  <li class="product_wrapper">
    <a class="productClickItemV2" href="/product/654321/sapphire-rx-7700-xt"
       data-name="Sapphire AMD Radeon RX 7700 XT Pulse 12GB"
       data-brand="Sapphire" data-price="449.99">Sapphire RX 7700 XT</a>
    <p class="sku">SKU: 654321</p>
    <div class="stock">Sold Out</div>
    <img class="SearchResultProductImage" src="https://cdn.example.com/7700xt.jpg">
  </li>
  <li class="product_wrapper">
    <a class="productClickItemV2" href="/product/111111/broken"
       data-name="Broken Listing" data-brand="" data-price="not-a-price">Broken</a>
    <p class="sku">SKU: 111111</p>
  </li>
  <li class="product_wrapper">
    <div class="promo">Not a product card at all</div>
  </li>
</ul>
</body></html>`

func TestExtractListings(t *testing.T) {
	listings, skipped, err := ExtractListings("https://www.microcenter.com", strings.NewReader(searchPageFixture))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped, "bad price and missing anchor are skipped, not fatal")
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "MSI NVIDIA GeForce RTX 4090 Gaming X Trio 24GB", first.FullName)
	assert.Equal(t, "MSI", first.Brand)
	assert.Equal(t, "123456", first.SKU)
	assert.Equal(t, "https://www.microcenter.com/product/123456/msi-rtx-4090", first.ProductURL)
	assert.Equal(t, 1899.99, first.PriceUSD)
	assert.Equal(t, "25+ IN STOCK", first.StockStatus, "inventory counter text is whitespace-collapsed")
	assert.Equal(t, "https://cdn.example.com/4090.jpg", first.ImageURL, "lazy-load attribute wins over src")

	second := listings[1]
	assert.Equal(t, "654321", second.SKU)
	assert.Equal(t, "SOLD OUT", second.StockStatus, "stock box text is uppercased")
	assert.Equal(t, "https://cdn.example.com/7700xt.jpg", second.ImageURL)
}

func TestExtractListingsEmptyPage(t *testing.T) {
	listings, skipped, err := ExtractListings("https://www.microcenter.com", strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Zero(t, skipped)
}
