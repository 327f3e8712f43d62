package model

// Listing is one raw GPU listing lifted from a Microcenter search-result
// page, before any persistence. Price keeps the page's data-price value.
type Listing struct {
	FullName    string
	Brand       string
	SKU         string
	ProductURL  string
	ImageURL    string
	PriceUSD    float64
	StockStatus string
}

// GPUDetails is the brand/model/manufacturer split parsed out of a
// listing's full product name.
type GPUDetails struct {
	Brand        string
	ModelName    string
	Manufacturer string
}
