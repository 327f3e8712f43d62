package microcenter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/RileyJaeke/microcenter-scraper/internal/config"
	"github.com/RileyJaeke/microcenter-scraper/internal/interfaces"
	"github.com/RileyJaeke/microcenter-scraper/internal/model"
	"github.com/RileyJaeke/microcenter-scraper/internal/utils/httpclient"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// categoryParam is the site's search facet for the GPU category.
const categoryParam = "4294966937"

type Scraper struct {
	cfg        *config.ScrapeConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewScraper(cfg *config.ScrapeConfig, logger *logrus.Logger) interfaces.StoreScraper {
	return &Scraper{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// FetchListings downloads one search-result page for the store and extracts
// its GPU listings.
func (s *Scraper) FetchListings(ctx context.Context, store *model.Store, page int) ([]model.Listing, int, error) {
	pageURL := s.searchURL(store.MicrocenterID, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	listings, skipped, err := ExtractListings(s.cfg.BaseURL, resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	s.logger.WithFields(logrus.Fields{
		"store":    store.Name,
		"page":     page,
		"listings": len(listings),
		"skipped":  skipped,
	}).Info("search page scraped")
	return listings, skipped, nil
}

func (s *Scraper) searchURL(microcenterID string, page int) string {
	return fmt.Sprintf("%s/search/search_results.aspx?N=%s&NTK=all&sortby=match&storeid=%s&rpp=%d&page=%d",
		s.cfg.BaseURL, categoryParam, microcenterID, s.cfg.ResultsPerPage, page)
}

// ExtractListings walks the product containers of a search-result page.
// A container that cannot be parsed is skipped and counted, never fatal.
func ExtractListings(baseURL string, r io.Reader) ([]model.Listing, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, err
	}

	var listings []model.Listing
	skipped := 0

	doc.Find("li.product_wrapper").Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find("a.productClickItemV2").First()
		if anchor.Length() == 0 {
			skipped++
			return
		}

		fullName := strings.TrimSpace(anchor.AttrOr("data-name", ""))
		brand := strings.TrimSpace(anchor.AttrOr("data-brand", "Unknown"))
		if brand == "" {
			brand = "Unknown"
		}
		sku := strings.TrimSpace(strings.Replace(sel.Find("p.sku").First().Text(), "SKU:", "", 1))
		if fullName == "" || sku == "" {
			skipped++
			return
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(anchor.AttrOr("data-price", "")), 64)
		if err != nil {
			skipped++
			return
		}

		listings = append(listings, model.Listing{
			FullName:    fullName,
			Brand:       brand,
			SKU:         sku,
			ProductURL:  baseURL + anchor.AttrOr("href", ""),
			ImageURL:    extractImageURL(sel),
			PriceUSD:    price,
			StockStatus: extractStockStatus(sel),
		})
	})

	return listings, skipped, nil
}

// extractStockStatus tries the inventory counter first, then the stock box,
// then a plain "SOLD OUT" marker in the container text.
func extractStockStatus(sel *goquery.Selection) string {
	if inv := sel.Find("span.inventoryCnt").First(); inv.Length() > 0 {
		return strings.Join(strings.Fields(inv.Text()), " ")
	}
	if stock := sel.ChildrenFiltered("div.stock").First(); stock.Length() > 0 {
		return strings.ToUpper(strings.TrimSpace(stock.Text()))
	}
	if strings.Contains(strings.ToUpper(sel.Text()), "SOLD OUT") {
		return "SOLD OUT"
	}
	return "UNKNOWN"
}

// extractImageURL prefers the lazy-load attribute; the site puts a
// placeholder in src until the real image loads.
func extractImageURL(sel *goquery.Selection) string {
	img := sel.Find("img.SearchResultProductImage").First()
	if img.Length() == 0 {
		return ""
	}
	if src, ok := img.Attr("data-src"); ok && src != "" {
		return src
	}
	return img.AttrOr("src", "")
}
