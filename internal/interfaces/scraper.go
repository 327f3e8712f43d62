package interfaces

import (
	"context"

	"github.com/RileyJaeke/microcenter-scraper/internal/model"
)

// StoreScraper fetches one search-result page for a store and extracts its
// GPU listings. skipped counts containers that were present but could not
// be parsed; they never fail the page.
type StoreScraper interface {
	FetchListings(ctx context.Context, store *model.Store, page int) (listings []model.Listing, skipped int, err error)
}
