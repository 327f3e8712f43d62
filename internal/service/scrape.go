package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RileyJaeke/microcenter-scraper/internal/config"
	"github.com/RileyJaeke/microcenter-scraper/internal/interfaces"
	"github.com/RileyJaeke/microcenter-scraper/internal/model"
	"github.com/RileyJaeke/microcenter-scraper/internal/repository"
	"github.com/RileyJaeke/microcenter-scraper/internal/scraper/microcenter"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AlreadyRunningMessage is returned to a trigger that finds the slot taken.
// It is an expected condition, not an error.
const AlreadyRunningMessage = "A scrape is already in progress."

// ScrapeService owns the single scrape slot: at most one job runs per
// process. The slot is a running flag plus the last completion message,
// both guarded by one mutex so the is-one-running check and the claim are
// a single atomic step.
type ScrapeService struct {
	inventory repository.InventoryRepository
	catalog   repository.CatalogRepository
	runs      repository.ScrapeRunRepository
	scraper   interfaces.StoreScraper
	logger    *logrus.Logger
	cfg       *config.ScrapeConfig

	mu      sync.Mutex
	running bool
	message string
}

func NewScrapeService(db *gorm.DB, scraper interfaces.StoreScraper, logger *logrus.Logger, cfg *config.ScrapeConfig) *ScrapeService {
	s := &ScrapeService{
		inventory: repository.NewInventoryRepository(db),
		catalog:   repository.NewCatalogRepository(db),
		runs:      repository.NewScrapeRunRepository(db),
		scraper:   scraper,
		logger:    logger,
		cfg:       cfg,
		message:   "No scrape has run yet.",
	}
	// survive restarts: the newest finished run backs the status message
	if run, err := s.runs.LatestRun(context.Background()); err == nil && run != nil && run.Status != "running" {
		s.message = run.Message
	}
	return s
}

// Start triggers a scrape of the given store. The caller is never blocked
// on the job itself: when the slot is free the job is spawned and Start
// returns immediately; when it is taken nothing changes and started is
// false. err is only set when the store cannot be resolved.
func (s *ScrapeService) Start(ctx context.Context, storeID uint64) (started bool, message string, err error) {
	store, err := s.catalog.GetStore(ctx, storeID)
	if err != nil {
		return false, "", fmt.Errorf("resolve store %d: %w", storeID, err)
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false, AlreadyRunningMessage, nil
	}
	s.running = true
	s.mu.Unlock()

	go s.run(store)
	return true, fmt.Sprintf("Scrape started for %s.", store.Name), nil
}

// Status reports the slot: whether a job is running and the last
// completion message.
func (s *ScrapeService) Status() (isScraping bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.message
}

// run is the job body. It always frees the slot, writing the completion
// message for the next status read.
func (s *ScrapeService) run(store *model.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	result := s.scrapeStore(ctx, store)

	s.logger.WithFields(logrus.Fields{
		"store":    store.Name,
		"status":   result.Status,
		"items":    result.ItemsScraped,
		"failures": result.Failures,
	}).Info("scrape finished")

	s.mu.Lock()
	s.running = false
	s.message = result.Message
	s.mu.Unlock()
}

// scrapeStore walks the store's search pages until one comes back short of
// a full page. A listing that fails to parse or persist is counted and
// skipped; it never aborts the rest of the batch.
func (s *ScrapeService) scrapeStore(ctx context.Context, store *model.Store) repository.RunResult {
	run, err := s.runs.StartRun(ctx, store.ID)
	if err != nil {
		// the audit row is not worth failing the job over
		s.logger.WithError(err).Warn("could not record scrape run")
	}

	items := 0
	failures := 0
	var listingErrs []string
	var fetchErr error

	for page := 1; ; page++ {
		listings, skipped, err := s.scraper.FetchListings(ctx, store, page)
		if err != nil {
			fetchErr = err
			break
		}
		failures += skipped

		for _, listing := range listings {
			if err := s.persistListing(ctx, store, listing); err != nil {
				failures++
				listingErrs = append(listingErrs, fmt.Sprintf("%s: %v", listing.SKU, err))
				s.logger.WithError(err).WithField("sku", listing.SKU).Warn("listing skipped")
				continue
			}
			items++
		}

		if len(listings) < s.cfg.ResultsPerPage {
			break
		}
		select {
		case <-time.After(s.cfg.PageDelay):
		case <-ctx.Done():
			fetchErr = ctx.Err()
		}
		if fetchErr != nil {
			break
		}
	}

	result := repository.RunResult{
		ItemsScraped: items,
		Failures:     failures,
		Errors:       listingErrs,
	}
	switch {
	case fetchErr == nil:
		result.Status = "completed"
		result.Message = fmt.Sprintf("Scraped %d items from %s.", items, store.Name)
		if failures > 0 {
			result.Message = fmt.Sprintf("Scraped %d items from %s (%d listings skipped).", items, store.Name, failures)
		}
	case errors.Is(fetchErr, context.DeadlineExceeded):
		result.Status = "failed"
		result.Message = fmt.Sprintf("Scrape of %s timed out after %s (%d items saved).", store.Name, s.cfg.Timeout, items)
	default:
		result.Status = "failed"
		result.Message = fmt.Sprintf("Scrape of %s failed: %v (%d items saved).", store.Name, fetchErr, items)
	}

	if run != nil {
		// a fresh context: the job context may already be past its deadline
		finishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.runs.FinishRun(finishCtx, run.RunID, result); err != nil {
			s.logger.WithError(err).Warn("could not close scrape run")
		}
	}
	return result
}

func (s *ScrapeService) persistListing(ctx context.Context, store *model.Store, listing model.Listing) error {
	details := microcenter.ParseGPUDetails(listing.FullName, listing.Brand)

	gpu, err := s.inventory.GetOrCreateGPU(ctx, details, listing.FullName)
	if err != nil {
		return err
	}
	product, err := s.inventory.GetOrCreateProduct(ctx, store.ID, gpu.ID, listing.SKU, listing.ProductURL, listing.ImageURL)
	if err != nil {
		return err
	}
	return s.inventory.AppendPriceHistory(ctx, product.ID, listing.PriceUSD, listing.StockStatus, time.Now().UTC())
}
