package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RileyJaeke/microcenter-scraper/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RunResult summarizes a finished scrape job.
type RunResult struct {
	Status       string // completed / failed
	ItemsScraped int
	Failures     int
	Message      string
	Errors       []string // per-listing failure messages
}

// ScrapeRunRepository keeps the audit log of scrape jobs.
type ScrapeRunRepository interface {
	// StartRun records a new running job and returns it.
	StartRun(ctx context.Context, storeID uint64) (*model.ScrapeRun, error)
	// FinishRun closes a job with its outcome.
	FinishRun(ctx context.Context, runID string, result RunResult) error
	// LatestRun returns the most recent job, or nil when none exist.
	LatestRun(ctx context.Context) (*model.ScrapeRun, error)
}

type scrapeRunRepository struct {
	db *gorm.DB
}

func NewScrapeRunRepository(db *gorm.DB) ScrapeRunRepository {
	return &scrapeRunRepository{db: db}
}

func (r *scrapeRunRepository) StartRun(ctx context.Context, storeID uint64) (*model.ScrapeRun, error) {
	run := model.ScrapeRun{
		RunID:     uuid.NewString(),
		StoreID:   storeID,
		Status:    "running",
		StartedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, fmt.Errorf("create scrape run: %w", err)
	}
	return &run, nil
}

func (r *scrapeRunRepository) FinishRun(ctx context.Context, runID string, result RunResult) error {
	errsJSON, err := json.Marshal(result.Errors)
	if err != nil {
		return fmt.Errorf("encode run errors: %w", err)
	}
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.ScrapeRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"status":        result.Status,
			"items_scraped": result.ItemsScraped,
			"failures":      result.Failures,
			"message":       result.Message,
			"errors":        datatypes.JSON(errsJSON),
			"finished_at":   &now,
		})
	if res.Error != nil {
		return fmt.Errorf("finish scrape run %s: %w", runID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("finish scrape run %s: not found", runID)
	}
	return nil
}

func (r *scrapeRunRepository) LatestRun(ctx context.Context) (*model.ScrapeRun, error) {
	var run model.ScrapeRun
	err := r.db.WithContext(ctx).Order("started_at DESC, id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
