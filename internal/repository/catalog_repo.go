package repository

import (
	"context"
	"time"

	"github.com/RileyJaeke/microcenter-scraper/internal/model"

	"gorm.io/gorm"
)

// CurrentGPURow is one product joined to its GPU, store and newest price
// observation; the shape returned by GET /api/gpus.
type CurrentGPURow struct {
	ProductID        uint64    `gorm:"column:product_id" json:"product_id"`
	Brand            string    `gorm:"column:brand" json:"brand"`
	ModelName        string    `gorm:"column:model_name" json:"model_name"`
	Manufacturer     string    `gorm:"column:manufacturer" json:"manufacturer"`
	FullName         string    `gorm:"column:full_name" json:"full_name"`
	PriceUSD         float64   `gorm:"column:price_usd" json:"price_usd"`
	StockStatus      string    `gorm:"column:stock_status" json:"stock_status"`
	ProductURL       string    `gorm:"column:product_url" json:"product_url"`
	LastSeenImageURL string    `gorm:"column:last_seen_image_url" json:"last_seen_image_url"`
	StoreName        string    `gorm:"column:store_name" json:"store_name"`
	ScrapedAt        time.Time `gorm:"column:scraped_at" json:"scraped_at"`
}

// HistoryPoint is one observation of a product over time, for charting.
type HistoryPoint struct {
	PriceUSD    float64   `gorm:"column:price_usd" json:"price_usd"`
	StockStatus string    `gorm:"column:stock_status" json:"stock_status"`
	ScrapedAt   time.Time `gorm:"column:scraped_at" json:"scraped_at"`
}

// CatalogRepository serves the read-only catalog queries behind the API.
type CatalogRepository interface {
	// ListCurrentGPUs returns one row per product with its latest observation.
	ListCurrentGPUs(ctx context.Context) ([]CurrentGPURow, error)
	// ListHistory returns all observations for a product, oldest first.
	ListHistory(ctx context.Context, productID uint64) ([]HistoryPoint, error)
	// ListStores returns all stores.
	ListStores(ctx context.Context) ([]*model.Store, error)
	// GetStore returns one store by id.
	GetStore(ctx context.Context, id uint64) (*model.Store, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListCurrentGPUs derives the current state at query time from the history
// log; there is no stored "latest" column to drift from it. Newest entry is
// max scraped_at, history_id breaking ties within one run.
func (r *catalogRepository) ListCurrentGPUs(ctx context.Context) ([]CurrentGPURow, error) {
	var rows []CurrentGPURow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id,
		       g.brand, g.model_name, g.manufacturer, g.full_name,
		       ph.price_usd, ph.stock_status, ph.scraped_at,
		       p.product_url, p.last_seen_image_url,
		       s.name AS store_name
		FROM products p
		JOIN gpus g ON g.id = p.gpu_id
		JOIN stores s ON s.id = p.store_id
		JOIN price_history ph ON ph.product_id = p.id
		WHERE ph.history_id = (
			SELECT ph2.history_id FROM price_history ph2
			WHERE ph2.product_id = p.id
			ORDER BY ph2.scraped_at DESC, ph2.history_id DESC
			LIMIT 1
		)
		ORDER BY ph.price_usd DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogRepository) ListHistory(ctx context.Context, productID uint64) ([]HistoryPoint, error) {
	var points []HistoryPoint
	err := r.db.WithContext(ctx).Model(&model.PriceHistoryEntry{}).
		Select("price_usd", "stock_status", "scraped_at").
		Where("product_id = ?", productID).
		Order("scraped_at ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *catalogRepository) ListStores(ctx context.Context) ([]*model.Store, error) {
	var stores []*model.Store
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *catalogRepository) GetStore(ctx context.Context, id uint64) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
