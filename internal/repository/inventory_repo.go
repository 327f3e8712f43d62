package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RileyJaeke/microcenter-scraper/internal/model"

	"gorm.io/gorm"
)

// InventoryRepository is the write side of the catalog: upsert-by-natural-key
// for stores, GPUs and products, append-only price history, and the two
// administrative deletes.
type InventoryRepository interface {
	// GetOrCreateStore upserts by (name, city, state) and returns the row.
	GetOrCreateStore(ctx context.Context, name, city, state, microcenterID string) (*model.Store, error)
	// GetOrCreateGPU upserts by full name; improved brand/manufacturer/model
	// parses overwrite earlier "Unknown" values.
	GetOrCreateGPU(ctx context.Context, details model.GPUDetails, fullName string) (*model.GPU, error)
	// GetOrCreateProduct upserts by (store, sku); url and image are
	// refreshed on every observation.
	GetOrCreateProduct(ctx context.Context, storeID, gpuID uint64, sku, productURL, imageURL string) (*model.Product, error)
	// AppendPriceHistory records one observation. Entries are never updated.
	AppendPriceHistory(ctx context.Context, productID uint64, priceUSD float64, stockStatus string, at time.Time) error
	// DeleteProduct removes a product and, by cascade, its history.
	DeleteProduct(ctx context.Context, productID uint64) error
	// DeleteStore removes a store; rejected while products reference it.
	DeleteStore(ctx context.Context, storeID uint64) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetOrCreateStore(ctx context.Context, name, city, state, microcenterID string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Where("name = ? AND city = ? AND state = ?", name, city, state).
		First(&store).Error
	if err == nil {
		return &store, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup store %s: %w", name, err)
	}

	store = model.Store{Name: name, City: city, State: state, MicrocenterID: microcenterID}
	if err := r.db.WithContext(ctx).Create(&store).Error; err != nil {
		// lost a create race: the unique index fired, reuse the winner's row
		var existing model.Store
		if err2 := r.db.WithContext(ctx).
			Where("name = ? AND city = ? AND state = ?", name, city, state).
			First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create store %s: %w", name, err)
	}
	return &store, nil
}

func (r *inventoryRepository) GetOrCreateGPU(ctx context.Context, details model.GPUDetails, fullName string) (*model.GPU, error) {
	var gpu model.GPU
	err := r.db.WithContext(ctx).Where("full_name = ?", fullName).First(&gpu).Error
	if err == nil {
		if updates := gpuMetadataUpdates(&gpu, details); len(updates) > 0 {
			if err := r.db.WithContext(ctx).Model(&gpu).Updates(updates).Error; err != nil {
				return nil, fmt.Errorf("update gpu %d: %w", gpu.ID, err)
			}
		}
		return &gpu, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup gpu %q: %w", fullName, err)
	}

	gpu = model.GPU{
		Brand:        details.Brand,
		ModelName:    details.ModelName,
		Manufacturer: details.Manufacturer,
		FullName:     fullName,
	}
	if err := r.db.WithContext(ctx).Create(&gpu).Error; err != nil {
		var existing model.GPU
		if err2 := r.db.WithContext(ctx).Where("full_name = ?", fullName).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create gpu %q: %w", fullName, err)
	}
	return &gpu, nil
}

// gpuMetadataUpdates keeps existing values unless the new parse actually
// knows better; an "Unknown" never overwrites a real brand or manufacturer.
func gpuMetadataUpdates(gpu *model.GPU, details model.GPUDetails) map[string]interface{} {
	updates := map[string]interface{}{}
	if details.Brand != "Unknown" && details.Brand != gpu.Brand {
		updates["brand"] = details.Brand
	}
	if details.ModelName != gpu.ModelName {
		updates["model_name"] = details.ModelName
	}
	if details.Manufacturer != "Unknown" && details.Manufacturer != gpu.Manufacturer {
		updates["manufacturer"] = details.Manufacturer
	}
	return updates
}

func (r *inventoryRepository) GetOrCreateProduct(ctx context.Context, storeID, gpuID uint64, sku, productURL, imageURL string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("sku = ? AND store_id = ?", sku, storeID).
		First(&product).Error
	if err == nil {
		if err := r.db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
			"product_url":         productURL,
			"last_seen_image_url": imageURL,
		}).Error; err != nil {
			return nil, fmt.Errorf("refresh product %d: %w", product.ID, err)
		}
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup product sku %s: %w", sku, err)
	}

	product = model.Product{
		StoreID:          storeID,
		GPUID:            gpuID,
		SKU:              sku,
		ProductURL:       productURL,
		LastSeenImageURL: imageURL,
	}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		var existing model.Product
		if err2 := r.db.WithContext(ctx).
			Where("sku = ? AND store_id = ?", sku, storeID).
			First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create product sku %s: %w", sku, err)
	}
	return &product, nil
}

func (r *inventoryRepository) AppendPriceHistory(ctx context.Context, productID uint64, priceUSD float64, stockStatus string, at time.Time) error {
	entry := model.PriceHistoryEntry{
		ProductID:   productID,
		PriceUSD:    priceUSD,
		StockStatus: stockStatus,
		ScrapedAt:   at,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("append history for product %d: %w", productID, err)
	}
	return nil
}

func (r *inventoryRepository) DeleteProduct(ctx context.Context, productID uint64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Product{}, productID).Error; err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	return nil
}

func (r *inventoryRepository) DeleteStore(ctx context.Context, storeID uint64) error {
	// the RESTRICT constraint rejects this while dependent products exist
	if err := r.db.WithContext(ctx).Delete(&model.Store{}, storeID).Error; err != nil {
		return fmt.Errorf("delete store %d: %w", storeID, err)
	}
	return nil
}
