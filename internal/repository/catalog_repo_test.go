package repository

import (
	"context"
	"testing"
	"time"

	"github.com/RileyJaeke/microcenter-scraper/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCurrentGPUs(t *testing.T) {
	db := newTestDB(t)
	inventory := NewInventoryRepository(db)
	catalog := NewCatalogRepository(db)
	ctx := context.Background()

	store, err := inventory.GetOrCreateStore(ctx, "Denver", "Denver", "CO", "181")
	require.NoError(t, err)

	gpuA, err := inventory.GetOrCreateGPU(ctx, model.GPUDetails{
		Brand: "MSI", ModelName: "GeForce RTX 4090", Manufacturer: "NVIDIA",
	}, "MSI GeForce RTX 4090 Suprim")
	require.NoError(t, err)
	gpuB, err := inventory.GetOrCreateGPU(ctx, model.GPUDetails{
		Brand: "Sapphire", ModelName: "Radeon RX 7700 XT", Manufacturer: "AMD",
	}, "Sapphire Radeon RX 7700 XT Pulse")
	require.NoError(t, err)

	prodA, err := inventory.GetOrCreateProduct(ctx, store.ID, gpuA.ID, "111111", "/a", "a.jpg")
	require.NoError(t, err)
	prodB, err := inventory.GetOrCreateProduct(ctx, store.ID, gpuB.ID, "222222", "/b", "b.jpg")
	require.NoError(t, err)

	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, inventory.AppendPriceHistory(ctx, prodA.ID, 1999.99, "IN STOCK", base))
	require.NoError(t, inventory.AppendPriceHistory(ctx, prodA.ID, 1899.99, "25+ IN STOCK", base.Add(time.Hour)))
	require.NoError(t, inventory.AppendPriceHistory(ctx, prodB.ID, 449.99, "SOLD OUT", base))

	rows, err := catalog.ListCurrentGPUs(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2, "one row per product")

	// price descending puts the 4090 first
	first := rows[0]
	assert.Equal(t, prodA.ID, first.ProductID)
	assert.Equal(t, "MSI", first.Brand)
	assert.Equal(t, "GeForce RTX 4090", first.ModelName)
	assert.Equal(t, "NVIDIA", first.Manufacturer)
	assert.Equal(t, "Denver", first.StoreName)
	assert.Equal(t, 1899.99, first.PriceUSD, "only the latest observation shows")
	assert.Equal(t, "25+ IN STOCK", first.StockStatus)

	second := rows[1]
	assert.Equal(t, prodB.ID, second.ProductID)
	assert.Equal(t, 449.99, second.PriceUSD)
	assert.Equal(t, "SOLD OUT", second.StockStatus)
}

func TestListCurrentGPUsSameTimestampUsesNewestEntry(t *testing.T) {
	db := newTestDB(t)
	inventory := NewInventoryRepository(db)
	catalog := NewCatalogRepository(db)
	ctx := context.Background()

	store, err := inventory.GetOrCreateStore(ctx, "Dallas", "Dallas", "TX", "131")
	require.NoError(t, err)
	gpu, err := inventory.GetOrCreateGPU(ctx, model.GPUDetails{
		Brand: "Zotac", ModelName: "GeForce RTX 4070", Manufacturer: "NVIDIA",
	}, "Zotac GeForce RTX 4070 Twin Edge")
	require.NoError(t, err)
	product, err := inventory.GetOrCreateProduct(ctx, store.ID, gpu.ID, "333333", "/z", "")
	require.NoError(t, err)

	at := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, inventory.AppendPriceHistory(ctx, product.ID, 599.99, "IN STOCK", at))
	require.NoError(t, inventory.AppendPriceHistory(ctx, product.ID, 579.99, "IN STOCK", at))

	rows, err := catalog.ListCurrentGPUs(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 579.99, rows[0].PriceUSD, "id breaks the timestamp tie")
}

func TestListStoresAndGetStore(t *testing.T) {
	db := newTestDB(t)
	inventory := NewInventoryRepository(db)
	catalog := NewCatalogRepository(db)
	ctx := context.Background()

	created, err := inventory.GetOrCreateStore(ctx, "Tustin", "Tustin", "CA", "101")
	require.NoError(t, err)
	_, err = inventory.GetOrCreateStore(ctx, "Denver", "Denver", "CO", "181")
	require.NoError(t, err)

	stores, err := catalog.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	store, err := catalog.GetStore(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tustin", store.Name)
	assert.Equal(t, "101", store.MicrocenterID)

	_, err = catalog.GetStore(ctx, 9999)
	assert.Error(t, err)
}
