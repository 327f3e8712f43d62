package model

import (
	"time"

	"gorm.io/datatypes"
)

// Store is one Microcenter retail location. (name, city, state) is the
// natural key; MicrocenterID is the site's storeid search parameter.
type Store struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uk_store_location" json:"name"`
	City          string    `gorm:"column:city;type:varchar(100);not null;uniqueIndex:uk_store_location" json:"city"`
	State         string    `gorm:"column:state;type:varchar(2);not null;uniqueIndex:uk_store_location" json:"state"`
	MicrocenterID string    `gorm:"column:microcenter_id;type:varchar(8);not null" json:"-"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"-"`
}

// GPU is one graphics-card model+variant. FullName is the global dedup key;
// brand/manufacturer/model are parsed from it and may be "Unknown" until a
// later observation improves them.
type GPU struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Brand        string    `gorm:"column:brand;type:varchar(64)" json:"brand"`
	ModelName    string    `gorm:"column:model_name;type:varchar(100);not null" json:"model_name"`
	Manufacturer string    `gorm:"column:manufacturer;type:varchar(64)" json:"manufacturer"`
	FullName     string    `gorm:"column:full_name;type:varchar(256);uniqueIndex;not null" json:"full_name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"-"`
}

// Product is one GPU as listed at one store. SKU is Microcenter's listing id;
// the same SKU can appear at several stores, so (store_id, sku) is the key
// and each store gets its own price history.
type Product struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StoreID          uint64    `gorm:"column:store_id;type:bigint;not null;uniqueIndex:uk_product_store_sku" json:"store_id"`
	GPUID            uint64    `gorm:"column:gpu_id;type:bigint;not null;index" json:"gpu_id"`
	SKU              string    `gorm:"column:sku;type:varchar(32);not null;uniqueIndex:uk_product_store_sku" json:"sku"`
	ProductURL       string    `gorm:"column:product_url;type:varchar(512)" json:"product_url"`
	LastSeenImageURL string    `gorm:"column:last_seen_image_url;type:varchar(512)" json:"last_seen_image_url"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"-"`

	// a store cannot be deleted while products still reference it
	Store Store `gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	GPU   GPU   `gorm:"foreignKey:GPUID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// PriceHistoryEntry is one scraped observation. Append-only: rows are never
// updated, the current price/stock of a product is always derived from the
// newest entry.
type PriceHistoryEntry struct {
	ID          uint64    `gorm:"column:history_id;primaryKey;autoIncrement" json:"-"`
	ProductID   uint64    `gorm:"column:product_id;type:bigint;not null;index" json:"product_id"`
	PriceUSD    float64   `gorm:"column:price_usd;type:numeric(10,2);not null" json:"price_usd"`
	StockStatus string    `gorm:"column:stock_status;type:varchar(64)" json:"stock_status"`
	ScrapedAt   time.Time `gorm:"column:scraped_at;type:timestamp;not null" json:"scraped_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// ScrapeRun is the audit row for one scrape job.
type ScrapeRun struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID        string         `gorm:"column:run_id;type:varchar(64);uniqueIndex;not null" json:"run_id"`
	StoreID      uint64         `gorm:"column:store_id;type:bigint;not null;index" json:"store_id"`
	Status       string         `gorm:"column:status;type:varchar(16);default:running" json:"status"` // running/completed/failed
	ItemsScraped int            `gorm:"column:items_scraped;type:int;default:0" json:"items_scraped"`
	Failures     int            `gorm:"column:failures;type:int;default:0" json:"failures"`
	Message      string         `gorm:"column:message;type:varchar(512)" json:"message"`
	Errors       datatypes.JSON `gorm:"column:errors;type:jsonb" json:"errors"` // per-listing failure messages
	StartedAt    time.Time      `gorm:"column:started_at;type:timestamp;not null" json:"started_at"`
	FinishedAt   *time.Time     `gorm:"column:finished_at;type:timestamp" json:"finished_at"`
}

func (Store) TableName() string             { return "stores" }
func (GPU) TableName() string               { return "gpus" }
func (Product) TableName() string           { return "products" }
func (PriceHistoryEntry) TableName() string { return "price_history" }
func (ScrapeRun) TableName() string         { return "scrape_runs" }
