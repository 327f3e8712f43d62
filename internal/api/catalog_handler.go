package api

import (
	"net/http"
	"strconv"

	"github.com/RileyJaeke/microcenter-scraper/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogHandler serves the read-only catalog endpoints used by the
// frontend.
type CatalogHandler struct {
	catalog repository.CatalogRepository
	logger  *logrus.Logger
}

func NewCatalogHandler(db *gorm.DB, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: repository.NewCatalogRepository(db),
		logger:  logger,
	}
}

// ListGPUs returns every product with its latest price/stock observation.
// GET /api/gpus
func (h *CatalogHandler) ListGPUs(c *gin.Context) {
	rows, err := h.catalog.ListCurrentGPUs(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListGPUs failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []repository.CurrentGPURow{}
	}

	// the catalog changes under a running scrape, never let clients cache it
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.JSON(http.StatusOK, rows)
}

// GetHistory returns all observations for one product, oldest first.
// GET /api/history/:product_id
func (h *CatalogHandler) GetHistory(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be numeric"})
		return
	}

	points, err := h.catalog.ListHistory(c.Request.Context(), productID)
	if err != nil {
		h.logger.WithError(err).WithField("product_id", productID).Error("GetHistory failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if points == nil {
		points = []repository.HistoryPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// ListStores returns all known store locations.
// GET /api/stores
func (h *CatalogHandler) ListStores(c *gin.Context) {
	stores, err := h.catalog.ListStores(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListStores failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stores)
}
