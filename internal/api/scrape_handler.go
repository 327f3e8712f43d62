package api

import (
	"errors"
	"net/http"

	"github.com/RileyJaeke/microcenter-scraper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ScrapeHandler exposes the scrape trigger and its polling endpoint.
type ScrapeHandler struct {
	scrapes *service.ScrapeService
	logger  *logrus.Logger
}

func NewScrapeHandler(scrapes *service.ScrapeService, logger *logrus.Logger) *ScrapeHandler {
	return &ScrapeHandler{scrapes: scrapes, logger: logger}
}

type scrapeRequest struct {
	StoreID uint64 `json:"store_id" binding:"required"`
}

// TriggerScrape starts a scrape for one store. 409 when a job is already
// running; the running job is unaffected.
// POST /api/scrape {"store_id": 1}
func (h *ScrapeHandler) TriggerScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id is required"})
		return
	}

	started, message, err := h.scrapes.Start(c.Request.Context(), req.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown store"})
			return
		}
		h.logger.WithError(err).WithField("store_id", req.StoreID).Error("TriggerScrape failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !started {
		c.JSON(http.StatusConflict, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetStatus reports whether a scrape is running and the last completion
// message. The frontend polls this while a job runs.
// GET /api/status
func (h *ScrapeHandler) GetStatus(c *gin.Context) {
	isScraping, message := h.scrapes.Status()
	c.JSON(http.StatusOK, gin.H{
		"is_scraping": isScraping,
		"message":     message,
	})
}
