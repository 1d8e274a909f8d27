// api/handlers/visit_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitepulse/api/models"
	"sitepulse/api/stats"
	"sitepulse/api/utils"
)

type VisitHandlers struct {
	Store  stats.VisitStore
	Engine *stats.Engine
}

func NewVisitHandlers(store stats.VisitStore, engine *stats.Engine) *VisitHandlers {
	return &VisitHandlers{
		Store:  store,
		Engine: engine,
	}
}

// RecordVisit ingests one page view. The page path is the only required
// field; visitor/session tokens are stored verbatim when present.
// Device and browser are classified here, once, and frozen into the
// record. The timestamp is always server-assigned.
func (h *VisitHandlers) RecordVisit(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page is required"})
		return
	}

	userAgent := c.Request.UserAgent()

	event := models.PageVisitEvent{
		ID:        uuid.New().String(),
		Page:      req.Page,
		VisitorID: req.VisitorID,
		SessionID: req.SessionID,
		UserAgent: userAgent,
		Referrer:  req.Referrer,
		Device:    utils.ClassifyDevice(userAgent),
		Browser:   utils.ClassifyBrowser(userAgent),
		Country:   clientCountry(c),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Store.InsertVisit(ctx, event); err != nil {
		log.Printf("Error inserting page visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record visit"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": event.ID})
}

// clientCountry reads the country resolved by the edge/proxy layer.
// The engine never geolocates on its own.
func clientCountry(c *gin.Context) string {
	if country := c.GetHeader("CF-IPCountry"); country != "" {
		return country
	}
	return c.GetHeader("X-Country")
}

// GetStats serves the dashboard. kind=summary (default) returns the
// period summary, kind=realtime the trailing 5-minute window.
func (h *VisitHandlers) GetStats(c *gin.Context) {
	kind := c.DefaultQuery("kind", "summary")

	switch kind {
	case "realtime":
		h.realtime(c)
	case "summary":
		h.summary(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'kind' parameter. Must be 'summary' or 'realtime'."})
	}
}

func (h *VisitHandlers) summary(c *gin.Context) {
	period := c.DefaultQuery("period", utils.PeriodToday)
	if !utils.IsValidPeriod(period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'period' parameter. Must be one of: today, week, month, year, all."})
		return
	}

	limit := stats.DefaultBreakdownLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		parsedLimit, err := strconv.Atoi(limitParam)
		if err != nil || parsedLimit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsedLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.Engine.Summarize(ctx, period, limit)
	if err != nil {
		log.Printf("Error computing %s summary: %v", period, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visit statistics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *VisitHandlers) realtime(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	realtime, err := h.Engine.ActiveNow(ctx)
	if err != nil {
		log.Printf("Error computing realtime stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve realtime statistics"})
		return
	}

	c.JSON(http.StatusOK, realtime)
}
