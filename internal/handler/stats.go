package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
)

// statsCollector gathers the public landing-page counters.
type statsCollector interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

// StatsHandler serves the public usage statistics endpoint.
type StatsHandler struct {
	stats statsCollector
	log   logger.Logger
}

// NewStatsHandler creates the stats handler.
func NewStatsHandler(stats statsCollector, log logger.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, log: log}
}

// Get returns aggregate platform counters.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.stats.Collect(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to collect stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
