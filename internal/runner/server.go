package runner

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/metrics"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// Handler serves the dispatch and poll endpoints.
type Handler struct {
	registry *Registry
	executor *Executor
	log      logger.Logger
}

// NewHandler creates the runner HTTP handler.
func NewHandler(registry *Registry, executor *Executor, log logger.Logger) *Handler {
	return &Handler{registry: registry, executor: executor, log: log}
}

// Dispatch accepts an event, registers a run, and starts executing it on a
// goroutine. The response carries the run identifiers so callers can poll.
func (h *Handler) Dispatch(c *gin.Context) {
	var req domain.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !h.executor.Known(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task name"})
		return
	}

	runID := uuid.NewString()
	rec := &domain.RunRecord{
		RunID:    runID,
		EventID:  runID,
		TaskName: req.Name,
		Status:   domain.RunQueued,
		QueuedAt: time.Now().UTC(),
	}
	if err := h.registry.Create(c.Request.Context(), rec); err != nil {
		h.log.Error("Failed to register run", logger.Error(err), logger.String("task", req.Name))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register run"})
		return
	}

	go h.executor.Execute(runID, req.Name, req.Data)

	c.JSON(http.StatusOK, domain.DispatchResponse{IDs: []string{runID}})
}

// GetRuns returns the current state of the runs created for an event.
// Unknown or expired events yield an empty data array.
func (h *Handler) GetRuns(c *gin.Context) {
	eventID := c.Param("eventID")

	rec, err := h.registry.Get(c.Request.Context(), eventID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusOK, domain.RunsResponse{Data: []domain.RunRecord{}})
		return
	}
	if err != nil {
		h.log.Error("Failed to load run", logger.Error(err), logger.String("event_id", eventID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}

	c.JSON(http.StatusOK, domain.RunsResponse{Data: []domain.RunRecord{*rec}})
}

// SetupRoutes configures the runner API routes.
func SetupRoutes(router *gin.Engine, h *Handler, signingKey string, m *metrics.Metrics) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/v1")
	if m != nil {
		v1.Use(m.Middleware())
	}
	v1.Use(middleware.SigningKeyAuth(signingKey))
	v1.POST("/events", h.Dispatch)
	v1.GET("/events/:eventID/runs", h.GetRuns)
}
