package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// RoadmapHandler serves the learning roadmap endpoint.
type RoadmapHandler struct {
	dispatcher Dispatcher
	history    historyWriter
	log        logger.Logger
}

// NewRoadmapHandler creates the roadmap handler.
func NewRoadmapHandler(dispatcher Dispatcher, history historyWriter, log logger.Logger) *RoadmapHandler {
	return &RoadmapHandler{dispatcher: dispatcher, history: history, log: log}
}

type roadmapRequest struct {
	RoadmapID string `json:"roadmapId" binding:"required"`
	UserInput string `json:"userInput" binding:"required"`
}

// Generate runs the roadmap agent for a position or skill, persists the
// parsed flowchart under the client-chosen roadmap id, and returns it.
func (h *RoadmapHandler) Generate(c *gin.Context) {
	var req roadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roadmapId and userInput are required"})
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	output, err := h.dispatcher.RunTaskAndAwait(c.Request.Context(), domain.TaskRoadmapGenerator, gin.H{
		"roadmapId": req.RoadmapID,
		"userInput": req.UserInput,
		"userEmail": claims.Email,
	})
	if err != nil {
		h.log.Warn("Roadmap run failed", logger.Error(err), logger.String("roadmap_id", req.RoadmapID))
		writeDispatchError(c, err)
		return
	}

	roadmap, err := parseModelJSON(output)
	if err != nil {
		h.log.Error("Roadmap run returned malformed output", logger.Error(err), logger.String("roadmap_id", req.RoadmapID))
		writeDispatchError(c, errMalformedOutput)
		return
	}

	if _, err := h.history.Create(c.Request.Context(), &domain.HistoryRecord{
		RecordID:    req.RoadmapID,
		Content:     roadmap,
		UserEmail:   claims.Email,
		AIAgentType: domain.TagRoadmap,
	}); err != nil {
		h.log.Error("Failed to persist roadmap", logger.Error(err), logger.String("roadmap_id", req.RoadmapID))
	}

	c.JSON(http.StatusOK, gin.H{"output": roadmap})
}
