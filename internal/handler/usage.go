package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/metrics"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// usageConsumer is the slice of the usage store the handler needs.
type usageConsumer interface {
	Consume(ctx context.Context, userEmail string, agentType domain.AgentType, limit int) (bool, error)
}

// UsageHandler serves the pre-flight usage check for metered agents.
type UsageHandler struct {
	usage     usageConsumer
	freeLimit int
	metrics   *metrics.Metrics
	log       logger.Logger
}

// NewUsageHandler creates the usage handler. freeLimit is the lifetime number
// of uses granted per (user, agent) pair on the free tier.
func NewUsageHandler(usage usageConsumer, freeLimit int, m *metrics.Metrics, log logger.Logger) *UsageHandler {
	return &UsageHandler{usage: usage, freeLimit: freeLimit, metrics: m, log: log}
}

// usageRequest keeps the original wire contract: userEmail must be present
// but is never trusted — identity comes from the session.
type usageRequest struct {
	UserEmail string `json:"userEmail" binding:"required"`
	AgentType string `json:"agentType" binding:"required"`
}

// Check records one attempted use and reports whether the caller may proceed.
// The session owns both identity and entitlement: premium sessions bypass the
// limit, free sessions get a counted slot if one remains. Ledger errors deny
// rather than fail open.
func (h *UsageHandler) Check(c *gin.Context) {
	var req usageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userEmail and agentType are required"})
		return
	}
	if !domain.ValidMeteredAgentType(req.AgentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown agentType"})
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	limit := h.freeLimit
	if claims.Premium() {
		limit = 0
	}

	canUse, err := h.usage.Consume(c.Request.Context(), claims.Email, domain.AgentType(req.AgentType), limit)
	if err != nil {
		h.log.Error("Usage consume failed, denying",
			logger.Error(err), logger.String("agent_type", req.AgentType))
		canUse = false
	}
	if !canUse {
		h.metrics.ObserveUsageDenied(req.AgentType)
	}

	c.JSON(http.StatusOK, gin.H{"canUse": canUse})
}
