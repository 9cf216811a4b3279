package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/handler"
	"github.com/Fozan3060/ai-career-coach/internal/metrics"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// Handlers groups the API service handlers for route registration.
type Handlers struct {
	Chat        *handler.ChatHandler
	Resume      *handler.ResumeHandler
	Roadmap     *handler.RoadmapHandler
	CoverLetter *handler.CoverLetterHandler
	Usage       *handler.UsageHandler
	History     *handler.HistoryHandler
	Stats       *handler.StatsHandler
	User        *handler.UserHandler
	Health      *handler.HealthHandler
}

// SetupRoutes configures all API routes. Everything under /api/v1 except
// stats requires a valid session token.
func SetupRoutes(router *gin.Engine, h *Handlers, jwtSecret string, m *metrics.Metrics) {
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	if m != nil {
		v1.Use(m.Middleware())
	}

	// Public landing-page counters.
	v1.GET("/stats", h.Stats.Get)

	authed := v1.Group("")
	authed.Use(middleware.Auth(jwtSecret))

	authed.POST("/ai-career-chat", h.Chat.Chat)
	authed.POST("/ai-resume-agent", h.Resume.Analyze)
	authed.POST("/ai-roadmap-agent", h.Roadmap.Generate)
	authed.POST("/ai-cover-letter-generator", h.CoverLetter.Generate)

	authed.POST("/check-usage", h.Usage.Check)

	authed.POST("/history", h.History.Create)
	authed.PUT("/history", h.History.Update)
	authed.GET("/history", h.History.Get)

	authed.POST("/users", h.User.Ensure)
}
