package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// userStore registers users on first sight.
type userStore interface {
	EnsureExists(ctx context.Context, name, email string) (bool, error)
}

// UserHandler provisions user rows from session claims.
type UserHandler struct {
	users userStore
	log   logger.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users userStore, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Ensure creates the user row for the session identity if it does not exist.
// Called by the client after sign-in; idempotent.
func (h *UserHandler) Ensure(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	created, err := h.users.EnsureExists(c.Request.Context(), claims.Name, claims.Email)
	if err != nil {
		h.log.Error("Failed to ensure user", logger.Error(err), logger.String("user_email", claims.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "created": created})
}
