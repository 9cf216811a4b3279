package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// historyStore is the full history surface the CRUD handler needs.
type historyStore interface {
	historyWriter
	ReplaceContent(ctx context.Context, recordID string, content json.RawMessage) (int64, error)
	GetByRecordID(ctx context.Context, recordID string) (*domain.HistoryRecord, error)
	ListByUserEmail(ctx context.Context, userEmail string) ([]domain.HistoryRecord, error)
}

// HistoryHandler serves the history CRUD endpoints.
type HistoryHandler struct {
	history historyStore
	log     logger.Logger
}

// NewHistoryHandler creates the history handler.
func NewHistoryHandler(history historyStore, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, log: log}
}

type historyCreateRequest struct {
	RecordID    string          `json:"recordId" binding:"required"`
	Content     json.RawMessage `json:"content"`
	AIAgentType string          `json:"aiAgentType"`
	MetaData    string          `json:"metaData"`
}

// Create inserts a history record owned by the session user.
func (h *HistoryHandler) Create(c *gin.Context) {
	var req historyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recordId is required"})
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	content := req.Content
	if len(content) == 0 {
		content = json.RawMessage("null")
	}

	id, err := h.history.Create(c.Request.Context(), &domain.HistoryRecord{
		RecordID:    req.RecordID,
		Content:     content,
		UserEmail:   claims.Email,
		AIAgentType: req.AIAgentType,
		MetaData:    req.MetaData,
	})
	if err != nil {
		h.log.Error("Failed to create history record", logger.Error(err), logger.String("record_id", req.RecordID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create history record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

type historyUpdateRequest struct {
	RecordID string          `json:"recordId" binding:"required"`
	Content  json.RawMessage `json:"content" binding:"required"`
}

// Update replaces the content of every record matching the key. A key that
// matches nothing still succeeds with zero rows updated; the client treats
// the write as best-effort.
func (h *HistoryHandler) Update(c *gin.Context) {
	var req historyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recordId and content are required"})
		return
	}

	rows, err := h.history.ReplaceContent(c.Request.Context(), req.RecordID, req.Content)
	if err != nil {
		h.log.Error("Failed to update history record", logger.Error(err), logger.String("record_id", req.RecordID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update history record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": rows})
}

// Get serves two reads behind one route: with a recordId query parameter it
// returns that record (an empty object when unknown), without one it lists
// the session user's records newest first.
func (h *HistoryHandler) Get(c *gin.Context) {
	recordID := c.Query("recordId")
	if recordID != "" {
		h.getByRecordID(c, recordID)
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	records, err := h.history.ListByUserEmail(c.Request.Context(), claims.Email)
	if err != nil {
		h.log.Error("Failed to list history", logger.Error(err), logger.String("user_email", claims.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
		return
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}

	c.JSON(http.StatusOK, records)
}

func (h *HistoryHandler) getByRecordID(c *gin.Context, recordID string) {
	rec, err := h.history.GetByRecordID(c.Request.Context(), recordID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		h.log.Error("Failed to fetch history record", logger.Error(err), logger.String("record_id", recordID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history record"})
		return
	}

	c.JSON(http.StatusOK, rec)
}
