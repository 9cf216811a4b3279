package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

// CoverLetterHandler serves the cover letter endpoint.
type CoverLetterHandler struct {
	dispatcher Dispatcher
	history    historyWriter
	log        logger.Logger
}

// NewCoverLetterHandler creates the cover letter handler.
func NewCoverLetterHandler(dispatcher Dispatcher, history historyWriter, log logger.Logger) *CoverLetterHandler {
	return &CoverLetterHandler{dispatcher: dispatcher, history: history, log: log}
}

type coverLetterRequest struct {
	FullName         string `json:"fullName" binding:"required"`
	JobTitle         string `json:"jobTitle" binding:"required"`
	CompanyName      string `json:"companyName" binding:"required"`
	ResumeHighlights string `json:"resumeHighlights" binding:"required"`
	JobDescription   string `json:"jobDescription" binding:"required"`
}

// coverLetterContent is what gets persisted: the form inputs alongside the
// generated letter, so the history view can re-render both.
type coverLetterContent struct {
	FormData        coverLetterRequest `json:"formData"`
	GeneratedLetter string             `json:"generatedLetter"`
}

// Generate runs the cover letter agent, persists the letter together with the
// form data under a fresh record id, and returns the letter text.
func (h *CoverLetterHandler) Generate(c *gin.Context) {
	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all cover letter fields are required"})
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	output, err := h.dispatcher.RunTaskAndAwait(c.Request.Context(), domain.TaskCoverLetterGenerator, gin.H{
		"fullName":         req.FullName,
		"jobTitle":         req.JobTitle,
		"companyName":      req.CompanyName,
		"resumeHighlights": req.ResumeHighlights,
		"jobDescription":   req.JobDescription,
		"userEmail":        claims.Email,
	})
	if err != nil {
		h.log.Warn("Cover letter run failed", logger.Error(err))
		writeDispatchError(c, err)
		return
	}

	// The cover letter task returns plain text, JSON-encoded.
	var letter string
	if err := json.Unmarshal(output, &letter); err != nil || letter == "" {
		h.log.Error("Cover letter run returned malformed output", logger.Error(err))
		writeDispatchError(c, errMalformedOutput)
		return
	}

	content, err := json.Marshal(coverLetterContent{FormData: req, GeneratedLetter: letter})
	if err != nil {
		h.log.Error("Failed to encode cover letter record", logger.Error(err))
	} else if _, err := h.history.Create(c.Request.Context(), &domain.HistoryRecord{
		RecordID:    uuid.NewString(),
		Content:     content,
		UserEmail:   claims.Email,
		AIAgentType: domain.TagCoverLetter,
	}); err != nil {
		h.log.Error("Failed to persist cover letter", logger.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"output": letter})
}
