package handler

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
	"github.com/Fozan3060/ai-career-coach/internal/pdftext"
	"github.com/Fozan3060/ai-career-coach/internal/storage"
)

// maxResumeSize bounds the uploaded PDF; anything larger is rejected before
// text extraction.
const maxResumeSize = 10 << 20

// historyWriter is the slice of the history store the agent handlers need.
type historyWriter interface {
	Create(ctx context.Context, rec *domain.HistoryRecord) (int64, error)
}

// TextExtractor pulls plain text from an uploaded PDF.
type TextExtractor func(data []byte) (string, error)

// ResumeHandler serves the resume analysis endpoint.
type ResumeHandler struct {
	dispatcher Dispatcher
	history    historyWriter
	uploader   storage.Uploader
	extract    TextExtractor
	log        logger.Logger
}

// NewResumeHandler creates the resume handler. uploader may be nil when
// object storage is disabled; analysis still runs, the PDF just isn't kept.
// A nil extract falls back to PDF text extraction.
func NewResumeHandler(dispatcher Dispatcher, history historyWriter, uploader storage.Uploader, extract TextExtractor, log logger.Logger) *ResumeHandler {
	if extract == nil {
		extract = pdftext.Extract
	}
	return &ResumeHandler{dispatcher: dispatcher, history: history, uploader: uploader, extract: extract, log: log}
}

// Analyze accepts a multipart PDF upload, extracts its text, runs the resume
// analyzer agent, persists the parsed report, and returns it.
func (h *ResumeHandler) Analyze(c *gin.Context) {
	recordID := c.PostForm("recordId")
	if recordID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recordId is required"})
		return
	}

	file, header, err := c.Request.FormFile("resumeFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeFile is required"})
		return
	}
	defer file.Close()

	if header.Size > maxResumeSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxResumeSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read resume file"})
		return
	}

	text, err := h.extract(data)
	if err != nil {
		h.log.Warn("Resume text extraction failed", logger.Error(err), logger.String("record_id", recordID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not extract text from PDF"})
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	metaData := h.uploadResume(c.Request.Context(), recordID, data)

	output, err := h.dispatcher.RunTaskAndAwait(c.Request.Context(), domain.TaskResumeAnalyzer, gin.H{
		"recordId":         recordID,
		"base64ResumeFile": base64.StdEncoding.EncodeToString(data),
		"pdfText":          text,
		"aiAgentType":      domain.TagResume,
		"userEmail":        claims.Email,
	})
	if err != nil {
		h.log.Warn("Resume analysis run failed", logger.Error(err), logger.String("record_id", recordID))
		writeDispatchError(c, err)
		return
	}

	report, err := parseModelJSON(output)
	if err != nil {
		h.log.Error("Resume analysis returned malformed output", logger.Error(err), logger.String("record_id", recordID))
		writeDispatchError(c, errMalformedOutput)
		return
	}

	if _, err := h.history.Create(c.Request.Context(), &domain.HistoryRecord{
		RecordID:    recordID,
		Content:     report,
		UserEmail:   claims.Email,
		AIAgentType: domain.TagResume,
		MetaData:    metaData,
	}); err != nil {
		// The analysis already succeeded; losing the record is not worth a 500.
		h.log.Error("Failed to persist resume analysis", logger.Error(err), logger.String("record_id", recordID))
	}

	c.JSON(http.StatusOK, gin.H{"output": report})
}

// uploadResume stores the original PDF and returns its public URL, or ""
// when storage is disabled or the upload fails.
func (h *ResumeHandler) uploadResume(ctx context.Context, recordID string, data []byte) string {
	if h.uploader == nil {
		return ""
	}
	url, err := h.uploader.Upload(ctx, "resumes/"+recordID+".pdf", data, "application/pdf")
	if err != nil {
		h.log.Warn("Resume upload failed", logger.Error(err), logger.String("record_id", recordID))
		return ""
	}
	return url
}
