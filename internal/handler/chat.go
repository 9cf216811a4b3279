package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
)

// ChatHandler serves the career chat endpoint. Chat is unmetered and leaves
// no history record; the client owns the conversation state.
type ChatHandler struct {
	dispatcher Dispatcher
	log        logger.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(dispatcher Dispatcher, log logger.Logger) *ChatHandler {
	return &ChatHandler{dispatcher: dispatcher, log: log}
}

type chatRequest struct {
	UserInput string `json:"userInput" binding:"required"`
}

// Chat dispatches a chat turn to the agent runner and relays the run output
// untouched: the reply text sits in output[0].content.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userInput is required"})
		return
	}

	output, err := h.dispatcher.RunTaskAndAwait(c.Request.Context(), domain.TaskCareerChat, gin.H{
		"userInput": req.UserInput,
	})
	if err != nil {
		h.log.Warn("Chat run failed", logger.Error(err))
		writeDispatchError(c, err)
		return
	}

	var body struct {
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(output, &body); err != nil || len(body.Output) == 0 {
		h.log.Error("Chat run returned malformed output", logger.Error(err))
		writeDispatchError(c, errMalformedOutput)
		return
	}

	c.JSON(http.StatusOK, gin.H{"output": body.Output})
}
