// Package handler implements the API service HTTP handlers.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/agentrun"
	"github.com/Fozan3060/ai-career-coach/internal/agents"
)

// Canned assistant-style fallback messages. They are embedded in error
// responses so the UI can render them as if they were real replies.
const (
	timeoutFallback = "Sorry, I took too long to respond. Please try again in a moment."
	genericFallback = "Sorry, I'm having trouble connecting right now. Please try again in a moment."
)

// errMalformedOutput reports a completed run whose output does not match the
// task's declared shape.
var errMalformedOutput = errors.New("agent returned malformed output")

// Dispatcher submits a task to the agent runner and blocks until its run
// reaches a terminal state.
type Dispatcher interface {
	RunTaskAndAwait(ctx context.Context, taskName string, payload any) (json.RawMessage, error)
}

// writeDispatchError maps dispatch/poll failures onto the HTTP contract:
// 408 for a poll timeout, 500 for everything else (run failure, missing
// output, transport errors). Both carry a fallback message shaped like an
// assistant reply.
func writeDispatchError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := genericFallback
	if errors.Is(err, agentrun.ErrTimeout) {
		status = http.StatusRequestTimeout
		message = timeoutFallback
	}

	c.JSON(status, gin.H{
		"error":  err.Error(),
		"output": []gin.H{{"content": message}},
	})
}

// parseModelJSON extracts the JSON object a structured agent produced. The
// run output is usually a JSON-encoded string of model text, possibly wrapped
// in markdown fences; raw objects pass through untouched.
func parseModelJSON(output json.RawMessage) (json.RawMessage, error) {
	if len(output) == 0 {
		return nil, errors.New("empty agent output")
	}

	if output[0] != '"' {
		if !json.Valid(output) {
			return nil, errors.New("agent output is not valid JSON")
		}
		return output, nil
	}

	var text string
	if err := json.Unmarshal(output, &text); err != nil {
		return nil, fmt.Errorf("decode agent output: %w", err)
	}

	cleaned := agents.CleanJSON(text)
	if !json.Valid([]byte(cleaned)) {
		return nil, errors.New("agent output is not valid JSON")
	}
	return json.RawMessage(cleaned), nil
}
