package domain

import (
	"encoding/json"
	"time"
)

// RunStatus is the lifecycle state of a dispatched agent run. A run moves
// from Queued through Running to exactly one terminal state and never
// regresses.
type RunStatus string

const (
	// RunQueued means the run has been accepted but not started.
	RunQueued RunStatus = "Queued"
	// RunRunning means the agent is executing.
	RunRunning RunStatus = "Running"
	// RunCompleted is the terminal success state.
	RunCompleted RunStatus = "Completed"
	// RunFailed is the terminal failure state.
	RunFailed RunStatus = "Failed"
	// RunCancelled is the terminal state for runs stopped by the runner.
	RunCancelled RunStatus = "Cancelled"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}

// RunRecord is a single agent run as stored by the runner and returned to
// pollers. Output is set only once the run completes.
type RunRecord struct {
	RunID    string          `json:"run_id"`
	EventID  string          `json:"event_id"`
	TaskName string          `json:"task_name"`
	Status   RunStatus       `json:"status"`
	Output   json.RawMessage `json:"output,omitempty"`
	Error    string          `json:"error,omitempty"`
	QueuedAt time.Time       `json:"queued_at"`
	EndedAt  *time.Time      `json:"ended_at,omitempty"`
}

// DispatchRequest is the body of POST /v1/events.
type DispatchRequest struct {
	Name string          `json:"name" binding:"required"`
	Data json.RawMessage `json:"data"`
}

// DispatchResponse acknowledges a dispatch with the created run identifiers.
type DispatchResponse struct {
	IDs []string `json:"ids"`
}

// RunsResponse is the body of GET /v1/events/:eventID/runs.
type RunsResponse struct {
	Data []RunRecord `json:"data"`
}
