package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// HistoryRecord is one persisted feature invocation. Content is the
// feature-specific JSON payload; its shape depends on AIAgentType.
type HistoryRecord struct {
	ID          int64           `json:"id"`
	RecordID    string          `json:"recordId"`
	Content     json.RawMessage `json:"content"`
	UserEmail   string          `json:"userEmail"`
	AIAgentType string          `json:"aiAgentType"`
	MetaData    string          `json:"metaData,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// UsageRecord is the per-(user, feature) invocation counter.
type UsageRecord struct {
	ID         int64     `json:"id"`
	UserEmail  string    `json:"userEmail"`
	AgentType  AgentType `json:"agentType"`
	UsageCount int       `json:"usageCount"`
}

// Stats holds the aggregate counts served by the stats endpoint.
type Stats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalInteractions int64 `json:"totalInteractions"`
	ChatAgentCount    int64 `json:"chatAgentCount"`
	ResumeAgentCount  int64 `json:"resumeAgentCount"`
	RoadmapAgentCount int64 `json:"roadmapAgentCount"`
}
