package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
)

// StatsRepository serves the aggregate counts for the stats endpoint.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Collect gathers user and interaction counts in one statement.
func (r *StatsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM history),
			(SELECT COUNT(*) FROM history WHERE ai_agent_type = $1),
			(SELECT COUNT(*) FROM history WHERE ai_agent_type = $2),
			(SELECT COUNT(*) FROM history WHERE ai_agent_type = $3)`

	var stats domain.Stats
	err := r.db.QueryRowContext(ctx, query, domain.TagChat, domain.TagResume, domain.TagRoadmap).Scan(
		&stats.TotalUsers,
		&stats.TotalInteractions,
		&stats.ChatAgentCount,
		&stats.ResumeAgentCount,
		&stats.RoadmapAgentCount,
	)
	if err != nil {
		return nil, fmt.Errorf("collect stats: %w", err)
	}
	return &stats, nil
}
