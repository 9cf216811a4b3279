package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
)

// UsageRepository manages the per-(user, feature) usage counters.
type UsageRepository struct {
	db *sql.DB
}

// NewUsageRepository creates a new repository.
func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Consume records one permitted use for (userEmail, agentType) and reports
// whether the attempt is allowed. The counter lives behind a unique
// (user_email, agent_type) constraint, so check and increment happen in a
// single guarded upsert; concurrent requests cannot lose updates or slip past
// the limit.
//
// Premium callers pass limit <= 0 and are always allowed.
func (r *UsageRepository) Consume(ctx context.Context, userEmail string, agentType domain.AgentType, limit int) (bool, error) {
	if limit <= 0 {
		query := `
			INSERT INTO user_usage (user_email, agent_type, usage_count)
			VALUES ($1, $2, 1)
			ON CONFLICT (user_email, agent_type)
			DO UPDATE SET usage_count = user_usage.usage_count + 1
			RETURNING usage_count`
		var count int
		if err := r.db.QueryRowContext(ctx, query, userEmail, string(agentType)).Scan(&count); err != nil {
			return false, fmt.Errorf("consume usage: %w", err)
		}
		return true, nil
	}

	// The WHERE guard makes the conflicting update a no-op once the limit is
	// reached, in which case no row comes back.
	query := `
		INSERT INTO user_usage (user_email, agent_type, usage_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_email, agent_type)
		DO UPDATE SET usage_count = user_usage.usage_count + 1
		WHERE user_usage.usage_count < $3
		RETURNING usage_count`

	var count int
	err := r.db.QueryRowContext(ctx, query, userEmail, string(agentType), limit).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume usage: %w", err)
	}
	return true, nil
}

// Get returns the usage record for (userEmail, agentType).
// Returns domain.ErrNotFound when no attempt has been recorded yet.
func (r *UsageRepository) Get(ctx context.Context, userEmail string, agentType domain.AgentType) (*domain.UsageRecord, error) {
	query := `
		SELECT id, user_email, agent_type, usage_count
		FROM user_usage
		WHERE user_email = $1 AND agent_type = $2`

	var rec domain.UsageRecord
	err := r.db.QueryRowContext(ctx, query, userEmail, string(agentType)).Scan(
		&rec.ID, &rec.UserEmail, &rec.AgentType, &rec.UsageCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return &rec, nil
}
