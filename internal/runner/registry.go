// Package runner implements the agent execution service: it accepts
// dispatched events, executes the named agent task asynchronously, and serves
// run status to pollers.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
)

// connectionTimeout bounds the Redis ping at startup.
const connectionTimeout = 5 * time.Second

// NewRedisClient creates and verifies a Redis client.
func NewRedisClient(address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Registry stores run records in Redis. Records expire after the configured
// TTL; callers are expected to poll a run to its terminal state well within
// that window.
type Registry struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRegistry creates a run registry.
func NewRegistry(rdb *redis.Client, ttl time.Duration) *Registry {
	return &Registry{rdb: rdb, ttl: ttl}
}

func runKey(runID string) string {
	return "agentrun:" + runID
}

// Create stores a new run record.
func (r *Registry) Create(ctx context.Context, rec *domain.RunRecord) error {
	return r.save(ctx, rec)
}

// Get returns the run record for runID, or domain.ErrNotFound when the run
// is unknown or expired.
func (r *Registry) Get(ctx context.Context, runID string) (*domain.RunRecord, error) {
	data, err := r.rdb.Get(ctx, runKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	var rec domain.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &rec, nil
}

// SetRunning marks the run as executing. Terminal runs are left untouched so
// status never regresses.
func (r *Registry) SetRunning(ctx context.Context, runID string) error {
	return r.transition(ctx, runID, func(rec *domain.RunRecord) {
		rec.Status = domain.RunRunning
	})
}

// SetCompleted stores the output and marks the run completed.
func (r *Registry) SetCompleted(ctx context.Context, runID string, output json.RawMessage) error {
	return r.transition(ctx, runID, func(rec *domain.RunRecord) {
		now := time.Now().UTC()
		rec.Status = domain.RunCompleted
		rec.Output = output
		rec.EndedAt = &now
	})
}

// SetFailed records the failure reason and marks the run failed.
func (r *Registry) SetFailed(ctx context.Context, runID, reason string) error {
	return r.transition(ctx, runID, func(rec *domain.RunRecord) {
		now := time.Now().UTC()
		rec.Status = domain.RunFailed
		rec.Error = reason
		rec.EndedAt = &now
	})
}

func (r *Registry) transition(ctx context.Context, runID string, mutate func(*domain.RunRecord)) error {
	rec, err := r.Get(ctx, runID)
	if err != nil {
		return err
	}
	if rec.Status.Terminal() {
		return nil
	}
	mutate(rec)
	return r.save(ctx, rec)
}

func (r *Registry) save(ctx context.Context, rec *domain.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", rec.RunID, err)
	}
	if err := r.rdb.Set(ctx, runKey(rec.RunID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store run %s: %w", rec.RunID, err)
	}
	return nil
}
