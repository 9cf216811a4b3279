package runner_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/runner"
)

func newTestRegistry(t *testing.T) *runner.Registry {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return runner.NewRegistry(rdb, time.Hour)
}

func queuedRun(runID string) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:    runID,
		EventID:  runID,
		TaskName: domain.TaskCareerChat,
		Status:   domain.RunQueued,
		QueuedAt: time.Now().UTC(),
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Create(ctx, queuedRun("run-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec, err := reg.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Status != domain.RunQueued {
		t.Errorf("Status = %q, want %q", rec.Status, domain.RunQueued)
	}
	if rec.TaskName != domain.TaskCareerChat {
		t.Errorf("TaskName = %q, want %q", rec.TaskName, domain.TaskCareerChat)
	}
}

func TestRegistry_GetUnknownRun(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_LifecycleTransitions(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Create(ctx, queuedRun("run-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := reg.SetRunning(ctx, "run-1"); err != nil {
		t.Fatalf("SetRunning() error = %v", err)
	}
	rec, _ := reg.Get(ctx, "run-1")
	if rec.Status != domain.RunRunning {
		t.Fatalf("Status = %q, want %q", rec.Status, domain.RunRunning)
	}

	output := json.RawMessage(`{"done":true}`)
	if err := reg.SetCompleted(ctx, "run-1", output); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}
	rec, _ = reg.Get(ctx, "run-1")
	if rec.Status != domain.RunCompleted {
		t.Fatalf("Status = %q, want %q", rec.Status, domain.RunCompleted)
	}
	if string(rec.Output) != string(output) {
		t.Errorf("Output = %s, want %s", rec.Output, output)
	}
	if rec.EndedAt == nil {
		t.Error("EndedAt is nil, want a timestamp")
	}
}

func TestRegistry_TerminalStatusNeverRegresses(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Create(ctx, queuedRun("run-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := reg.SetFailed(ctx, "run-1", "boom"); err != nil {
		t.Fatalf("SetFailed() error = %v", err)
	}

	// Late transitions are silently ignored once the run is terminal.
	if err := reg.SetRunning(ctx, "run-1"); err != nil {
		t.Fatalf("SetRunning() error = %v", err)
	}
	if err := reg.SetCompleted(ctx, "run-1", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}

	rec, err := reg.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Status != domain.RunFailed {
		t.Errorf("Status = %q, want %q", rec.Status, domain.RunFailed)
	}
	if rec.Error != "boom" {
		t.Errorf("Error = %q, want boom", rec.Error)
	}
}

func TestRegistry_RecordsExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg := runner.NewRegistry(rdb, time.Minute)
	ctx := context.Background()

	if err := reg.Create(ctx, queuedRun("run-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := reg.Get(ctx, "run-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}
