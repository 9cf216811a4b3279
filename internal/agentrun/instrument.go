package agentrun

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Fozan3060/ai-career-coach/internal/metrics"
)

// InstrumentedClient wraps a Client and records run outcomes and wall-clock
// dispatch-to-terminal time.
type InstrumentedClient struct {
	next    *Client
	metrics *metrics.Metrics
}

// Instrument wraps c with metrics collection.
func Instrument(c *Client, m *metrics.Metrics) *InstrumentedClient {
	return &InstrumentedClient{next: c, metrics: m}
}

// RunTaskAndAwait delegates to the underlying client and observes the result.
func (i *InstrumentedClient) RunTaskAndAwait(ctx context.Context, taskName string, payload any) (json.RawMessage, error) {
	start := time.Now()
	output, err := i.next.RunTaskAndAwait(ctx, taskName, payload)
	i.metrics.ObserveAgentRun(taskName, outcomeLabel(err), time.Since(start))
	return output, err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRunFailed):
		return "failed"
	case errors.Is(err, ErrMissingOutput):
		return "missing_output"
	default:
		return "error"
	}
}
