// Package agentrun is the API-side client for the agent runner: it dispatches
// a named task and polls the resulting run until a terminal status, turning
// the runner's asynchronous model into a single blocking call.
package agentrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
)

// Terminal outcomes of RunTaskAndAwait other than success.
var (
	// ErrTimeout means no terminal status was observed within the attempt
	// budget.
	ErrTimeout = errors.New("agent run timed out")
	// ErrRunFailed means the runner reported a terminal failure.
	ErrRunFailed = errors.New("agent run failed")
	// ErrMissingOutput means the run completed but carried no output payload.
	ErrMissingOutput = errors.New("agent run completed without output")
)

// defaultHTTPTimeout bounds each individual dispatch or poll request.
const defaultHTTPTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Host is the agent runner base URL, e.g. http://localhost:8288.
	Host string
	// SigningKey authenticates dispatch and poll requests.
	SigningKey string
	// PollInterval is the fixed delay between status queries.
	PollInterval time.Duration
	// MaxAttempts bounds the number of status queries per invocation.
	MaxAttempts int
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client dispatches tasks to the agent runner and awaits their results.
type Client struct {
	host         string
	signingKey   string
	pollInterval time.Duration
	maxAttempts  int
	httpClient   *http.Client
	log          logger.Logger
}

// NewClient creates a Client. Zero-valued options fall back to a 500ms poll
// interval and 60 attempts (about 30 seconds of waiting).
func NewClient(opts Options, log logger.Logger) *Client {
	if opts.PollInterval == 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 60
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		host:         opts.Host,
		signingKey:   opts.SigningKey,
		pollInterval: opts.PollInterval,
		maxAttempts:  opts.MaxAttempts,
		httpClient:   opts.HTTPClient,
		log:          log,
	}
}

// RunTaskAndAwait submits taskName with payload, polls the created run until
// it reaches a terminal state, and returns its output payload.
//
// Exactly one outcome is produced per invocation: the output on success,
// ErrRunFailed on a reported failure, ErrTimeout once the attempt budget is
// spent, ErrMissingOutput for a completed run without output, or a transport
// error. The wait honours ctx cancellation; dispatch is not idempotent, so a
// retried call creates a new run.
func (c *Client) RunTaskAndAwait(ctx context.Context, taskName string, payload any) (json.RawMessage, error) {
	runID, err := c.dispatch(ctx, taskName, payload)
	if err != nil {
		return nil, err
	}

	log := c.log.With(logger.String("task", taskName), logger.String("run_id", runID))
	log.Debug("Agent task dispatched")

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		run, pollErr := c.getRun(ctx, runID)
		if pollErr != nil {
			return nil, pollErr
		}

		switch {
		case run.Status == domain.RunCompleted:
			if len(run.Output) == 0 || string(run.Output) == "null" {
				return nil, ErrMissingOutput
			}
			return run.Output, nil
		case run.Status.Terminal():
			log.Warn("Agent run failed",
				logger.String("status", string(run.Status)),
				logger.String("run_error", run.Error),
			)
			return nil, fmt.Errorf("%w: %s", ErrRunFailed, run.Error)
		}

		if attempt == c.maxAttempts {
			break
		}
		if sleepErr := sleepCtx(ctx, c.pollInterval); sleepErr != nil {
			return nil, sleepErr
		}
	}

	log.Warn("Agent run polling exhausted", logger.Int("attempts", c.maxAttempts))
	return nil, ErrTimeout
}

// dispatch submits the event and returns the first run identifier.
func (c *Client) dispatch(ctx context.Context, taskName string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal task payload: %w", err)
	}

	body, err := json.Marshal(domain.DispatchRequest{Name: taskName, Data: data})
	if err != nil {
		return "", fmt.Errorf("marshal dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v1/events", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.signingKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("dispatch event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.responseError("dispatch", resp)
	}

	var ack domain.DispatchResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&ack); decodeErr != nil {
		return "", fmt.Errorf("decode dispatch response: %w", decodeErr)
	}
	if len(ack.IDs) == 0 {
		return "", errors.New("dispatch response carried no run ids")
	}
	return ack.IDs[0], nil
}

// getRun queries the current status of a run.
func (c *Client) getRun(ctx context.Context, runID string) (*domain.RunRecord, error) {
	url := fmt.Sprintf("%s/v1/events/%s/runs", c.host, runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.signingKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll run status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError("poll", resp)
	}

	var runs domain.RunsResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&runs); decodeErr != nil {
		return nil, fmt.Errorf("decode runs response: %w", decodeErr)
	}
	if len(runs.Data) == 0 {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return &runs.Data[0], nil
}

// responseError logs the upstream status and body detail, then returns a
// wrapped error.
func (c *Client) responseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.log.Error("Agent runner request failed",
		logger.String("op", op),
		logger.Int("status", resp.StatusCode),
		logger.String("body", string(body)),
	)
	return fmt.Errorf("%s request: unexpected status %d", op, resp.StatusCode)
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
