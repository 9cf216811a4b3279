// Package metrics exports Prometheus metrics for both services.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AgentRunsTotal   *prometheus.CounterVec
	AgentRunDuration *prometheus.HistogramVec

	UsageDeniedTotal *prometheus.CounterVec
}

// New registers and returns the collectors for the named service. Hyphens in
// the service name are mapped to underscores to keep metric names legal.
func New(service string) *Metrics {
	service = strings.ReplaceAll(service, "-", "_")
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: service + "_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    service + "_http_request_duration_seconds",
			Help:    "HTTP request duration; feature endpoints include agent wait time",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "path"}),

		AgentRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: service + "_agent_runs_total",
			Help: "Agent runs by task and outcome",
		}, []string{"task", "outcome"}),

		AgentRunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    service + "_agent_run_duration_seconds",
			Help:    "Time from dispatch to terminal run status",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"task"}),

		UsageDeniedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: service + "_usage_denied_total",
			Help: "Usage checks denied by the free-tier limit",
		}, []string{"agent_type"}),
	}
}

// Middleware records request counts and durations for every route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.RequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// ObserveAgentRun records one dispatched run's outcome and wall-clock time.
// Safe on a nil receiver so handlers can run unmetered in tests.
func (m *Metrics) ObserveAgentRun(task, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AgentRunsTotal.WithLabelValues(task, outcome).Inc()
	m.AgentRunDuration.WithLabelValues(task).Observe(elapsed.Seconds())
}

// ObserveUsageDenied records a quota denial. Safe on a nil receiver.
func (m *Metrics) ObserveUsageDenied(agentType string) {
	if m == nil {
		return
	}
	m.UsageDeniedTotal.WithLabelValues(agentType).Inc()
}

// Handler returns the Prometheus scrape handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
