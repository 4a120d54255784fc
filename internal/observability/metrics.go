package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects prometheus counters for the HTTP surface and the upstream
// backend calls.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpErrors      *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
}

// NewMetrics initializes a registry and registers all collectors on it.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_http_requests_total",
			Help: "Requests served, by path, method and status.",
		}, []string{"path", "method", "status"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_http_errors_total",
			Help: "Error responses, by path, method and error code.",
		}, []string{"path", "method", "code"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_auth_attempts_total",
			Help: "Login and register attempts, by operation and result.",
		}, []string{"operation", "result"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_upstream_requests_total",
			Help: "Calls to the content backend, by operation and status.",
		}, []string{"operation", "status"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engage_upstream_latency_seconds",
			Help:    "Latency of content backend calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.httpRequests, m.httpErrors, m.authAttempts, m.upstreamCalls, m.upstreamLatency)
	return m
}

// RecordRequest increments counters for served requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(path, method, code).Inc()
}

// RecordAuthAttempt tracks the outcome of a login or register flow.
func (m *Metrics) RecordAuthAttempt(operation, result string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(operation, result).Inc()
}

// RecordUpstreamCall tracks one round trip to the content backend.
func (m *Metrics) RecordUpstreamCall(operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.upstreamLatency.Observe(duration.Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
