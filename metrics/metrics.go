// Package metrics provides Prometheus metrics for match generation and introductions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess      = "success"
	OutcomeInsufficient = "insufficient"
	OutcomeFailed       = "failed"
)

// Manager holds all metrics. A nil Manager is valid and records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	runs                *prometheus.CounterVec
	runDuration         prometheus.Histogram
	candidates          prometheus.Counter
	fallbacks           prometheus.Counter
	skippedPairs        prometheus.Counter
	enrichmentFailures  prometheus.Counter
	matchesCreated      prometheus.Counter
	insertFailures      prometheus.Counter
	introductions       *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a new metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchmaker",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "generation_runs_total",
		Help:      "Total number of match generation runs by outcome",
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of match generation runs",
		Buckets:   m.histogramBuckets,
	})

	m.candidates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "candidates_total",
		Help:      "Total number of collected match candidates",
	})

	m.fallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "similarity_fallbacks_total",
		Help:      "Total number of similarity searches answered by the in-process fallback",
	})

	m.skippedPairs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "skipped_pairs_total",
		Help:      "Total number of attendee pairs that could not be compared",
	})

	m.enrichmentFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "enrichment_failures_total",
		Help:      "Total number of common interest generations replaced by the fallback text",
	})

	m.matchesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "matches_created_total",
		Help:      "Total number of match rows created",
	})

	m.insertFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "insert_failures_total",
		Help:      "Total number of failed bulk match inserts",
	})

	m.introductions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "introductions_total",
		Help:      "Total number of introductions by result",
	}, []string{"result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// Registry returns the registry holding all metrics.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics of the registry.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRun records the outcome and duration of a generation run.
func (m *Manager) ObserveRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// AddCandidates records collected candidates.
func (m *Manager) AddCandidates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidates.Add(float64(n))
}

// IncFallback records one fallback to the in-process similarity computation.
func (m *Manager) IncFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// AddSkippedPairs records pairs that could not be compared.
func (m *Manager) AddSkippedPairs(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedPairs.Add(float64(n))
}

// IncEnrichmentFailure records one failed common interest generation.
func (m *Manager) IncEnrichmentFailure() {
	if m == nil {
		return
	}
	m.enrichmentFailures.Inc()
}

// AddMatchesCreated records created match rows.
func (m *Manager) AddMatchesCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.matchesCreated.Add(float64(n))
}

// IncInsertFailure records one failed bulk insert.
func (m *Manager) IncInsertFailure() {
	if m == nil {
		return
	}
	m.insertFailures.Inc()
}

// AddIntroductions records introductions with the given result (sent, failed, skipped).
func (m *Manager) AddIntroductions(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.introductions.WithLabelValues(result).Add(float64(n))
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Manager) ObserveHTTPRequest(method string, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
