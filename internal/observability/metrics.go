package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "triage"

// Metrics exposes Prometheus instruments for the triage pipeline and the
// HTTP surface. A nil *Metrics is valid and records nothing, so callers
// never have to branch on whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal         prometheus.Counter
	runDuration       prometheus.Histogram
	ticketsTriaged    *prometheus.CounterVec
	ticketsAssigned   prometheus.Counter
	ticketsUnassigned prometheus.Counter
	aiFallbacks       prometheus.Counter
	sourceFailures    *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// NewMetrics registers all instruments on a private registry so the default
// Go collectors stay out of the scrape output.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	m := &Metrics{registry: registry}

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "runs_total",
		Help:      "Total number of triage runs executed",
	})
	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of triage runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	m.ticketsTriaged = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "tickets_triaged_total",
		Help:      "Total number of tickets categorized, by triage method",
	}, []string{"method"})
	m.ticketsAssigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "tickets_assigned_total",
		Help:      "Total number of tickets assigned to an engineer",
	})
	m.ticketsUnassigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "tickets_unassigned_total",
		Help:      "Total number of tickets left unassigned after a run",
	})
	m.aiFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "ai_fallbacks_total",
		Help:      "Total number of tickets that fell back to rule-based triage",
	})
	m.sourceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "source_fetch_failures_total",
		Help:      "Total number of failed ticket source fetches, by source",
	}, []string{"source"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds by route and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route, method and code",
	}, []string{"route", "method", "code"})

	return m
}

// RecordRequest increments request counters and observes latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters keyed by domain error code.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(route, method, code).Inc()
}

// RecordRun observes one completed triage run.
func (m *Metrics) RecordRun(duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
}

// RecordTriaged counts one categorized ticket by triage method.
func (m *Metrics) RecordTriaged(method string) {
	if m == nil {
		return
	}
	m.ticketsTriaged.WithLabelValues(method).Inc()
}

// RecordAssignments counts the assignment outcome of a run.
func (m *Metrics) RecordAssignments(assigned, unassigned int) {
	if m == nil {
		return
	}
	m.ticketsAssigned.Add(float64(assigned))
	m.ticketsUnassigned.Add(float64(unassigned))
}

// RecordAIFallback counts one ticket that fell back to rule-based triage.
func (m *Metrics) RecordAIFallback() {
	if m == nil {
		return
	}
	m.aiFallbacks.Inc()
}

// RecordSourceFailure counts one failed fetch against the named source.
func (m *Metrics) RecordSourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

// Handler returns the scrape endpoint for the private registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the private registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
