// Package metrics exposes Prometheus collectors for the API, the collaborator
// client and the sync pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "successpath"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	collabRequests   *prometheus.CounterVec
	collabDuration   *prometheus.HistogramVec
	rateLimited      prometheus.Counter
	syncEvents       *prometheus.CounterVec
	staleResponses   prometheus.Counter
	ledgerOperations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		collabRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "collaborator", Name: "requests_total",
			Help: "Collaborator calls by method, path and outcome.",
		}, []string{"method", "path", "outcome"}),
		collabDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "collaborator", Name: "request_duration_seconds",
			Help: "Collaborator call latency.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		syncEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync", Name: "events_total",
			Help: "Sync events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		staleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "player", Name: "stale_responses_total",
			Help: "Music loads dropped because a newer genre was requested.",
		}),
		ledgerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "operations_total",
			Help: "Ledger mutations by tracker and operation.",
		}, []string{"tracker", "operation"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.collabRequests, m.collabDuration,
		m.rateLimited, m.syncEvents, m.staleResponses, m.ledgerOperations,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP matches trace.Observer.
func (m *Metrics) ObserveHTTP(_ *http.Request, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveCollaborator records one collaborator call. status is 0 when the
// request never produced a response.
func (m *Metrics) ObserveCollaborator(method, path string, status int, elapsed time.Duration) {
	outcome := "ok"
	switch {
	case status == 0:
		outcome = "transport_error"
	case status >= 400:
		outcome = strconv.Itoa(status)
	}
	m.collabRequests.WithLabelValues(method, path, outcome).Inc()
	m.collabDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RateLimited(*http.Request) {
	m.rateLimited.Inc()
}

func (m *Metrics) SyncEvent(kind, outcome string) {
	m.syncEvents.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) StaleResponse() {
	m.staleResponses.Inc()
}

func (m *Metrics) LedgerOperation(tracker, op string) {
	m.ledgerOperations.WithLabelValues(tracker, op).Inc()
}
