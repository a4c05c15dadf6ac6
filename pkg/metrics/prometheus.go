// Package metrics provides Prometheus metrics for the prediction-pool service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Default histogram buckets for latency metrics, in milliseconds.
var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // shared default

// Manager owns every Prometheus metric the service emits.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Reconciliation and feed health
	feedRequests      *prometheus.CounterVec
	reconcileRuns     prometheus.Counter
	reconcileFailures prometheus.Counter
	reconcileDuration prometheus.Histogram
	matchesCreated    prometheus.Counter

	// Prediction ledger
	picksAccepted prometheus.Counter
	picksRejected *prometheus.CounterVec

	// Store state
	matchesTracked     prometheus.Gauge
	predictionsTracked prometheus.Gauge
	playersTracked     prometheus.Gauge
	storeLatency       *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional singleton

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional singleton

func init() { //nolint:gochecknoinits // global metrics must exist before first use
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kickpool",
		histogramBuckets: defaultBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// factory builds metrics bound to the manager's registry and namespace.
type factory struct {
	reg       prometheus.Registerer
	namespace string
}

func (f factory) counter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: f.namespace, Name: name, Help: help})
	f.reg.MustRegister(c)
	return c
}

func (f factory) counterVec(name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: f.namespace, Name: name, Help: help}, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: f.namespace, Name: name, Help: help})
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogram(name, help string, buckets []float64) prometheus.Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: f.namespace, Name: name, Help: help, Buckets: buckets})
	f.reg.MustRegister(h)
	return h
}

func (f factory) histogramVec(name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: f.namespace, Name: name, Help: help, Buckets: buckets}, labels)
	f.reg.MustRegister(h)
	return h
}

func (m *Manager) initializeMetrics() {
	factory := factory{reg: m.registry, namespace: m.namespace}

	m.feedRequests = factory.counterVec("feed_requests_total",
		"Upstream feed requests by response status.", []string{"status"})
	m.reconcileRuns = factory.counter("reconcile_runs_total",
		"Completed reconciliation calls.")
	m.reconcileFailures = factory.counter("reconcile_failures_total",
		"Reconciliation calls aborted by a feed failure.")
	m.reconcileDuration = factory.histogram("reconcile_duration_ms",
		"Wall time of one reconciliation call.", m.histogramBuckets)
	m.matchesCreated = factory.counter("matches_created_total",
		"Match rows newly created by reconciliation.")

	m.picksAccepted = factory.counter("picks_accepted_total",
		"Pick submissions accepted by the ledger.")
	m.picksRejected = factory.counterVec("picks_rejected_total",
		"Pick submissions rejected, by reason.", []string{"reason"})

	m.matchesTracked = factory.gauge("matches_tracked",
		"Match rows currently in the store.")
	m.predictionsTracked = factory.gauge("predictions_tracked",
		"Prediction rows currently in the store.")
	m.playersTracked = factory.gauge("players_tracked",
		"Players in the roster.")
	m.storeLatency = factory.histogramVec("store_latency_ms",
		"Store unit-of-work latency, by operation.", m.histogramBuckets, []string{"operation"})

	m.httpRequests = factory.counterVec("http_requests_total",
		"HTTP requests, by endpoint, method and status.", []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.histogramVec("http_request_duration_ms",
		"HTTP request latency, by endpoint and method.", m.histogramBuckets, []string{"endpoint", "method"})

	m.systemMemoryUsage = factory.gauge("system_memory_bytes",
		"Allocated heap bytes.")
	m.systemGoroutineCount = factory.gauge("system_goroutines",
		"Live goroutine count.")
}

// RecordFeedRequest counts one upstream feed request by response status.
func RecordFeedRequest(status string) {
	globalManager.feedRequests.WithLabelValues(status).Inc()
}

// RecordReconcile records one completed reconciliation call.
func RecordReconcile(durationMs float64) {
	globalManager.reconcileRuns.Inc()
	globalManager.reconcileDuration.Observe(durationMs)
}

// RecordReconcileFailure counts one aborted reconciliation call.
func RecordReconcileFailure() {
	globalManager.reconcileFailures.Inc()
}

// RecordMatchesCreated counts match rows newly created by reconciliation.
func RecordMatchesCreated(n int) {
	if n > 0 {
		globalManager.matchesCreated.Add(float64(n))
	}
}

// RecordPickAccepted counts one accepted pick submission.
func RecordPickAccepted() {
	globalManager.picksAccepted.Inc()
}

// RecordPickRejected counts one rejected pick submission by reason.
func RecordPickRejected(reason string) {
	globalManager.picksRejected.WithLabelValues(reason).Inc()
}

// UpdateMatchesTracked sets the tracked-match gauge.
func UpdateMatchesTracked(n int64) {
	globalManager.matchesTracked.Set(float64(n))
}

// UpdatePredictionsTracked sets the tracked-prediction gauge.
func UpdatePredictionsTracked(n int64) {
	globalManager.predictionsTracked.Set(float64(n))
}

// UpdatePlayersTracked sets the roster-size gauge.
func UpdatePlayersTracked(n int) {
	globalManager.playersTracked.Set(float64(n))
}

// RecordStoreLatency observes one store unit of work.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request's latency.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
