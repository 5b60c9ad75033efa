// Package metrics provides Prometheus metrics for the arthouse catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets covers the 0-100 canon score range in steps of ten.
var scoreBuckets = prometheus.LinearBuckets(10, 10, 10) //nolint:gochecknoglobals // static bucket layout

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// Catalog read path
	catalogQueries      *prometheus.CounterVec
	catalogQueryLatency *prometheus.HistogramVec
	catalogResultSize   prometheus.Histogram
	catalogFilms        prometheus.Gauge

	// Scoring and recompute
	scoreDistribution     prometheus.Histogram
	recomputeRuns         prometheus.Counter
	recomputeFilms        *prometheus.CounterVec
	recomputeSignificant  prometheus.Counter
	recomputeDuration     prometheus.Histogram
	repositoryUpsertLat   prometheus.Histogram
	repositoryQueryLat    prometheus.Histogram
	repositoryRecordTotal prometheus.Gauge

	// Recompute queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueued           prometheus.Counter
	queueDequeued           prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arthouse",
		subsystem:        "catalog",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("http_errors_total",
		"HTTP error responses by endpoint and error type", "endpoint", "method", "error_type")
	m.errorsByComponent = m.counterVec("component_errors_total",
		"Errors by internal component and error type", "component", "error_type")

	m.catalogQueries = m.counterVec("queries_total",
		"Catalog listing queries by ranking mode", "mode")
	m.catalogQueryLatency = m.histogramVec("query_latency_milliseconds",
		"Catalog listing latency in milliseconds by ranking mode", "mode")
	m.catalogResultSize = m.histogram("query_result_films",
		"Number of films returned per listing page", prometheus.ExponentialBuckets(1, 2, 12))
	m.catalogFilms = m.gauge("films", "Number of films in the catalog")

	m.scoreDistribution = m.histogram("canon_score",
		"Distribution of computed canon scores", scoreBuckets)
	m.recomputeRuns = m.counter("recompute_runs_total", "Number of recompute batch runs")
	m.recomputeFilms = m.counterVec("recompute_films_total",
		"Films processed by recompute, by outcome", "outcome")
	m.recomputeSignificant = m.counter("recompute_significant_changes_total",
		"Score changes whose magnitude exceeded the review threshold")
	m.recomputeDuration = m.histogram("recompute_duration_milliseconds",
		"Wall time of a recompute batch in milliseconds",
		prometheus.ExponentialBuckets(10, 4, 8))
	m.repositoryUpsertLat = m.histogram("repository_upsert_latency_milliseconds",
		"Store upsert latency in milliseconds", m.histogramBuckets)
	m.repositoryQueryLat = m.histogram("repository_query_latency_milliseconds",
		"Store query latency in milliseconds", m.histogramBuckets)
	m.repositoryRecordTotal = m.gauge("repository_records_total", "Records held by the store index")

	m.queueSize = m.gauge("recompute_queue_size", "Films waiting in the recompute queue")
	m.queueCapacity = m.gauge("recompute_queue_capacity", "Capacity of the recompute queue")
	m.queueEnqueued = m.counter("recompute_queue_enqueued_total", "Films enqueued for recompute")
	m.queueDequeued = m.counter("recompute_queue_dequeued_total", "Films dequeued for recompute")
	m.queueEnqueueErrors = m.counter("recompute_queue_enqueue_errors_total", "Rejected recompute enqueues")
	m.workerCount = m.gauge("recompute_workers", "Recompute worker goroutines")
	m.workerProcessingLatency = m.histogram("recompute_worker_latency_milliseconds",
		"Per-film recompute latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("recompute_worker_errors_total", "Recompute worker failures")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds",
		"Average GC pause in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100})
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent counts an internal error.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Catalog.

// RecordCatalogQuery records one listing query for the given ranking mode.
func RecordCatalogQuery(mode string, latencyMs float64, returned int) {
	globalManager.catalogQueries.WithLabelValues(mode).Inc()
	globalManager.catalogQueryLatency.WithLabelValues(mode).Observe(latencyMs)
	globalManager.catalogResultSize.Observe(float64(returned))
}

// UpdateCatalogFilms sets the catalog size.
func UpdateCatalogFilms(count int) {
	globalManager.catalogFilms.Set(float64(count))
}

// Scoring.

// RecordScore observes a freshly computed canon score.
func RecordScore(score int) {
	globalManager.scoreDistribution.Observe(float64(score))
}

// RecordRecomputeRun records a finished recompute batch.
func RecordRecomputeRun(durationMs float64) {
	globalManager.recomputeRuns.Inc()
	globalManager.recomputeDuration.Observe(durationMs)
}

// RecordRecomputeOutcome counts one film by outcome: changed, unchanged or failed.
func RecordRecomputeOutcome(outcome string) {
	globalManager.recomputeFilms.WithLabelValues(outcome).Inc()
}

// RecordSignificantChange counts a score delta above the review threshold.
func RecordSignificantChange() {
	globalManager.recomputeSignificant.Inc()
}

// Repository.

// RecordRepositoryUpsertLatency records store upsert latency.
func RecordRepositoryUpsertLatency(latencyMs float64) {
	globalManager.repositoryUpsertLat.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records store query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLat.Observe(latencyMs)
}

// UpdateRepositoryRecordsTotal sets the number of indexed records.
func UpdateRepositoryRecordsTotal(count int) {
	globalManager.repositoryRecordTotal.Set(float64(count))
}

// Queue and workers.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of recompute workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-film processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a worker failure.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// System.

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
