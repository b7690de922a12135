// Package metrics provides Prometheus metrics for the jobmatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Matching
	recommendationsServed *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	skillsExtracted       *prometheus.CounterVec

	// Resume pipeline
	resumesUploaded  prometheus.Counter
	resumesProcessed prometheus.Counter
	resumesFailed    prometheus.Counter
	resumesDuplicate prometheus.Counter

	// Portal activity
	jobsPosted          prometheus.Counter
	applicationsCreated prometheus.Counter
	authAttempts        *prometheus.CounterVec
	eventsPublished     *prometheus.CounterVec

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueRejected    prometheus.Counter
	queueWaitLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jobmatch",
		subsystem:        "portal",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
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

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.recommendationsServed = m.counterVec("recommendations_served_total",
		"Recommendation requests answered, by ranker status", "status")
	m.recommendationLatency = m.histogram("recommendation_latency_milliseconds",
		"Time spent ranking jobs for one candidate", m.histogramBuckets)
	m.skillsExtracted = m.counterVec("skills_extracted_total",
		"Skills found by vocabulary extraction, by source", "source")

	m.resumesUploaded = m.counter("resumes_uploaded_total", "Resumes accepted for processing")
	m.resumesProcessed = m.counter("resumes_processed_total", "Resumes processed into a profile")
	m.resumesFailed = m.counter("resumes_failed_total", "Resumes whose processing failed")
	m.resumesDuplicate = m.counter("resumes_duplicate_total", "Resume uploads dropped as duplicates")

	m.jobsPosted = m.counter("jobs_posted_total", "Job postings created")
	m.applicationsCreated = m.counter("applications_created_total", "Job applications submitted")
	m.authAttempts = m.counterVec("auth_attempts_total", "Authentication attempts by action and outcome", "action", "outcome")
	m.eventsPublished = m.counterVec("events_published_total", "Domain events published by routing key and outcome", "routing_key", "outcome")

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Document store operation latency", "driver", "operation")
	m.storeErrors = m.counterVec("store_errors_total", "Document store errors", "driver", "operation")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.queueSize = m.gauge("queue_size", "Current resume task backlog")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum resume task backlog")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Tasks enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Tasks dequeued")
	m.queueRejected = m.counter("queue_rejected_total", "Tasks rejected because the queue was full or closed")
	m.queueWaitLatency = m.histogram("queue_wait_latency_milliseconds", "Time a task spent waiting in the queue", m.histogramBuckets)

	m.workerCount = m.gauge("worker_count", "Configured resume workers")
	m.workerActive = m.gauge("worker_active_count", "Workers currently processing a task")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Task processing latency", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Task processing errors")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordRecommendation counts a ranker answer and its latency.
func RecordRecommendation(status string, latencyMs float64) {
	globalManager.recommendationsServed.WithLabelValues(status).Inc()
	globalManager.recommendationLatency.Observe(latencyMs)
}

// RecordSkillsExtracted adds n extracted skills for source (job, resume, cli).
func RecordSkillsExtracted(source string, n int) {
	globalManager.skillsExtracted.WithLabelValues(source).Add(float64(n))
}

func RecordResumeUploaded()  { globalManager.resumesUploaded.Inc() }
func RecordResumeProcessed() { globalManager.resumesProcessed.Inc() }
func RecordResumeFailed()    { globalManager.resumesFailed.Inc() }
func RecordResumeDuplicate() { globalManager.resumesDuplicate.Inc() }

func RecordJobPosted()          { globalManager.jobsPosted.Inc() }
func RecordApplicationCreated() { globalManager.applicationsCreated.Inc() }

// RecordAuthAttempt counts register/login outcomes.
func RecordAuthAttempt(action, outcome string) {
	globalManager.authAttempts.WithLabelValues(action, outcome).Inc()
}

// RecordEventPublished counts broker publishes.
func RecordEventPublished(routingKey, outcome string) {
	globalManager.eventsPublished.WithLabelValues(routingKey, outcome).Inc()
}

// RecordStoreLatency observes one document store call.
func RecordStoreLatency(driver, operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(driver, operation).Observe(latencyMs)
}

// RecordStoreError counts a failed document store call.
func RecordStoreError(driver, operation string) {
	globalManager.storeErrors.WithLabelValues(driver, operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

func UpdateQueueSize(size int)         { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }
func RecordQueueEnqueue()              { globalManager.queueEnqueued.Inc() }
func RecordQueueDequeue()              { globalManager.queueDequeued.Inc() }
func RecordQueueRejected()             { globalManager.queueRejected.Inc() }

// RecordQueueWait observes how long a task waited before a worker took it.
func RecordQueueWait(latencyMs float64) {
	globalManager.queueWaitLatency.Observe(latencyMs)
}

func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }
func IncWorkerActive()            { globalManager.workerActive.Inc() }
func DecWorkerActive()            { globalManager.workerActive.Dec() }
func RecordWorkerError()          { globalManager.workerErrors.Inc() }

// RecordWorkerProcessingLatency records task processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

func UpdateSystemMemoryUsage(bytes uint64)  { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(count int)  { globalManager.systemGoroutineCount.Set(float64(count)) }
func RecordSystemGCPauseTime(pause float64) { globalManager.systemGCPauseTime.Observe(pause) }

// GetRegistry returns the registry the global collectors live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
