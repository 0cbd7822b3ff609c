// Package metrics provides Prometheus metrics for the Brain Guard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ingestion
	submissionsAccepted  prometheus.Counter
	submissionsDuplicate prometheus.Counter
	submissionsRejected  *prometheus.CounterVec
	trendClassifications *prometheus.CounterVec

	// Alerts
	alertsRaised     *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
	rulesLoaded      prometheus.Gauge
	rulesReloads     *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Table store
	backendRequests       *prometheus.CounterVec
	backendRequestLatency *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            *prometheus.CounterVec

	// Notification
	websocketClients  prometheus.Gauge
	webhookDeliveries *prometheus.CounterVec
	journalWrites     *prometheus.CounterVec
	videoCallsActive  prometheus.Gauge
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "brainguard",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
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

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	ms := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

	m.submissionsAccepted = m.counter("submissions_accepted_total", "Monitoring submissions accepted for ingestion")
	m.submissionsDuplicate = m.counter("submissions_duplicate_total", "Monitoring submissions dropped as duplicates")
	m.submissionsRejected = m.counterVec("submissions_rejected_total", "Monitoring submissions rejected", "reason")
	m.trendClassifications = m.counterVec("trend_classifications_total", "Trend labels computed during ingestion", "trend")

	m.alertsRaised = m.counterVec("alerts_raised_total", "Alerts raised by the rule engine", "alert_type", "severity")
	m.alertsSuppressed = m.counterVec("alerts_suppressed_total", "Alerts suppressed by a rule cooldown", "rule")
	m.rulesLoaded = m.gauge("alert_rules_loaded", "Alert rules currently compiled")
	m.rulesReloads = m.counterVec("alert_rules_reloads_total", "Rule file reloads", "outcome")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_seconds", "HTTP request duration", m.histogramBuckets,
		"endpoint", "method", "status_code")

	m.backendRequests = m.counterVec("backend_requests_total", "Table store requests", "backend", "op", "status")
	m.backendRequestLatency = m.histogramVec("backend_request_latency_ms", "Table store request latency", ms, "backend", "op")

	m.queueSize = m.gauge("queue_size", "Submissions waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue fill ratio")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Submissions enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Submissions dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Enqueue attempts refused")

	m.workerCount = m.gauge("worker_count", "Ingestion workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers processing a submission")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_ms", "Per-submission processing latency", ms)
	m.workerErrors = m.counterVec("worker_errors_total", "Ingestion step failures", "step")

	m.websocketClients = m.gauge("websocket_clients", "Connected live alert clients")
	m.webhookDeliveries = m.counterVec("webhook_deliveries_total", "Outbound alert webhooks", "kind", "outcome")
	m.journalWrites = m.counterVec("journal_writes_total", "Activity journal writes", "outcome")
	m.videoCallsActive = m.gauge("video_calls_active", "Active mock video calls")
	m.errorsByComponent = m.counterVec("errors_total", "Errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes in use")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Live goroutines")
}

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
