// Package metrics provides Prometheus metrics for the JURY evaluation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the JURY service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	scoresUpserted   prometheus.Counter
	scoresDeleted    prometheus.Counter
	cascadedScores   prometheus.Counter
	projectsCreated  prometheus.Counter
	judgesRegistered prometheus.Counter

	// Entity scale gauges
	projectCount   prometheus.Gauge
	judgeCount     prometheus.Gauge
	criterionCount prometheus.Gauge
	scoreCount     prometheus.Gauge

	// Session/sync health
	fallbackTransitions prometheus.Counter
	offlineMutations    prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByEndpoint *prometheus.CounterVec
	errorsByType     *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jury",
		subsystem:        "eval",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Register on the configured registry (custom by default).
	auto := promauto.With(m.registry)

	m.scoresUpserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_upserted_total",
		Help:      "Total number of score create-or-update operations",
	})

	m.scoresDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_deleted_total",
		Help:      "Total number of explicit score deletions",
	})

	m.cascadedScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_cascaded_total",
		Help:      "Total number of scores removed by project/judge cascade deletes",
	})

	m.projectsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projects_created_total",
		Help:      "Total number of projects created (batch items counted individually)",
	})

	m.judgesRegistered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judges_registered_total",
		Help:      "Total number of judges created, including self-registration",
	})

	m.projectCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projects",
		Help:      "Current number of projects in the store",
	})

	m.judgeCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judges",
		Help:      "Current number of judges in the store",
	})

	m.criterionCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "criteria",
		Help:      "Current number of scoring criteria in the store",
	})

	m.scoreCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores",
		Help:      "Current number of scores in the store",
	})

	m.fallbackTransitions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallback_transitions_total",
		Help:      "Total number of online-to-offline fallback transitions",
	})

	m.offlineMutations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "offline_mutations_total",
		Help:      "Total number of mutations applied to the local fallback store",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint and method",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)
}

// Package-level helpers operating on the global manager.

// RecordScoreUpserted increments the score upsert counter.
func RecordScoreUpserted() {
	globalManager.scoresUpserted.Inc()
}

// RecordScoreDeleted increments the explicit score deletion counter.
func RecordScoreDeleted() {
	globalManager.scoresDeleted.Inc()
}

// RecordCascadedScores adds n to the cascade deletion counter.
func RecordCascadedScores(n int) {
	globalManager.cascadedScores.Add(float64(n))
}

// RecordProjectsCreated adds n to the project creation counter.
func RecordProjectsCreated(n int) {
	globalManager.projectsCreated.Add(float64(n))
}

// RecordJudgeRegistered increments the judge registration counter.
func RecordJudgeRegistered() {
	globalManager.judgesRegistered.Inc()
}

// UpdateEntityCounts sets the current entity gauges.
func UpdateEntityCounts(projects, judges, criteria, scores int) {
	globalManager.projectCount.Set(float64(projects))
	globalManager.judgeCount.Set(float64(judges))
	globalManager.criterionCount.Set(float64(criteria))
	globalManager.scoreCount.Set(float64(scores))
}

// RecordFallbackTransition increments the online-to-offline transition counter.
func RecordFallbackTransition() {
	globalManager.fallbackTransitions.Inc()
}

// RecordOfflineMutation increments the offline mutation counter.
func RecordOfflineMutation() {
	globalManager.offlineMutations.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records the duration of an HTTP request.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint increments the per-endpoint error counter.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType increments the per-type error counter.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// GetRegistry returns the custom registry used for scraping.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
