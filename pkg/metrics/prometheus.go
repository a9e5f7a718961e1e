// Package metrics provides Prometheus metrics for the pitwall optimizer service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Search outcomes used as the "outcome" label of the searches counter.
const (
	OutcomeFeasible   = "feasible"
	OutcomeInfeasible = "infeasible"
	OutcomeCancelled  = "cancelled"
	OutcomeError      = "error"
)

// Manager manages all Prometheus metrics for the pitwall service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Search metrics
	searches              *prometheus.CounterVec
	searchLatency         prometheus.Histogram
	combinationsEvaluated prometheus.Counter
	combinationsPruned    prometheus.Counter
	lastScore             prometheus.Gauge

	// Catalog metrics
	candidatePool      *prometheus.GaugeVec
	catalogLoads       *prometheus.CounterVec
	catalogLoadLatency prometheus.Histogram
	catalogLastUnix    prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	customRegistry.MustRegister(collectors.NewBuildInfoCollector())
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitwall",
		subsystem:        "optimizer",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often callers should refresh sampled gauges.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.searches = auto.NewCounterVec(
		m.counterOpts("searches_total", "Total number of roster searches by outcome"),
		[]string{"outcome"},
	)
	m.searchLatency = auto.NewHistogram(
		m.histogramOpts("search_latency_milliseconds", "Histogram of roster search latency in milliseconds", m.histogramBuckets),
	)
	m.combinationsEvaluated = auto.NewCounter(
		m.counterOpts("combinations_evaluated_total", "Total number of rosters scored"),
	)
	m.combinationsPruned = auto.NewCounter(
		m.counterOpts("combinations_pruned_total", "Total number of rosters skipped for exceeding the budget"),
	)
	m.lastScore = auto.NewGauge(
		m.gaugeOpts("last_score", "Score of the most recent feasible suggestion"),
	)

	m.candidatePool = auto.NewGaugeVec(
		m.gaugeOpts("candidate_pool_size", "Number of active candidates by category"),
		[]string{"category"},
	)
	m.catalogLoads = auto.NewCounterVec(
		m.counterOpts("catalog_loads_total", "Total number of catalog loads by result"),
		[]string{"result"},
	)
	m.catalogLoadLatency = auto.NewHistogram(
		m.histogramOpts("catalog_load_latency_milliseconds", "Catalog load latency in milliseconds", m.histogramBuckets),
	)
	m.catalogLastUnix = auto.NewGauge(
		m.gaugeOpts("catalog_last_load_unixtime", "Unix time of the last successful catalog load"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordSearch records one finished search: its outcome, latency and the
// number of rosters it scored and pruned.
func (m *Manager) RecordSearch(outcome string, latencyMs float64, evaluated, pruned int64) {
	if !m.enabled {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(latencyMs)
	if evaluated > 0 {
		m.combinationsEvaluated.Add(float64(evaluated))
	}
	if pruned > 0 {
		m.combinationsPruned.Add(float64(pruned))
	}
}

// UpdateLastScore sets the score gauge.
func (m *Manager) UpdateLastScore(score float64) {
	if !m.enabled {
		return
	}
	m.lastScore.Set(score)
}

// UpdateCandidatePool sets the active pool size for a category.
func (m *Manager) UpdateCandidatePool(category string, size int) {
	if !m.enabled {
		return
	}
	m.candidatePool.WithLabelValues(category).Set(float64(size))
}

// RecordCatalogLoad records a catalog load attempt.
func (m *Manager) RecordCatalogLoad(ok bool, latencyMs float64) {
	if !m.enabled {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.catalogLoads.WithLabelValues(result).Inc()
	m.catalogLoadLatency.Observe(latencyMs)
	if ok {
		m.catalogLastUnix.Set(float64(time.Now().Unix()))
	}
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records a failed HTTP request.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystem sets the sampled runtime gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// RecordGCPause records a GC pause in milliseconds.
func (m *Manager) RecordGCPause(pauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemGCPauseTime.Observe(pauseMs)
}

// Package-level helpers record on the global manager.

// RecordSearch records a finished search on the global manager.
func RecordSearch(outcome string, latencyMs float64, evaluated, pruned int64) {
	globalManager.RecordSearch(outcome, latencyMs, evaluated, pruned)
}

// UpdateLastScore sets the score of the latest feasible suggestion.
func UpdateLastScore(score float64) {
	globalManager.UpdateLastScore(score)
}

// UpdateCandidatePool sets the active pool size for a category.
func UpdateCandidatePool(category string, size int) {
	globalManager.UpdateCandidatePool(category, size)
}

// RecordCatalogLoad records a catalog load attempt.
func RecordCatalogLoad(ok bool, latencyMs float64) {
	globalManager.RecordCatalogLoad(ok, latencyMs)
}

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records a failed HTTP request.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.RecordGCPause(pauseMs)
}

// RefreshInterval returns the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
