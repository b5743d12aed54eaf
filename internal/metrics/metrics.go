// Package metrics provides the centralized Prometheus metrics registry for the service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridline",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled",
	}, []string{"method", "path", "status"})
	UpstreamFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridline",
		Name:      "upstream_fetches_total",
		Help:      "Total number of upstream Ergast API fetch operations",
	})
	UpstreamFetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridline",
		Name:      "upstream_fetch_errors_total",
		Help:      "Total number of failed upstream Ergast API fetch operations",
	})
	FileUploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridline",
		Name:      "file_uploads_total",
		Help:      "Total number of uploaded files",
	})
	FileAnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridline",
		Name:      "file_analyses_total",
		Help:      "Total number of file analyses run",
	})
)

// Gauge metrics
var (
	HistoricalCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridline",
		Name:      "historical_cache_entries",
		Help:      "Number of memoized historical season lookups currently held in memory",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridline",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
	UpstreamFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridline",
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Duration of full upstream snapshot fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FileAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridline",
		Name:      "file_analysis_duration_seconds",
		Help:      "Duration of file analysis runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(UpstreamFetchesTotal)
		registry.MustRegister(UpstreamFetchErrorsTotal)
		registry.MustRegister(FileUploadsTotal)
		registry.MustRegister(FileAnalysesTotal)

		registry.MustRegister(HistoricalCacheEntries)

		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(UpstreamFetchDuration)
		registry.MustRegister(FileAnalysisDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordUpstreamFetch records a completed upstream snapshot fetch.
func RecordUpstreamFetch(durationSeconds float64) {
	UpstreamFetchesTotal.Inc()
	UpstreamFetchDuration.Observe(durationSeconds)
}

// RecordUpstreamFetchError records a failed upstream fetch.
func RecordUpstreamFetchError() {
	UpstreamFetchErrorsTotal.Inc()
}

// RecordFileUpload records a stored upload.
func RecordFileUpload() {
	FileUploadsTotal.Inc()
}

// RecordFileAnalysis records a completed file analysis.
func RecordFileAnalysis(durationSeconds float64) {
	FileAnalysesTotal.Inc()
	FileAnalysisDuration.Observe(durationSeconds)
}

// SetHistoricalCacheEntries records the current size of the historical
// lookup cache.
func SetHistoricalCacheEntries(n int) {
	HistoricalCacheEntries.Set(float64(n))
}

// RecordHTTPRequest records a handled HTTP request.
func RecordHTTPRequest(method string, path string, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}
