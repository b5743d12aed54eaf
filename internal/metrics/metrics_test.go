package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRegistryIsSingleton(t *testing.T) {
	first := InitRegistry()
	second := GetRegistry()

	assert.Same(t, first, second)
}

func TestRecordUpstreamFetch(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordUpstreamFetch(0.5)
	})
	assert.NotPanics(t, func() {
		RecordUpstreamFetchError()
	})
}

func TestRecordFileMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordFileUpload()
	})
	assert.NotPanics(t, func() {
		RecordFileAnalysis(0.02)
	})
}

func TestSetHistoricalCacheEntries(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		SetHistoricalCacheEntries(3)
	})
}

func TestRecordHTTPRequest(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		method string
		path   string
		status string
	}{
		{
			name:   "successful get",
			method: "GET",
			path:   "/api/f1/insights",
			status: "200",
		},
		{
			name:   "not found",
			method: "GET",
			path:   "/api/files/{fileID}",
			status: "404",
		},
		{
			name:   "server error",
			method: "POST",
			path:   "/api/f1/fetch-data",
			status: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordHTTPRequest(tt.method, tt.path, tt.status, 0.01)
			})
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordHTTPRequest("GET", "/api/f1/insights", "200", 0.01)
	}
}
