package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestMetrics_Usable verifies that all Prometheus metrics can be used without
// panic, ensuring label dimensions match usage across client, http, gateway,
// cache, and dashboard packages.
func TestMetrics_Usable(t *testing.T) {
	// Route uses a bounded label set to avoid cardinality (coordinates never
	// appear in route labels).
	HTTPRequestsTotal.WithLabelValues("GET", "/api/dashboard", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/api/dashboard").Observe(0.01)
	HTTPRequestsInFlight.Inc()
	HTTPRequestsInFlight.Dec()
	ProviderCallsTotal.WithLabelValues("openaq", "success").Inc()
	ProviderCallsTotal.WithLabelValues("openmeteo", "error").Inc()
	ProviderCallDuration.WithLabelValues("openaq", "success").Observe(0.1)
	ProviderDegradationsTotal.WithLabelValues("openaq").Inc()
	CacheHitsTotal.Inc()
	CacheErrorsTotal.WithLabelValues("get").Inc()
	DashboardComputationsTotal.Inc()
	PipelineFallbacksTotal.Inc()
	RecordBreakerTransition("openaq", "open")
	RateLimitDeniedTotal.Inc()
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
