package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Upstream provider call rate per provider. Watch for: error vs success ratio.
	ProviderCallsTotal *prometheus.CounterVec

	// Upstream provider latency. Watch for: p95 near the 10s timeout (degradation risk).
	ProviderCallDuration *prometheus.HistogramVec

	// Provider calls degraded into empty samples. Watch for: a provider going dark.
	ProviderDegradationsTotal *prometheus.CounterVec

	// Dashboard cache hits. Hit rate = hits/(hits+dashboardComputationsTotal).
	CacheHitsTotal prometheus.Counter

	// Cache backend errors per operation. Expected zero for the in-memory backend.
	CacheErrorsTotal *prometheus.CounterVec

	// Full pipeline runs (cache misses). Watch for: load the simulation carries.
	DashboardComputationsTotal prometheus.Counter

	// Requests answered with the static fallback payload. Any sustained rate
	// here means the pipeline itself is failing, not the providers.
	PipelineFallbacksTotal prometheus.Counter

	// Circuit breaker transitions per provider. Watch for: flapping.
	BreakerTransitionsTotal *prometheus.CounterVec

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "providerCallsTotal",
			Help: "Total number of upstream provider API calls",
		},
		[]string{"provider", "status"},
	)
	ProviderCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "providerCallDurationSeconds",
			Help:    "Upstream provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "status"},
	)
	ProviderDegradationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "providerDegradationsTotal",
			Help: "Provider calls degraded into empty samples",
		},
		[]string{"provider"},
	)
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Dashboard payloads served from cache",
		},
	)
	CacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheErrorsTotal",
			Help: "Cache backend errors by operation",
		},
		[]string{"operation"},
	)
	DashboardComputationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboardComputationsTotal",
			Help: "Full pipeline runs (cache misses)",
		},
	)
	PipelineFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pipelineFallbacksTotal",
			Help: "Requests answered with the static fallback payload",
		},
	)
	BreakerTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breakerTransitionsTotal",
			Help: "Circuit breaker state transitions per provider",
		},
		[]string{"provider", "to"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ProviderCallsTotal, ProviderCallDuration, ProviderDegradationsTotal,
		CacheHitsTotal, CacheErrorsTotal,
		DashboardComputationsTotal, PipelineFallbacksTotal,
		BreakerTransitionsTotal,
		RateLimitDeniedTotal,
	)
}

// RecordBreakerTransition counts a circuit breaker state change for a provider.
func RecordBreakerTransition(provider, to string) {
	BreakerTransitionsTotal.WithLabelValues(provider, to).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
