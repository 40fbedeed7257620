package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/avaldezm/tempo-dashboard-service/internal/breaker"
	"github.com/avaldezm/tempo-dashboard-service/internal/cache"
	"github.com/avaldezm/tempo-dashboard-service/internal/client"
	"github.com/avaldezm/tempo-dashboard-service/internal/config"
	"github.com/avaldezm/tempo-dashboard-service/internal/dashboard"
	"github.com/avaldezm/tempo-dashboard-service/internal/gateway"
	httphandler "github.com/avaldezm/tempo-dashboard-service/internal/http"
	"github.com/avaldezm/tempo-dashboard-service/internal/lifecycle"
	"github.com/avaldezm/tempo-dashboard-service/internal/noise"
	"github.com/avaldezm/tempo-dashboard-service/internal/observability"
	"github.com/avaldezm/tempo-dashboard-service/internal/simulate"
	"github.com/avaldezm/tempo-dashboard-service/internal/trend"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	airClient := client.NewOpenAQClient(cfg.OpenAQURL, cfg.ProviderRadiusM, cfg.ProviderTimeout)
	weatherClient := client.NewOpenMeteoClient(cfg.OpenMeteoURL, cfg.ProviderTimeout)

	var airBrk, weatherBrk *breaker.Breaker
	if cfg.BreakerEnabled {
		airBrk = newProviderBreaker("openaq", cfg)
		weatherBrk = newProviderBreaker("openmeteo", cfg)
		logger.Info("provider circuit breakers enabled",
			zap.Int("failure_threshold", cfg.BreakerFailureThreshold),
			zap.Duration("timeout", cfg.BreakerTimeout))
	}
	gw := gateway.New(airClient, weatherClient, airBrk, weatherBrk, logger)

	var resultCache cache.Cache
	var memcacheCloser *cache.MemcachedCache
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached cache", zap.Error(err))
		}
		memcacheCloser = mc
		resultCache = mc
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		lc, err := cache.NewLRUCache(cfg.CacheSize)
		if err != nil {
			logger.Fatal("lru cache", zap.Error(err))
		}
		resultCache = lc
		logger.Info("cache backend: in_memory", zap.Int("size", cfg.CacheSize))
	}

	// Separate noise streams for simulation and trend generation. A nonzero
	// configured seed derives both deterministically.
	simSeed, trendSeed := cfg.NoiseSeed, cfg.NoiseSeed
	if cfg.NoiseSeed != 0 {
		trendSeed = cfg.NoiseSeed + 1
	}
	engine := simulate.NewEngine(noise.NewSource(simSeed))
	trends := trend.NewGenerator(noise.NewSource(trendSeed))

	dashboards := dashboard.NewService(gw, engine, trends, resultCache, cfg.CacheTTL, logger)

	healthConfig := &httphandler.HealthConfig{
		DegradedWindow:      cfg.DegradedWindow,
		DegradedFallbackPct: cfg.DegradedFallbackPct,
	}
	if memcacheCloser != nil {
		healthConfig.CachePing = memcacheCloser.Ping
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	handler := httphandler.NewHandler(dashboards, healthConfig, logger, limiter, cfg.StrictCoordinates)

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/api/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	apiRouter := router.PathPrefix("/api/dashboard").Subrouter()
	apiRouter.Use(httphandler.RateLimitMiddleware(limiter))
	apiRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	apiRouter.HandleFunc("", handler.GetDashboard).Methods("GET")

	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			router.PathPrefix("/static/").Handler(
				http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
			index := filepath.Join(cfg.StaticDir, "index.html")
			router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				http.ServeFile(w, r, index)
			}).Methods("GET")
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}

// newProviderBreaker builds a circuit breaker reporting its transitions under
// the provider's metric label.
func newProviderBreaker(provider string, cfg *config.Config) *breaker.Breaker {
	return breaker.New(breaker.Config{
		FailureThreshold: cfg.BreakerFailureThreshold,
		SuccessThreshold: cfg.BreakerSuccessThreshold,
		Timeout:          cfg.BreakerTimeout,
		OnStateChange: func(from, to breaker.State) {
			observability.RecordBreakerTransition(provider, to.String())
		},
	})
}
