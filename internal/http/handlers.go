package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/avaldezm/tempo-dashboard-service/internal/dashboard"
	"github.com/avaldezm/tempo-dashboard-service/internal/lifecycle"
	"github.com/avaldezm/tempo-dashboard-service/internal/traffic"
	"github.com/avaldezm/tempo-dashboard-service/internal/validation"
)

// ServiceName appears in health responses and log identification.
const ServiceName = "tempo-dashboard-service"

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	DegradedWindow      time.Duration
	DegradedFallbackPct int
	// CachePing, when set, is called to check cache reachability. Used when
	// backend is memcached.
	CachePing func() error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	dashboards       *dashboard.Service
	healthConfig     *HealthConfig
	logger           *zap.Logger
	rateLimiter      *rate.Limiter
	strictCoords     bool
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(dashboards *dashboard.Service, healthConfig *HealthConfig, logger *zap.Logger, rateLimiter *rate.Limiter, strictCoords bool) *Handler {
	return &Handler{
		dashboards:   dashboards,
		healthConfig: healthConfig,
		logger:       logger,
		rateLimiter:  rateLimiter,
		strictCoords: strictCoords,
	}
}

// GetDashboard handles GET /api/dashboard?lat={float}&lon={float}.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon, err := validation.ParseCoordinate(q.Get("lat"), q.Get("lon"), h.strictCoords)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_COORDINATE", err.Error())
		return
	}

	payload, err := h.dashboards.GetDashboard(r.Context(), lat, lon)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := make(map[string]string)
	if result.status == "degraded" {
		checks["pipeline"] = "unhealthy"
	} else {
		checks["pipeline"] = "healthy"
	}
	if h.healthConfig != nil && h.healthConfig.CachePing != nil {
		if h.healthConfig.CachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
		}
	}
	resp := map[string]interface{}{
		"status":    result.status,
		"service":   ServiceName,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// computeHealthStatus evaluates health conditions in priority order:
// shutting-down > degraded (sustained fallback rate) > healthy. A pipeline
// that keeps substituting the fallback payload still answers 200, so the
// sliding-window fallback rate is the only signal that it is broken.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig != nil && h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedFallbackPct > 0 {
		fallbacks, total := traffic.FallbackRate(h.healthConfig.DegradedWindow)
		if total > 0 {
			pct := float64(fallbacks) * 100 / float64(total)
			if pct >= float64(h.healthConfig.DegradedFallbackPct) {
				return healthResult{"degraded", http.StatusServiceUnavailable, "fallback_rate_breach"}
			}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code,
// message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}

// writeServiceError maps an error escaping the orchestrator to a coarse status
// code: 502 for transport-shaped failures, 500 otherwise. The orchestrator
// absorbs pipeline failures into the fallback payload, so in practice only
// context errors reach this path.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Error("dashboard request failed", zap.Error(err))
	}
	if isTransportError(err) {
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Error al conectar con las APIs externas")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno del servidor")
}

// isTransportError reports whether the error looks like a transport failure
// (timeout, cancellation, connection trouble).
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout")
}
