// Package dashboard sequences the estimation-and-advisory pipeline: gateway
// telemetry, NO2 simulation, geographic classification, vulnerability
// analysis, recommendations and the visualization series, memoized per
// rounded coordinate in a shared result cache.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/avaldezm/tempo-dashboard-service/internal/advisory"
	"github.com/avaldezm/tempo-dashboard-service/internal/airindex"
	"github.com/avaldezm/tempo-dashboard-service/internal/cache"
	"github.com/avaldezm/tempo-dashboard-service/internal/client"
	"github.com/avaldezm/tempo-dashboard-service/internal/geo"
	"github.com/avaldezm/tempo-dashboard-service/internal/models"
	"github.com/avaldezm/tempo-dashboard-service/internal/observability"
	"github.com/avaldezm/tempo-dashboard-service/internal/traffic"
	"github.com/avaldezm/tempo-dashboard-service/internal/trend"
	"github.com/avaldezm/tempo-dashboard-service/internal/vulnerability"
)

// ErrPipelineComputation marks an unexpected failure inside the pipeline.
// Distinct from provider unavailability, which the gateway absorbs silently:
// a fallback caused by this error means the service itself is broken.
var ErrPipelineComputation = errors.New("pipeline computation failure")

// defaultPM25 substitutes the particulate estimate when no station reading is
// available.
const defaultPM25 = 15.5

const (
	dataSourceLive     = "NASA TEMPO Simulation + OpenAQ + Open-Meteo"
	dataSourceFallback = "Fallback data"
	spatialResolution  = "2km x 5.5km"
)

// DataGateway is the best-effort telemetry boundary the orchestrator consumes.
type DataGateway interface {
	Particulate(ctx context.Context, lat, lon float64) (float64, bool)
	Weather(ctx context.Context, lat, lon float64) (client.WeatherSample, bool)
}

// Simulator derives the synthetic NO2 concentration.
type Simulator interface {
	Simulate(lat, lon, windSpeed float64) float64
}

// TrendGenerator produces the synthetic visualization series.
type TrendGenerator interface {
	History(lat float64) []models.TrendPoint
	Forecast(lat float64) []models.ForecastPoint
}

// Service is the dashboard orchestrator. Invocations are stateless except for
// the shared result cache, so they may run concurrently.
type Service struct {
	gateway DataGateway
	sim     Simulator
	trends  TrendGenerator
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time // overridable in tests
}

// NewService creates the orchestrator. ttl is the result cache lifetime.
func NewService(gw DataGateway, sim Simulator, trends TrendGenerator, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		gateway: gw,
		sim:     sim,
		trends:  trends,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// GetDashboard returns the aggregated payload for a coordinate. A fresh cache
// entry short-circuits the pipeline; otherwise the full pipeline runs and the
// result is cached under the rounded coordinate. Any unexpected pipeline
// failure is absorbed here: the caller receives the static fallback payload
// (never cached), not an error.
func (s *Service) GetDashboard(ctx context.Context, lat, lon float64) (models.DashboardPayload, error) {
	if err := ctx.Err(); err != nil {
		return models.DashboardPayload{}, err
	}

	key := cache.Key(lat, lon)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		observability.CacheErrorsTotal.WithLabelValues("get").Inc()
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		observability.CacheHitsTotal.Inc()
		s.logger.Debug("cache hit", zap.String("key", key))
		return cached, nil
	}

	observability.DashboardComputationsTotal.Inc()
	payload, err := s.compute(ctx, lat, lon)
	if err != nil {
		observability.PipelineFallbacksTotal.Inc()
		traffic.RecordFallback()
		s.logger.Error("pipeline failed, serving fallback",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return s.fallback(lat, lon), nil
	}

	if setErr := s.cache.Set(ctx, key, payload, s.ttl); setErr != nil {
		observability.CacheErrorsTotal.WithLabelValues("set").Inc()
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(setErr))
	}
	traffic.RecordServed()
	return payload, nil
}

// compute runs the full pipeline once. A panic anywhere inside surfaces as
// ErrPipelineComputation so the caller can substitute the fallback payload.
func (s *Service) compute(ctx context.Context, lat, lon float64) (payload models.DashboardPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPipelineComputation, r)
		}
	}()

	pm25, pmOK := s.gateway.Particulate(ctx, lat, lon)
	if !pmOK {
		pm25 = defaultPM25
	}
	wx, wxOK := s.gateway.Weather(ctx, lat, lon)
	if !wxOK {
		wx = client.WeatherSample{Temperature: 20, WindSpeed: 5, Humidity: 60}
	}

	no2 := s.sim.Simulate(lat, lon, wx.WindSpeed)
	area := geo.Classify(lat, lon)
	assessment := vulnerability.Analyze(area, no2)
	recommendations := advisory.Recommend(no2, assessment.VulnerableGroups)

	now := s.now().UTC()
	payload = models.DashboardPayload{
		AirQuality: models.AirQualityReading{
			NO2Tropospheric: round2(no2),
			PM25:            pm25,
			QualityIndex:    airindex.Quality(no2),
			AQIValue:        airindex.AQI(no2),
			Timestamp:       now,
		},
		Weather: models.WeatherSnapshot{
			Temperature: wx.Temperature,
			WindSpeed:   wx.WindSpeed,
			Humidity:    wx.Humidity,
			Condition:   weatherCondition(wx.Temperature),
		},
		Vulnerability:   assessment,
		Recommendations: recommendations,
		Visualization: models.VisualizationData{
			HistoricalTrend: s.trends.History(lat),
			Forecast:        s.trends.Forecast(lat),
			RiskMap:         trend.RiskMap(lat, lon),
		},
		Metadata: models.Metadata{
			DataSource:  dataSourceLive,
			Location:    fmt.Sprintf("%v, %v", lat, lon),
			LastUpdated: now,
			Resolution:  spatialResolution,
		},
	}
	return payload, nil
}

// weatherCondition labels the temperature band.
func weatherCondition(temp float64) string {
	switch {
	case temp > 30:
		return "Caluroso"
	case temp > 20:
		return "Templado"
	default:
		return "Frío"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
