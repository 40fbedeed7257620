// Package gateway is the best-effort boundary to the two external telemetry
// providers. Every failure mode — transport error, timeout, non-success
// status, malformed or missing field, open circuit — is absorbed here and
// surfaces to the pipeline as a missing sample, never as an error.
package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/avaldezm/tempo-dashboard-service/internal/breaker"
	"github.com/avaldezm/tempo-dashboard-service/internal/client"
	"github.com/avaldezm/tempo-dashboard-service/internal/observability"
)

// Gateway fetches particulate and weather samples, degrading to "unknown" on
// any provider failure.
type Gateway struct {
	air        client.AirQualityClient
	weather    client.WeatherClient
	airBrk     *breaker.Breaker
	weatherBrk *breaker.Breaker
	logger     *zap.Logger
}

// New creates a Gateway. airBrk and weatherBrk may be nil to disable circuit
// breaking for that provider.
func New(air client.AirQualityClient, weather client.WeatherClient, airBrk, weatherBrk *breaker.Breaker, logger *zap.Logger) *Gateway {
	return &Gateway{
		air:        air,
		weather:    weather,
		airBrk:     airBrk,
		weatherBrk: weatherBrk,
		logger:     logger,
	}
}

// Particulate returns the nearest measured PM2.5 value and true, or zero and
// false when the provider is unavailable or has no usable measurement.
func (g *Gateway) Particulate(ctx context.Context, lat, lon float64) (float64, bool) {
	var pm25 float64
	call := func() error {
		var err error
		pm25, err = g.air.LatestPM25(ctx, lat, lon)
		return err
	}

	var err error
	if g.airBrk != nil {
		err = g.airBrk.Call(call)
	} else {
		err = call()
	}
	if err != nil {
		g.recordDegradation("openaq", err)
		return 0, false
	}
	return pm25, true
}

// Weather returns current conditions and true, or a zero sample and false
// when the provider is unavailable.
func (g *Gateway) Weather(ctx context.Context, lat, lon float64) (client.WeatherSample, bool) {
	var sample client.WeatherSample
	call := func() error {
		var err error
		sample, err = g.weather.CurrentWeather(ctx, lat, lon)
		return err
	}

	var err error
	if g.weatherBrk != nil {
		err = g.weatherBrk.Call(call)
	} else {
		err = call()
	}
	if err != nil {
		g.recordDegradation("openmeteo", err)
		return client.WeatherSample{}, false
	}
	return sample, true
}

// recordDegradation counts and logs a provider degradation. Provider failures
// are expected operation, so they log at debug, not error.
func (g *Gateway) recordDegradation(provider string, err error) {
	observability.ProviderDegradationsTotal.WithLabelValues(provider).Inc()
	if g.logger != nil {
		g.logger.Debug("provider unavailable, degrading",
			zap.String("provider", provider),
			zap.Error(err))
	}
}
