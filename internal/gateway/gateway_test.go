package gateway

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/avaldezm/tempo-dashboard-service/internal/breaker"
	"github.com/avaldezm/tempo-dashboard-service/internal/client"
)

type fakeAirClient struct {
	pm25  float64
	err   error
	calls int
}

func (f *fakeAirClient) LatestPM25(ctx context.Context, lat, lon float64) (float64, error) {
	f.calls++
	return f.pm25, f.err
}

type fakeWeatherClient struct {
	sample client.WeatherSample
	err    error
	calls  int
}

func (f *fakeWeatherClient) CurrentWeather(ctx context.Context, lat, lon float64) (client.WeatherSample, error) {
	f.calls++
	return f.sample, f.err
}

// TestGateway_Particulate verifies a successful lookup passes through.
func TestGateway_Particulate(t *testing.T) {
	air := &fakeAirClient{pm25: 18.3}
	g := New(air, &fakeWeatherClient{}, nil, nil, zap.NewNop())

	got, ok := g.Particulate(context.Background(), 19.43, -99.13)
	if !ok || got != 18.3 {
		t.Errorf("Particulate() = (%v, %v), want (18.3, true)", got, ok)
	}
}

// TestGateway_Particulate_Degrades verifies any client error degrades to
// (0, false) instead of propagating.
func TestGateway_Particulate_Degrades(t *testing.T) {
	air := &fakeAirClient{err: client.ErrUpstreamFailure}
	g := New(air, &fakeWeatherClient{}, nil, nil, zap.NewNop())

	got, ok := g.Particulate(context.Background(), 19.43, -99.13)
	if ok || got != 0 {
		t.Errorf("Particulate() = (%v, %v), want (0, false) on provider failure", got, ok)
	}
}

// TestGateway_Weather verifies success and degradation paths.
func TestGateway_Weather(t *testing.T) {
	want := client.WeatherSample{Temperature: 23.5, WindSpeed: 11.8, Humidity: 71.4}
	g := New(&fakeAirClient{}, &fakeWeatherClient{sample: want}, nil, nil, zap.NewNop())

	got, ok := g.Weather(context.Background(), 19.43, -99.13)
	if !ok || got != want {
		t.Errorf("Weather() = (%+v, %v), want (%+v, true)", got, ok, want)
	}

	g = New(&fakeAirClient{}, &fakeWeatherClient{err: errors.New("boom")}, nil, nil, zap.NewNop())
	got, ok = g.Weather(context.Background(), 19.43, -99.13)
	if ok || got != (client.WeatherSample{}) {
		t.Errorf("Weather() = (%+v, %v), want zero sample and false on failure", got, ok)
	}
}

// TestGateway_BreakerSkipsFlappingProvider verifies that once the breaker
// opens, subsequent calls degrade without reaching the provider client.
func TestGateway_BreakerSkipsFlappingProvider(t *testing.T) {
	air := &fakeAirClient{err: client.ErrUpstreamFailure}
	brk := breaker.New(breaker.Config{FailureThreshold: 1})
	g := New(air, &fakeWeatherClient{}, brk, nil, zap.NewNop())

	if _, ok := g.Particulate(context.Background(), 19.43, -99.13); ok {
		t.Fatal("first call should degrade")
	}
	if air.calls != 1 {
		t.Fatalf("client calls = %d, want 1", air.calls)
	}

	if _, ok := g.Particulate(context.Background(), 19.43, -99.13); ok {
		t.Fatal("second call should degrade")
	}
	if air.calls != 1 {
		t.Errorf("client calls = %d, want 1 (breaker open skips the provider)", air.calls)
	}
}
