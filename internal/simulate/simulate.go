// Package simulate fabricates a tropospheric NO2 concentration from the
// requested coordinate, the current UTC hour and the observed wind speed.
// The model is intentionally synthetic, not a calibrated atmospheric model.
package simulate

import (
	"math"
	"time"

	"github.com/avaldezm/tempo-dashboard-service/internal/noise"
)

// cityAnchor is a major-city center that raises the urban emission factor.
type cityAnchor struct {
	lat, lon float64
}

// Within 2 degrees of any anchor the urban factor applies.
var cityAnchors = []cityAnchor{
	{19.43, -99.13},
	{40.7, -74.0},
	{34.0, -118.2},
	{25.7, -100.3},
	{32.5, -117.0},
}

// Engine derives synthetic NO2 concentrations. Safe for concurrent use as long
// as its noise source is.
type Engine struct {
	noise noise.Source
	now   func() time.Time // overridable in tests
}

// NewEngine returns an Engine drawing its noise term from src.
func NewEngine(src noise.Source) *Engine {
	return &Engine{noise: src, now: time.Now}
}

// Simulate returns the synthetic NO2 concentration for the coordinate under
// the given wind speed. The result is always >= 1.0 for any input and any
// noise draw.
func (e *Engine) Simulate(lat, lon, windSpeed float64) float64 {
	urbanFactor := 1.0
	if isUrbanArea(lat, lon) {
		urbanFactor = 2.5
	}

	hour := float64(e.now().UTC().Hour())
	trafficPattern := 1.0 + 0.5*math.Sin((hour-8)*math.Pi/12)

	windFactor := math.Max(0.3, 1.0-windSpeed*0.1)

	baseLevel := 8.0 + math.Abs(lat)*0.3
	no2 := baseLevel * urbanFactor * trafficPattern * windFactor

	return math.Max(1.0, no2+e.noise.Normal(0, 1.5))
}

// isUrbanArea reports whether the coordinate lies within 2 degrees of any
// major-city anchor.
func isUrbanArea(lat, lon float64) bool {
	for _, c := range cityAnchors {
		if math.Abs(lat-c.lat) < 2 && math.Abs(lon-c.lon) < 2 {
			return true
		}
	}
	return false
}
