// Package trend produces the synthetic visualization series: a 7-day
// historical trend, a 24-hour forecast and the static risk-map overlay.
// Both series are independent of live telemetry and of the simulation
// engine's noise stream, but share its quality-labeling thresholds.
package trend

import (
	"math"
	"time"

	"github.com/avaldezm/tempo-dashboard-service/internal/airindex"
	"github.com/avaldezm/tempo-dashboard-service/internal/models"
	"github.com/avaldezm/tempo-dashboard-service/internal/noise"
)

// Generator produces the synthetic chart series. Safe for concurrent use as
// long as its noise source is.
type Generator struct {
	noise noise.Source
	now   func() time.Time // overridable in tests
}

// NewGenerator returns a Generator drawing from src. Use a source separate
// from the simulation engine's so the streams stay independent.
func NewGenerator(src noise.Source) *Generator {
	return &Generator{noise: src, now: time.Now}
}

// History returns exactly 7 daily points with ascending dates ending today.
// Values are floored at 5; the quality label derives from the noiseless base.
func (g *Generator) History(lat float64) []models.TrendPoint {
	const days = 7
	now := g.now().UTC()
	points := make([]models.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - i - 1))
		base := 10 + math.Abs(lat)*0.3 + math.Sin(float64(i)*0.5)*8
		points = append(points, models.TrendPoint{
			Date:    date.Format("2006-01-02"),
			NO2:     round2(math.Max(5, base+g.noise.Normal(0, 3))),
			Quality: airindex.Quality(base),
		})
	}
	return points
}

// Forecast returns exactly 24 hourly points starting at the current UTC hour
// and wrapping mod 24. Commute hours (7-9 and 17-19) carry a traffic peak
// factor. Values are floored at 5.
func (g *Generator) Forecast(lat float64) []models.ForecastPoint {
	const hours = 24
	currentHour := g.now().UTC().Hour()
	points := make([]models.ForecastPoint, 0, hours)
	for h := 0; h < hours; h++ {
		futureHour := (currentHour + h) % 24
		trafficPeak := 1.0
		if (futureHour >= 7 && futureHour <= 9) || (futureHour >= 17 && futureHour <= 19) {
			trafficPeak = 2.0
		}
		base := 8 + math.Abs(lat)*0.3*trafficPeak
		points = append(points, models.ForecastPoint{
			Hour:    futureHour,
			NO2:     round2(math.Max(5, base+g.noise.Normal(0, 2))),
			Quality: airindex.Quality(base),
		})
	}
	return points
}

// RiskMap returns the map overlay centered on the coordinate with a single
// high-risk zone offset to its northeast.
func RiskMap(lat, lon float64) models.RiskMap {
	return models.RiskMap{
		Center: [2]float64{lat, lon},
		RiskZones: []models.RiskZone{
			{
				Coords: [2]float64{lat + 0.01, lon + 0.01},
				Risk:   "high",
				Radius: 1000,
			},
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
