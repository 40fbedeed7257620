package trend

import (
	"testing"
	"time"

	"github.com/avaldezm/tempo-dashboard-service/internal/airindex"
	"github.com/avaldezm/tempo-dashboard-service/internal/noise"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
}

// TestHistory_ShapeAndOrder verifies exactly 7 points with strictly ascending
// dates ending on the current day.
func TestHistory_ShapeAndOrder(t *testing.T) {
	g := NewGenerator(noise.Fixed(0))
	g.now = fixedClock

	points := g.History(19.43)
	if len(points) != 7 {
		t.Fatalf("History() returned %d points, want 7", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Date <= points[i-1].Date {
			t.Errorf("dates not ascending: %q then %q", points[i-1].Date, points[i].Date)
		}
	}
	if last := points[6].Date; last != "2025-06-15" {
		t.Errorf("last date = %q, want today 2025-06-15", last)
	}
	if first := points[0].Date; first != "2025-06-09" {
		t.Errorf("first date = %q, want 2025-06-09", first)
	}
}

// TestHistory_Floor verifies values never drop below 5 even under an extreme
// negative noise draw.
func TestHistory_Floor(t *testing.T) {
	g := NewGenerator(noise.Fixed(-500))
	g.now = fixedClock

	for _, p := range g.History(0) {
		if p.NO2 != 5 {
			t.Errorf("point %s NO2 = %v, want floor 5", p.Date, p.NO2)
		}
	}
}

// TestHistory_QualityFromBase verifies the quality label comes from the
// noiseless base: at the equator the base stays under 20, so every label is
// Buena regardless of noise.
func TestHistory_QualityFromBase(t *testing.T) {
	g := NewGenerator(noise.Fixed(100))
	g.now = fixedClock

	for _, p := range g.History(0) {
		if p.Quality != airindex.QualityGood {
			t.Errorf("point %s quality = %q, want %q", p.Date, p.Quality, airindex.QualityGood)
		}
	}
}

// TestForecast_ShapeAndWrap verifies exactly 24 points starting at the
// current UTC hour and wrapping mod 24.
func TestForecast_ShapeAndWrap(t *testing.T) {
	g := NewGenerator(noise.Fixed(0))
	g.now = fixedClock

	points := g.Forecast(19.43)
	if len(points) != 24 {
		t.Fatalf("Forecast() returned %d points, want 24", len(points))
	}
	for i, p := range points {
		want := (10 + i) % 24
		if p.Hour != want {
			t.Errorf("point %d hour = %d, want %d", i, p.Hour, want)
		}
	}
}

// TestForecast_TrafficPeak verifies commute hours carry the 2.0 peak factor:
// at latitude 40 the noiseless value is 8 + 12*peak.
func TestForecast_TrafficPeak(t *testing.T) {
	g := NewGenerator(noise.Fixed(0))
	g.now = fixedClock

	for _, p := range g.Forecast(40) {
		want := 20.0
		if (p.Hour >= 7 && p.Hour <= 9) || (p.Hour >= 17 && p.Hour <= 19) {
			want = 32.0
		}
		if p.NO2 != want {
			t.Errorf("hour %d NO2 = %v, want %v", p.Hour, p.NO2, want)
		}
	}
}

// TestForecast_Floor verifies forecast values never drop below 5.
func TestForecast_Floor(t *testing.T) {
	g := NewGenerator(noise.Fixed(-500))
	g.now = fixedClock

	for _, p := range g.Forecast(0) {
		if p.NO2 != 5 {
			t.Errorf("hour %d NO2 = %v, want floor 5", p.Hour, p.NO2)
		}
	}
}

// TestRiskMap verifies the overlay centers on the coordinate with one
// high-risk zone offset northeast.
func TestRiskMap(t *testing.T) {
	m := RiskMap(19.43, -99.13)
	if m.Center != [2]float64{19.43, -99.13} {
		t.Errorf("Center = %v", m.Center)
	}
	if len(m.RiskZones) != 1 {
		t.Fatalf("RiskZones = %v, want 1 zone", m.RiskZones)
	}
	z := m.RiskZones[0]
	if z.Coords != [2]float64{19.43 + 0.01, -99.13 + 0.01} || z.Risk != "high" || z.Radius != 1000 {
		t.Errorf("zone = %+v", z)
	}
}
