package simulate

import (
	"math"
	"testing"
	"time"

	"github.com/avaldezm/tempo-dashboard-service/internal/noise"
)

// fixedClock pins the engine to 14:00 UTC, where the diurnal traffic pattern
// is at its peak (1.5).
func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
}

// TestSimulate_Floor verifies the result is >= 1.0 for any input and any
// noise draw, including a pathologically negative one.
func TestSimulate_Floor(t *testing.T) {
	e := NewEngine(noise.Fixed(-1000))
	e.now = fixedClock

	coords := [][2]float64{
		{19.43, -99.13}, {0, 0}, {-89, 170}, {40.7, -74.0},
	}
	for _, c := range coords {
		if got := e.Simulate(c[0], c[1], 0); got != 1.0 {
			t.Errorf("Simulate(%v, %v, 0) = %v, want floor 1.0", c[0], c[1], got)
		}
	}
}

// TestSimulate_UrbanFactor verifies a coordinate near a major-city anchor
// yields 2.5x the concentration of a remote coordinate at the same latitude,
// all other factors held constant.
func TestSimulate_UrbanFactor(t *testing.T) {
	e := NewEngine(noise.Fixed(0))
	e.now = fixedClock

	urban := e.Simulate(19.43, -99.13, 0)
	remote := e.Simulate(19.43, 10, 0)
	if math.Abs(urban-2.5*remote) > 1e-9 {
		t.Errorf("urban = %v, remote = %v, want urban = 2.5 * remote", urban, remote)
	}
}

// TestSimulate_WindFactorFloor verifies the wind suppression factor bottoms
// out at 0.3: wind speeds of 7 and 20 produce identical output.
func TestSimulate_WindFactorFloor(t *testing.T) {
	e := NewEngine(noise.Fixed(0))
	e.now = fixedClock

	at7 := e.Simulate(19.43, 10, 7)
	at20 := e.Simulate(19.43, 10, 20)
	if at7 != at20 {
		t.Errorf("wind 7 = %v, wind 20 = %v, want equal (factor floored at 0.3)", at7, at20)
	}

	calm := e.Simulate(19.43, 10, 0)
	if at7 >= calm {
		t.Errorf("windy %v should be below calm %v", at7, calm)
	}
}

// TestSimulate_Formula verifies the full formula at a known operating point:
// remote latitude 40 at 14:00 UTC, calm wind, zero noise.
func TestSimulate_Formula(t *testing.T) {
	e := NewEngine(noise.Fixed(0))
	e.now = fixedClock

	// base 8 + 40*0.3 = 20; traffic 1 + 0.5*sin(6*pi/12) = 1.5; wind 1.0.
	want := 20.0 * 1.5
	got := e.Simulate(40, 10, 0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Simulate(40, 10, 0) = %v, want %v", got, want)
	}
}

// TestIsUrbanArea covers the 2-degree anchor proximity check.
func TestIsUrbanArea(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"mexico city", 19.43, -99.13, true},
		{"within two degrees", 21.0, -98.0, true},
		{"tijuana anchor", 32.5, -117.0, true},
		{"remote", 19.43, 10, false},
		{"just outside", 19.43, -96.9, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUrbanArea(tc.lat, tc.lon); got != tc.want {
				t.Errorf("isUrbanArea(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}
