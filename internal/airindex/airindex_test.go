package airindex

import "testing"

// TestQualityAndAQI verifies the shared threshold ladder: <20 Buena/25,
// <40 Moderada/50, <60 Mala/75, else Muy Mala/100, including the boundaries.
func TestQualityAndAQI(t *testing.T) {
	tests := []struct {
		name        string
		no2         float64
		wantQuality string
		wantAQI     int
	}{
		{"well below first threshold", 5, QualityGood, 25},
		{"just below first threshold", 19.99, QualityGood, 25},
		{"first boundary", 20, QualityModerate, 50},
		{"mid moderate", 30, QualityModerate, 50},
		{"second boundary", 40, QualityBad, 75},
		{"mid bad", 55, QualityBad, 75},
		{"third boundary", 60, QualityVeryBad, 100},
		{"extreme", 250, QualityVeryBad, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Quality(tc.no2); got != tc.wantQuality {
				t.Errorf("Quality(%v) = %q, want %q", tc.no2, got, tc.wantQuality)
			}
			if got := AQI(tc.no2); got != tc.wantAQI {
				t.Errorf("AQI(%v) = %d, want %d", tc.no2, got, tc.wantAQI)
			}
		})
	}
}
