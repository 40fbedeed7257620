// Package airindex derives coarse quality labels and AQI-like index values
// from a tropospheric NO2 concentration. The same thresholds are used by the
// live reading, the historical trend and the hourly forecast so the dashboard
// stays internally consistent.
package airindex

// Quality labels, ordered from best to worst.
const (
	QualityGood     = "Buena"
	QualityModerate = "Moderada"
	QualityBad      = "Mala"
	QualityVeryBad  = "Muy Mala"
)

// Quality maps an NO2 concentration to its categorical label.
// Thresholds: <20 Buena, <40 Moderada, <60 Mala, else Muy Mala.
func Quality(no2 float64) string {
	switch {
	case no2 < 20:
		return QualityGood
	case no2 < 40:
		return QualityModerate
	case no2 < 60:
		return QualityBad
	default:
		return QualityVeryBad
	}
}

// AQI maps an NO2 concentration to the coarse AQI-like severity score.
func AQI(no2 float64) int {
	switch {
	case no2 < 20:
		return 25
	case no2 < 40:
		return 50
	case no2 < 60:
		return 75
	default:
		return 100
	}
}
