// Package geo classifies coordinates into categorical area types using fixed
// reference-point proximity rules.
package geo

import "math"

// AreaType is the categorical geographic classification of a coordinate.
type AreaType string

const (
	AreaUrbanCenter AreaType = "urban_center"
	AreaIndustrial  AreaType = "industrial"
	AreaResidential AreaType = "residential"
)

// referenceArea is one rectangular proximity rule: a coordinate matches when
// both axes are within tolerance degrees of the anchor.
type referenceArea struct {
	lat, lon  float64
	tolerance float64
	area      AreaType
}

// referenceAreas is evaluated in order; the first match wins. Order matters
// because wider industrial tolerances could overlap the urban anchors.
var referenceAreas = []referenceArea{
	{19.43, -99.13, 0.5, AreaUrbanCenter},  // Mexico City
	{40.7, -74.0, 0.5, AreaUrbanCenter},    // New York
	{34.0, -118.2, 0.5, AreaUrbanCenter},   // Los Angeles
	{25.7, -100.3, 1.0, AreaIndustrial},    // Monterrey corridor
	{32.5, -117.0, 1.0, AreaIndustrial},    // Tijuana corridor
}

// Classify maps a coordinate to its area type. Deterministic and total: every
// coordinate yields exactly one of urban_center, industrial, residential.
func Classify(lat, lon float64) AreaType {
	for _, ref := range referenceAreas {
		if math.Abs(lat-ref.lat) < ref.tolerance && math.Abs(lon-ref.lon) < ref.tolerance {
			return ref.area
		}
	}
	return AreaResidential
}
