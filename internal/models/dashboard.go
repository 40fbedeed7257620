package models

import "time"

// AirQualityReading holds the synthetic tropospheric NO2 estimate together with
// the measured particulate value (or its default) and the derived quality labels.
type AirQualityReading struct {
	NO2Tropospheric float64   `json:"no2_tropospheric"`
	PM25            float64   `json:"pm25"`
	QualityIndex    string    `json:"quality_index"`
	AQIValue        int       `json:"aqi_value"`
	Timestamp       time.Time `json:"timestamp"`
}

// WeatherSnapshot is the current-conditions view shown on the dashboard.
// Fields fall back to defaults (20 C / 5 / 60) when the provider is unavailable.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"condition"`
}

// VulnerabilityAssessment describes area-specific exposure risk.
type VulnerabilityAssessment struct {
	AreaType           string   `json:"area_type"`
	VulnerableGroups   []string `json:"vulnerable_groups"`
	RiskLevel          string   `json:"risk_level"`
	RiskFactors        []string `json:"risk_factors"`
	ProtectionPriority string   `json:"protection_priority"`
}

// RecommendationSet holds per-audience advisory lists. Empty lists are valid.
type RecommendationSet struct {
	General          []string `json:"general"`
	ForSchools       []string `json:"for_schools"`
	ForElderly       []string `json:"for_elderly"`
	ForHealthCenters []string `json:"for_health_centers"`
	ImmediateActions []string `json:"immediate_actions"`
}

// TrendPoint is one day of the synthetic 7-day historical series.
type TrendPoint struct {
	Date    string  `json:"date"`
	NO2     float64 `json:"no2"`
	Quality string  `json:"quality"`
}

// ForecastPoint is one hour of the synthetic 24-hour forward series.
type ForecastPoint struct {
	Hour    int     `json:"hour"`
	NO2     float64 `json:"no2"`
	Quality string  `json:"quality"`
}

// RiskZone marks a map overlay zone around the requested coordinate.
type RiskZone struct {
	Coords [2]float64 `json:"coords"`
	Risk   string     `json:"risk"`
	Radius int        `json:"radius"`
}

// RiskMap is the map-overlay portion of the visualization data.
type RiskMap struct {
	Center    [2]float64 `json:"center"`
	RiskZones []RiskZone `json:"risk_zones"`
}

// VisualizationData groups the chart series and the map overlay.
type VisualizationData struct {
	HistoricalTrend []TrendPoint    `json:"historical_trend"`
	Forecast        []ForecastPoint `json:"forecast"`
	RiskMap         RiskMap         `json:"risk_map"`
}

// Metadata labels the payload with its data provenance and spatial resolution.
type Metadata struct {
	DataSource  string    `json:"data_source"`
	Location    string    `json:"location"`
	LastUpdated time.Time `json:"last_updated"`
	Resolution  string    `json:"resolution"`
}

// DashboardPayload is the single aggregate returned per dashboard request.
// It is assembled once per pipeline run and returned by value.
type DashboardPayload struct {
	AirQuality      AirQualityReading       `json:"air_quality"`
	Weather         WeatherSnapshot         `json:"weather"`
	Vulnerability   VulnerabilityAssessment `json:"vulnerability_analysis"`
	Recommendations RecommendationSet       `json:"recommendations"`
	Visualization   VisualizationData       `json:"visualization_data"`
	Metadata        Metadata                `json:"metadata"`
}
