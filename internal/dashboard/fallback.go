package dashboard

import (
	"fmt"

	"github.com/avaldezm/tempo-dashboard-service/internal/airindex"
	"github.com/avaldezm/tempo-dashboard-service/internal/models"
	"github.com/avaldezm/tempo-dashboard-service/internal/trend"
	"github.com/avaldezm/tempo-dashboard-service/internal/vulnerability"
)

// fallback builds the static degraded payload served when the pipeline fails.
// The trend and forecast series are still generated fresh; those generators
// have no external inputs and are treated as infallible.
func (s *Service) fallback(lat, lon float64) models.DashboardPayload {
	now := s.now().UTC()
	return models.DashboardPayload{
		AirQuality: models.AirQualityReading{
			NO2Tropospheric: 15.0,
			PM25:            defaultPM25,
			QualityIndex:    airindex.QualityModerate,
			AQIValue:        50,
			Timestamp:       now,
		},
		Weather: models.WeatherSnapshot{
			Temperature: 22.0,
			WindSpeed:   5.0,
			Humidity:    60.0,
			Condition:   "Templado",
		},
		Vulnerability: models.VulnerabilityAssessment{
			AreaType:           "residential",
			RiskLevel:          vulnerability.RiskModerate,
			VulnerableGroups:   []string{"children", "elderly", "schools"},
			RiskFactors:        []string{"Datos limitados disponibles"},
			ProtectionPriority: vulnerability.PriorityMedium,
		},
		Recommendations: models.RecommendationSet{
			General: []string{
				"Monitorear calidad del aire",
				"Evitar zonas de alto tráfico",
			},
			ForSchools: []string{
				"Limitar recreo al aire libre si la calidad empeora",
			},
			ForElderly: []string{
				"Tomar precauciones normales",
			},
			ForHealthCenters: []string{
				"Estar preparado para consultas respiratorias",
			},
			ImmediateActions: []string{},
		},
		Visualization: models.VisualizationData{
			HistoricalTrend: s.trends.History(lat),
			Forecast:        s.trends.Forecast(lat),
			RiskMap:         trend.RiskMap(lat, lon),
		},
		Metadata: models.Metadata{
			DataSource:  dataSourceFallback,
			Location:    fmt.Sprintf("%v, %v", lat, lon),
			LastUpdated: now,
			Resolution:  spatialResolution,
		},
	}
}
