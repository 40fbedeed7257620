// Package vulnerability maps an area classification and a pollutant level to
// an area-specific risk assessment: vulnerable population groups, an ordered
// risk level with escalation for dense areas, and human-readable risk factors.
package vulnerability

import (
	"github.com/avaldezm/tempo-dashboard-service/internal/geo"
	"github.com/avaldezm/tempo-dashboard-service/internal/models"
)

// Risk levels, ordered Bajo < Moderado < Alto < Muy Alto.
const (
	RiskLow      = "Bajo"
	RiskModerate = "Moderado"
	RiskHigh     = "Alto"
	RiskVeryHigh = "Muy Alto"
)

// Protection priorities.
const (
	PriorityHigh   = "Alta"
	PriorityMedium = "Media"
)

// Analyze produces the vulnerability assessment for an area type and NO2
// level. Pure function of its inputs.
func Analyze(area geo.AreaType, no2 float64) models.VulnerabilityAssessment {
	risk := riskLevel(no2, area)
	priority := PriorityMedium
	if risk == RiskHigh || risk == RiskVeryHigh {
		priority = PriorityHigh
	}
	return models.VulnerabilityAssessment{
		AreaType:           string(area),
		VulnerableGroups:   vulnerableGroups(area),
		RiskLevel:          risk,
		RiskFactors:        riskFactors(area, no2),
		ProtectionPriority: priority,
	}
}

// vulnerableGroups returns the baseline groups plus area-specific additions.
func vulnerableGroups(area geo.AreaType) []string {
	groups := []string{"children", "elderly", "asthmatics"}
	switch area {
	case geo.AreaUrbanCenter:
		groups = append(groups, "schools", "hospitals", "outdoor_workers")
	case geo.AreaIndustrial:
		groups = append(groups, "schools", "low_income", "outdoor_workers")
	case geo.AreaResidential:
		groups = append(groups, "schools", "elderly_communities")
	}
	return groups
}

// riskLevel applies the base threshold ladder, then escalates one tier for
// urban centers and industrial corridors when the base risk is Moderado or
// Alto. Bajo and Muy Alto are never escalated.
func riskLevel(no2 float64, area geo.AreaType) string {
	base := RiskLow
	switch {
	case no2 > 60:
		base = RiskVeryHigh
	case no2 > 40:
		base = RiskHigh
	case no2 > 20:
		base = RiskModerate
	}

	if area == geo.AreaUrbanCenter || area == geo.AreaIndustrial {
		switch base {
		case RiskModerate:
			return RiskHigh
		case RiskHigh:
			return RiskVeryHigh
		}
	}
	return base
}

// riskFactors lists the applicable factor descriptions, or a normal-conditions
// marker when none apply.
func riskFactors(area geo.AreaType, no2 float64) []string {
	var factors []string
	if no2 > 30 {
		factors = append(factors, "Alta concentración de NO2")
	}
	if area == geo.AreaUrbanCenter {
		factors = append(factors, "Alta densidad de tráfico")
	}
	if area == geo.AreaIndustrial {
		factors = append(factors, "Proximidad a zonas industriales")
	}
	if len(factors) == 0 {
		factors = append(factors, "Condiciones normales")
	}
	return factors
}
