// Package advisory is the rule table mapping a pollutant level and the
// vulnerable groups present in an area to per-audience recommendation lists.
package advisory

import (
	"slices"

	"github.com/avaldezm/tempo-dashboard-service/internal/models"
)

// Recommend builds the advisory lists for the given NO2 level and vulnerable
// groups. Each audience has its own threshold ladder; lists accumulate within
// the matched bucket only (buckets are not cumulative). Empty lists are valid.
func Recommend(no2 float64, groups []string) models.RecommendationSet {
	set := models.RecommendationSet{
		General:          []string{},
		ForSchools:       []string{},
		ForElderly:       []string{},
		ForHealthCenters: []string{},
		ImmediateActions: []string{},
	}

	switch {
	case no2 > 40:
		set.General = append(set.General,
			"Evitar actividades al aire libre prolongadas",
			"Usar mascarilla en exteriores",
			"Mantener ventanas cerradas",
		)
		set.ImmediateActions = append(set.ImmediateActions,
			"Activar protocolos de calidad del aire")
	case no2 > 20:
		set.General = append(set.General,
			"Limitar actividades físicas intensas al aire libre",
			"Monitorear síntomas respiratorios",
		)
	default:
		set.General = append(set.General,
			"Calidad del aire aceptable, tomar precauciones normales")
	}

	if slices.Contains(groups, "schools") {
		switch {
		case no2 > 35:
			set.ForSchools = append(set.ForSchools,
				"Suspender educación física al aire libre",
				"Mantener estudiantes en interiores durante recreo",
				"Activar sistema de purificación de aire en aulas",
			)
		case no2 > 20:
			set.ForSchools = append(set.ForSchools,
				"Reducir tiempo de actividades al aire libre",
				"Monitorear estudiantes con asma o condiciones respiratorias",
			)
		}
	}

	if slices.Contains(groups, "elderly") {
		switch {
		case no2 > 30:
			set.ForElderly = append(set.ForElderly,
				"Evitar salidas no esenciales",
				"Realizar ejercicios en interiores",
				"Monitorear síntomas respiratorios",
			)
		case no2 > 20:
			set.ForElderly = append(set.ForElderly,
				"Limitar tiempo al aire libre",
				"Tener medicamentos respiratorios a mano",
			)
		}
	}

	if slices.Contains(groups, "hospitals") && no2 > 30 {
		set.ForHealthCenters = append(set.ForHealthCenters,
			"Prepararse para posible aumento de casos respiratorios",
			"Revisar inventario de medicamentos para asma",
			"Alertar personal sobre condiciones ambientales",
		)
	}

	return set
}
