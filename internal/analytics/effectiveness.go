package analytics

import (
	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// =============================================================================
// Symptom Effectiveness
// =============================================================================

// LabelEffectiveness bands a before/after reduction ratio
func LabelEffectiveness(ratio float64) models.EffectivenessLabel {
	switch {
	case ratio >= 0.7:
		return models.EffectivenessHighly
	case ratio >= 0.5:
		return models.EffectivenessModerately
	case ratio >= 0.3:
		return models.EffectivenessSomewhat
	case ratio >= 0.1:
		return models.EffectivenessSlightly
	case ratio > -0.1:
		return models.EffectivenessNeutral
	default:
		return models.EffectivenessCounterproductive
	}
}

// AnalyzeSymptomEffectiveness compares how often each target symptom was
// reported in the days before and after high-efficacy days.
func AnalyzeSymptomEffectiveness(efficacy EfficacyTimeline, symptoms SymptomTimeline, policy Policy) []models.SymptomEffectiveness {
	results := make([]models.SymptomEffectiveness, 0)

	for _, medicationID := range sortedKeys(efficacy) {
		days := efficacy[medicationID]

		withTargets := 0
		targets := make(map[string]struct{})
		var highDays []string

		for _, day := range sortedKeys(days) {
			high := false
			for _, r := range days[day] {
				if len(r.TargetSymptoms) > 0 {
					withTargets++
					for _, ts := range r.TargetSymptoms {
						targets[ts.Name] = struct{}{}
					}
				}
				if r.OverallRating >= policy.HighEfficacyRating {
					high = true
				}
			}
			if high {
				highDays = append(highDays, day)
			}
		}

		if withTargets < policy.MinEfficacyReportsForEffectiveness || len(highDays) == 0 {
			continue
		}

		for _, name := range sortedKeys(targets) {
			var counts map[string]int
			if series, ok := symptoms[name]; ok {
				counts = series.Counts
			}

			before, after := 0, 0
			for _, day := range highDays {
				for offset := 1; offset <= policy.EffectivenessWindowDays; offset++ {
					before += counts[AddDays(day, -offset)]
					after += counts[AddDays(day, offset)]
				}
			}

			var ratio float64
			if before > 0 {
				ratio = Round(float64(before-after)/float64(before), 2)
			}

			results = append(results, models.SymptomEffectiveness{
				MedicationID:     medicationID,
				SymptomName:      name,
				HighEfficacyDays: len(highDays),
				BeforeCount:      before,
				AfterCount:       after,
				Ratio:            ratio,
				Label:            LabelEffectiveness(ratio),
			})
		}
	}

	return results
}
