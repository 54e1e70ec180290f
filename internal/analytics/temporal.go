package analytics

import (
	"sort"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// =============================================================================
// Temporal Onset / Offset Patterns
// =============================================================================

// DetectTemporalPatterns looks for symptoms that follow a medication within
// policy.OnsetWindowDays (onset) and symptoms that appear within
// policy.OffsetWindowDays after the medication's last recorded day (offset).
// Only pairs with at least MinPatternOccurrences days on both sides and at
// least one match are returned, most matches first.
func DetectTemporalPatterns(meds MedicationTimeline, symptoms SymptomTimeline, policy Policy) []models.TemporalPattern {
	patterns := make([]models.TemporalPattern, 0)

	for _, medicationID := range sortedKeys(meds) {
		medDays := sortedKeys(meds[medicationID])
		if len(medDays) < policy.MinPatternOccurrences {
			continue
		}

		for _, symptom := range sortedKeys(symptoms) {
			symDays := sortedKeys(symptoms[symptom].Counts)
			if len(symDays) < policy.MinPatternOccurrences {
				continue
			}

			pattern := models.TemporalPattern{
				MedicationID: medicationID,
				SymptomName:  symptom,
				Onsets:       onsetMatches(medDays, symDays, policy.OnsetWindowDays),
				Offset:       offsetMatch(medDays[len(medDays)-1], symDays, policy.OffsetWindowDays),
			}

			pattern.TotalMatches = len(pattern.Onsets)
			if pattern.Offset != nil {
				pattern.TotalMatches++
			}
			if pattern.TotalMatches == 0 {
				continue
			}

			if len(pattern.Onsets) > 0 {
				gaps := make([]float64, len(pattern.Onsets))
				for i, o := range pattern.Onsets {
					gaps[i] = float64(o.GapDays)
				}
				pattern.AverageOnsetGap = floatPtr(Round(mean(gaps), 1))
			}

			patterns = append(patterns, pattern)
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool { return patterns[i].TotalMatches > patterns[j].TotalMatches })
	return patterns
}

// onsetMatches pairs each symptom day with the nearest medication day
// strictly before it, no more than window days earlier. Both day lists must
// be ascending.
func onsetMatches(medDays, symDays []string, window int) []models.OnsetMatch {
	onsets := make([]models.OnsetMatch, 0)
	for _, symDay := range symDays {
		// first index with a day >= symDay; the one before it is the nearest earlier day
		i := sort.SearchStrings(medDays, symDay)
		if i == 0 {
			continue
		}
		medDay := medDays[i-1]
		gap := DaysBetween(medDay, symDay)
		if gap >= 1 && gap <= window {
			onsets = append(onsets, models.OnsetMatch{
				SymptomDate:    symDay,
				MedicationDate: medDay,
				GapDays:        gap,
			})
		}
	}
	return onsets
}

// offsetMatch finds the first symptom day within window days after lastMedDay
func offsetMatch(lastMedDay string, symDays []string, window int) *models.OffsetMatch {
	for _, symDay := range symDays {
		gap := DaysBetween(lastMedDay, symDay)
		if gap >= 1 && gap <= window {
			return &models.OffsetMatch{
				LastMedicationDate: lastMedDay,
				SymptomDate:        symDay,
				GapDays:            gap,
			}
		}
	}
	return nil
}
