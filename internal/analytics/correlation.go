package analytics

import (
	"math"
	"sort"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// =============================================================================
// Medication / Symptom Correlation
// =============================================================================

// lagSearchOrder is the order in which lags are tried for each symptom day.
// A lag L pairs a symptom day with the medication day L days earlier, so -1
// means the medication came the day after the symptom.
var lagSearchOrder = []int{0, -1, 1, 2}

// Phi computes the phi coefficient of a 2x2 contingency table where n11 is
// both, n10 first-only, n01 second-only and n00 neither. It is 0 when any
// margin is empty.
func Phi(n11, n10, n01, n00 int) float64 {
	row1 := float64(n11 + n10)
	row0 := float64(n01 + n00)
	col1 := float64(n11 + n01)
	col0 := float64(n10 + n00)

	denominator := math.Sqrt(row1 * row0 * col1 * col0)
	if denominator == 0 {
		return 0
	}
	phi := (float64(n11)*float64(n00) - float64(n10)*float64(n01)) / denominator

	// clamp float noise at the extremes
	return math.Max(-1, math.Min(1, phi))
}

// ClassifyStrength labels the magnitude of a correlation coefficient
func ClassifyStrength(coefficient float64) models.Strength {
	abs := math.Abs(coefficient)
	switch {
	case abs >= 0.7:
		return models.StrengthStrong
	case abs >= 0.5:
		return models.StrengthModerate
	case abs >= 0.3:
		return models.StrengthWeak
	default:
		return models.StrengthVeryWeak
	}
}

// CorrelateMedicationsWithSymptoms computes the phi correlation for every
// medication/symptom pair whose active day ranges overlap. Pairs with
// |phi| <= policy.MinCorrelation are dropped. Results are ordered by
// descending |phi|.
func CorrelateMedicationsWithSymptoms(meds MedicationTimeline, symptoms SymptomTimeline, policy Policy) []models.CorrelationResult {
	results := make([]models.CorrelationResult, 0)

	for _, medicationID := range sortedKeys(meds) {
		medDays := meds[medicationID]
		medFirst, medLast, ok := dayBounds(medDays)
		if !ok {
			continue
		}

		for _, symptom := range sortedKeys(symptoms) {
			symDays := symptoms[symptom].Counts
			symFirst, symLast, ok := dayBounds(symDays)
			if !ok {
				continue
			}
			if medFirst > symLast || symFirst > medLast {
				continue
			}

			overlap := overlapStats(medDays, symDays, min(medFirst, symFirst), max(medLast, symLast))
			phi := Phi(overlap.BothDays, overlap.MedicationOnlyDays, overlap.SymptomOnlyDays, overlap.NeitherDays)
			if math.Abs(phi) <= policy.MinCorrelation {
				continue
			}

			direction := models.DirectionNegative
			if phi > 0 {
				direction = models.DirectionPositive
			}

			lag, confidence := dominantLag(medDays, symDays)
			results = append(results, models.CorrelationResult{
				MedicationID:  medicationID,
				SymptomName:   symptom,
				Correlation:   Round(phi, 3),
				Strength:      ClassifyStrength(phi),
				Direction:     direction,
				Overlap:       overlap,
				DominantLag:   lag,
				LagConfidence: confidence,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Correlation) > math.Abs(results[j].Correlation)
	})
	return results
}

// overlapStats classifies every day from first to last inclusive
func overlapStats(medDays, symDays map[string]int, first, last string) models.OverlapStats {
	var stats models.OverlapStats
	for _, day := range DayRange(first, last) {
		med := medDays[day] > 0
		sym := symDays[day] > 0
		switch {
		case med && sym:
			stats.BothDays++
		case med:
			stats.MedicationOnlyDays++
		case sym:
			stats.SymptomOnlyDays++
		default:
			stats.NeitherDays++
		}
		stats.TotalDays++
	}
	return stats
}

// dominantLag tallies, for each symptom day, the first lag in search order
// with a medication day. It returns the most frequent lag and its share of
// matched symptom days, or nil and 0 when nothing matched.
func dominantLag(medDays, symDays map[string]int) (*int, float64) {
	counts := make(map[int]int, len(lagSearchOrder))
	matched := 0

	for _, day := range sortedKeys(symDays) {
		for _, lag := range lagSearchOrder {
			if medDays[AddDays(day, -lag)] > 0 {
				counts[lag]++
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return nil, 0
	}

	best := lagSearchOrder[0]
	for _, lag := range lagSearchOrder[1:] {
		if counts[lag] > counts[best] {
			best = lag
		}
	}
	return intPtr(best), Round(float64(counts[best])/float64(matched), 2)
}
