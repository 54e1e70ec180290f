package analytics

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// =============================================================================
// Consumption Pattern Analyzer
// =============================================================================

// AnalyzeConsumption computes dose spacing statistics for every medication
// with taken doses in events. Results are ordered by medication ID.
func AnalyzeConsumption(events []models.DoseEvent, policy Policy) []models.ConsumptionPattern {
	byMedication := make(map[string][]time.Time)
	for _, e := range events {
		if e.Status != models.DoseStatusTaken {
			continue
		}
		byMedication[e.MedicationID] = append(byMedication[e.MedicationID], e.PreferredTime())
	}

	patterns := make([]models.ConsumptionPattern, 0, len(byMedication))
	for _, medicationID := range sortedKeys(byMedication) {
		patterns = append(patterns, consumptionPattern(medicationID, byMedication[medicationID], policy))
	}
	return patterns
}

// consumptionPattern analyzes the taken timestamps of a single medication
func consumptionPattern(medicationID string, taken []time.Time, policy Policy) models.ConsumptionPattern {
	times := make([]time.Time, len(taken))
	copy(times, taken)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	pattern := models.ConsumptionPattern{
		MedicationID: medicationID,
		DoseCount:    len(times),
		TimeOfDay:    make(map[string]int, len(TimeBands)),
		DayOfWeek:    make(map[string]int, len(WeekdayNames)),
		DoubleDoses:  []models.DoubleDose{},
	}
	for _, band := range TimeBands {
		pattern.TimeOfDay[string(band)] = 0
	}
	for _, name := range WeekdayNames {
		pattern.DayOfWeek[name] = 0
	}

	for _, t := range times {
		pattern.TimeOfDay[string(TimeBand(t))]++
		pattern.DayOfWeek[WeekdayName(t)]++
	}

	if len(times) < policy.MinTakenForIntervals {
		pattern.Insufficient = &models.Insufficiency{
			Reason:   "not enough taken doses to compute intervals",
			Required: policy.MinTakenForIntervals,
			Actual:   len(times),
		}
		return pattern
	}

	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		hours := gap.Hours()
		intervals = append(intervals, hours)

		if gap < policy.DoubleDoseThreshold {
			pattern.DoubleDoses = append(pattern.DoubleDoses, models.DoubleDose{
				FirstTaken:    times[i-1].UTC(),
				SecondTaken:   times[i].UTC(),
				IntervalHours: Round(hours, 1),
			})
		}
	}

	pattern.AverageIntervalHours = floatPtr(Round(mean(intervals), 1))
	pattern.IntervalStdDevHours = floatPtr(Round(populationStdDev(intervals), 1))

	return pattern
}
