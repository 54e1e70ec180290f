package analytics

import "github.com/JonnyWalker81/adhere/backend/internal/models"

// =============================================================================
// Day Timelines
// =============================================================================

// MedicationTimeline maps medication ID to day key to taken-dose count
type MedicationTimeline map[string]map[string]int

// SymptomSeries holds the per-day occurrences of one symptom
type SymptomSeries struct {
	Counts        map[string]int
	MaxSeverity   map[string]int
	BodyLocations []string
}

// SymptomTimeline maps symptom name to its day series
type SymptomTimeline map[string]*SymptomSeries

// EfficacyTimeline maps medication ID to day key to the reports filed that day
type EfficacyTimeline map[string]map[string][]models.EfficacyReport

// BuildMedicationTimeline buckets taken doses inside window by calendar day
func BuildMedicationTimeline(events []models.DoseEvent, window models.DateRange) MedicationTimeline {
	timeline := make(MedicationTimeline)
	for _, e := range events {
		if e.Status != models.DoseStatusTaken {
			continue
		}
		at := e.PreferredTime()
		if !window.Contains(at) {
			continue
		}
		days, ok := timeline[e.MedicationID]
		if !ok {
			days = make(map[string]int)
			timeline[e.MedicationID] = days
		}
		days[DayKey(at)]++
	}
	return timeline
}

// BuildSymptomTimeline buckets reported symptoms inside window by calendar day
func BuildSymptomTimeline(checkIns []models.CheckIn, window models.DateRange) SymptomTimeline {
	timeline := make(SymptomTimeline)
	locations := make(map[string]map[string]struct{})

	for _, c := range checkIns {
		if !window.Contains(c.CreatedAt) {
			continue
		}
		day := DayKey(c.CreatedAt)
		for _, s := range c.Symptoms {
			series, ok := timeline[s.Name]
			if !ok {
				series = &SymptomSeries{
					Counts:      make(map[string]int),
					MaxSeverity: make(map[string]int),
				}
				timeline[s.Name] = series
				locations[s.Name] = make(map[string]struct{})
			}
			series.Counts[day]++
			if s.Severity > series.MaxSeverity[day] {
				series.MaxSeverity[day] = s.Severity
			}
			if s.BodyLocation != nil && *s.BodyLocation != "" {
				locations[s.Name][*s.BodyLocation] = struct{}{}
			}
		}
	}

	for name, series := range timeline {
		series.BodyLocations = sortedKeys(locations[name])
	}
	return timeline
}

// BuildEfficacyTimeline buckets efficacy reports inside window by calendar day
func BuildEfficacyTimeline(reports []models.EfficacyReport, window models.DateRange) EfficacyTimeline {
	timeline := make(EfficacyTimeline)
	for _, r := range reports {
		if !window.Contains(r.RecordedAt) {
			continue
		}
		days, ok := timeline[r.MedicationID]
		if !ok {
			days = make(map[string][]models.EfficacyReport)
			timeline[r.MedicationID] = days
		}
		key := DayKey(r.RecordedAt)
		days[key] = append(days[key], r)
	}
	return timeline
}

// dayBounds returns the first and last day key of a day-indexed map
func dayBounds[V any](days map[string]V) (first, last string, ok bool) {
	if len(days) == 0 {
		return "", "", false
	}
	keys := sortedKeys(days)
	return keys[0], keys[len(keys)-1], true
}
