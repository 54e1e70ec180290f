package analytics

import (
	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// CorrelateVitalsWithAdherence compares the share of abnormal vital readings
// on fully adherent days against days with at least one missed dose. Days
// are taken from the dose timeline; readings on other days are ignored.
func CorrelateVitalsWithAdherence(vitals []models.VitalReading, doses map[string]models.DayDoseCounts, window models.DateRange) []models.VitalAdherenceStat {
	type acc struct {
		adherent, adherentAbnormal int
		missed, missedAbnormal     int
	}
	byType := make(map[string]*acc)

	for _, v := range vitals {
		if !window.Contains(v.Timestamp) {
			continue
		}
		day, ok := doses[DayKey(v.Timestamp)]
		if !ok {
			continue
		}

		a, ok := byType[string(v.Type)]
		if !ok {
			a = &acc{}
			byType[string(v.Type)] = a
		}

		switch {
		case day.Missed > 0:
			a.missed++
			if !v.IsNormal {
				a.missedAbnormal++
			}
		case day.Taken > 0 && day.Skipped == 0:
			a.adherent++
			if !v.IsNormal {
				a.adherentAbnormal++
			}
		}
	}

	stats := make([]models.VitalAdherenceStat, 0, len(byType))
	for _, vitalType := range sortedKeys(byType) {
		a := byType[vitalType]
		stat := models.VitalAdherenceStat{
			Type:                models.VitalType(vitalType),
			AdherentDayReadings: a.adherent,
			MissedDayReadings:   a.missed,
		}
		if a.adherent > 0 {
			stat.AdherentAbnormalShare = floatPtr(Round(float64(a.adherentAbnormal)/float64(a.adherent), 2))
		}
		if a.missed > 0 {
			stat.MissedAbnormalShare = floatPtr(Round(float64(a.missedAbnormal)/float64(a.missed), 2))
		}
		stats = append(stats, stat)
	}
	return stats
}
