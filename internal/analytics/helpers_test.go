package analytics

import (
	"fmt"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// base is Monday 2024-01-01 00:00 UTC
var base = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// at returns base shifted to the given day index (0 = Jan 1) and hour
func at(day, hour int) time.Time {
	return base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

func dayKey(day int) string {
	return DayKey(at(day, 0))
}

func dose(medicationID string, status models.DoseStatus, created time.Time) models.DoseEvent {
	return models.DoseEvent{
		ID:           fmt.Sprintf("%s-%d", medicationID, created.Unix()),
		UserID:       "user-1",
		MedicationID: medicationID,
		Status:       status,
		CreatedAt:    created,
	}
}

func takenDose(medicationID string, taken time.Time) models.DoseEvent {
	e := dose(medicationID, models.DoseStatusTaken, taken)
	e.TakenTime = &taken
	return e
}

func efficacyReport(medicationID string, rating float64, recorded time.Time) models.EfficacyReport {
	return models.EfficacyReport{
		ID:            fmt.Sprintf("%s-%d", medicationID, recorded.Unix()),
		UserID:        "user-1",
		MedicationID:  medicationID,
		OverallRating: rating,
		RecordedAt:    recorded,
	}
}

func checkIn(created time.Time, symptoms ...string) models.CheckIn {
	c := models.CheckIn{
		ID:        fmt.Sprintf("checkin-%d", created.Unix()),
		UserID:    "user-1",
		Feeling:   models.FeelingFair,
		CreatedAt: created,
	}
	for _, name := range symptoms {
		c.Symptoms = append(c.Symptoms, models.Symptom{Name: name, Severity: 3})
	}
	return c
}

// wideWindow covers every fixture date used in these tests
func wideWindow() models.DateRange {
	return models.DateRange{Start: base.AddDate(0, 0, -30), End: base.AddDate(0, 3, 0)}
}

// seriesOn builds a symptom series reported once on each given day index
func seriesOn(days ...int) *SymptomSeries {
	s := &SymptomSeries{Counts: map[string]int{}, MaxSeverity: map[string]int{}}
	for _, d := range days {
		s.Counts[dayKey(d)]++
		s.MaxSeverity[dayKey(d)] = 3
	}
	return s
}

// medDaysOn builds a medication day map with one dose on each given day index
func medDaysOn(days ...int) map[string]int {
	m := make(map[string]int, len(days))
	for _, d := range days {
		m[dayKey(d)]++
	}
	return m
}

func ptr[T any](v T) *T { return &v }
