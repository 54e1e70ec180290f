package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

func TestRunCorrelationAnalysis_InvalidRange(t *testing.T) {
	report, err := RunCorrelationAnalysis(CorrelationInput{
		Window: models.DateRange{Start: at(5, 0), End: at(1, 0)},
		Policy: DefaultPolicy(),
	})

	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Nil(t, report)
}

func TestRunCorrelationAnalysis(t *testing.T) {
	var doses []models.DoseEvent
	for _, d := range []int{1, 2, 3, 8, 9, 10} {
		doses = append(doses, takenDose("med-1", at(d, 8)))
	}
	doses = append(doses, dose("med-1", models.DoseStatusMissed, at(5, 8)))

	var checkIns []models.CheckIn
	for _, d := range []int{1, 2, 3, 9, 10} {
		checkIns = append(checkIns, checkIn(at(d, 19), "nausea", "dizziness"))
	}
	checkIns = append(checkIns, checkIn(at(6, 19), "headache"))

	vitals := []models.VitalReading{
		{Type: models.VitalTypeHeartRate, IsNormal: true, Timestamp: at(1, 12)},
		{Type: models.VitalTypeHeartRate, IsNormal: false, Timestamp: at(5, 12)},
	}

	window := models.DateRange{Start: at(0, 0), End: at(14, 0)}
	report, err := RunCorrelationAnalysis(CorrelationInput{
		Window:   window,
		Doses:    doses,
		CheckIns: checkIns,
		Vitals:   vitals,
		Now:      at(14, 0),
		Policy:   DefaultPolicy(),
	})
	require.NoError(t, err)

	assert.Equal(t, window, report.Window)
	assert.Equal(t, at(14, 0), report.GeneratedAt)
	assert.NotEmpty(t, report.Correlations)
	for _, c := range report.Correlations {
		assert.Equal(t, "med-1", c.MedicationID)
	}
	assert.NotEmpty(t, report.TemporalPatterns)
	assert.NotNil(t, report.Effectiveness)

	require.Len(t, report.Network.Edges, 1)
	assert.Equal(t, 5, report.Network.Edges[0].Weight)

	require.Len(t, report.VitalAssociations, 1)
	hr := report.VitalAssociations[0]
	assert.Equal(t, 1, hr.AdherentDayReadings)
	assert.Equal(t, 1, hr.MissedDayReadings)
	assert.Equal(t, 0.0, *hr.AdherentAbnormalShare)
	assert.Equal(t, 1.0, *hr.MissedAbnormalShare)
}

func TestCorrelateVitalsWithAdherence(t *testing.T) {
	doses := map[string]models.DayDoseCounts{
		dayKey(1): {Taken: 2},
		dayKey(2): {Taken: 1, Missed: 1},
		dayKey(3): {Taken: 1, Skipped: 1},
	}
	vitals := []models.VitalReading{
		{Type: models.VitalTypeGlucose, IsNormal: true, Timestamp: at(1, 7)},
		{Type: models.VitalTypeGlucose, IsNormal: false, Timestamp: at(1, 19)},
		{Type: models.VitalTypeGlucose, IsNormal: false, Timestamp: at(3, 7)},
		{Type: models.VitalTypeWeight, IsNormal: true, Timestamp: at(2, 7)},
		{Type: models.VitalTypeWeight, IsNormal: true, Timestamp: at(4, 7)},
	}

	stats := CorrelateVitalsWithAdherence(vitals, doses, wideWindow())
	require.Len(t, stats, 2)

	glucose := stats[0]
	assert.Equal(t, models.VitalTypeGlucose, glucose.Type)
	assert.Equal(t, 2, glucose.AdherentDayReadings)
	assert.Equal(t, 0.5, *glucose.AdherentAbnormalShare)
	assert.Equal(t, 0, glucose.MissedDayReadings)
	assert.Nil(t, glucose.MissedAbnormalShare)

	weight := stats[1]
	assert.Nil(t, weight.AdherentAbnormalShare)
	require.NotNil(t, weight.MissedAbnormalShare)
	assert.Equal(t, 0.0, *weight.MissedAbnormalShare)
}
