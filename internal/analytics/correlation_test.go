package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

func TestPhi_Bounds(t *testing.T) {
	for n11 := 0; n11 <= 4; n11++ {
		for n10 := 0; n10 <= 4; n10++ {
			for n01 := 0; n01 <= 4; n01++ {
				for n00 := 0; n00 <= 4; n00++ {
					phi := Phi(n11, n10, n01, n00)
					assert.GreaterOrEqual(t, phi, -1.0)
					assert.LessOrEqual(t, phi, 1.0)
					// transposing the table swaps the variables
					assert.InDelta(t, phi, Phi(n11, n01, n10, n00), 1e-12)
				}
			}
		}
	}
}

func TestPhi_KnownValues(t *testing.T) {
	assert.InDelta(t, 1.0, Phi(5, 0, 0, 5), 1e-12)
	assert.InDelta(t, -1.0, Phi(0, 5, 5, 0), 1e-12)
	assert.Equal(t, 0.0, Phi(3, 0, 0, 0), "empty margins")
	assert.Equal(t, 0.0, Phi(0, 0, 4, 2), "no medication days")
	assert.InDelta(t, 0.6124, Phi(3, 0, 1, 1), 1e-4)
}

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		value float64
		want  models.Strength
	}{
		{0.7, models.StrengthStrong},
		{-0.85, models.StrengthStrong},
		{0.69, models.StrengthModerate},
		{0.5, models.StrengthModerate},
		{0.3, models.StrengthWeak},
		{-0.45, models.StrengthWeak},
		{0.1, models.StrengthVeryWeak},
		{0.29, models.StrengthVeryWeak},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStrength(tt.value), "value %v", tt.value)
	}
}

func TestCorrelateMedicationsWithSymptoms(t *testing.T) {
	meds := MedicationTimeline{"med-1": medDaysOn(1, 2, 3)}
	symptoms := SymptomTimeline{"headache": seriesOn(1, 2, 3, 5)}

	results := CorrelateMedicationsWithSymptoms(meds, symptoms, DefaultPolicy())
	require.Len(t, results, 1)
	r := results[0]

	assert.Equal(t, "med-1", r.MedicationID)
	assert.Equal(t, "headache", r.SymptomName)
	assert.Equal(t, 0.612, r.Correlation)
	assert.Equal(t, models.StrengthModerate, r.Strength)
	assert.Equal(t, models.DirectionPositive, r.Direction)
	assert.Equal(t, models.OverlapStats{
		BothDays:        3,
		SymptomOnlyDays: 1,
		NeitherDays:     1,
		TotalDays:       5,
	}, r.Overlap)

	// days 1-3 match at lag 0, day 5 only at lag +2
	require.NotNil(t, r.DominantLag)
	assert.Equal(t, 0, *r.DominantLag)
	assert.Equal(t, 0.75, r.LagConfidence)
}

func TestCorrelateMedicationsWithSymptoms_Symmetric(t *testing.T) {
	a := []int{1, 2, 4, 7, 8, 9}
	b := []int{2, 3, 4, 8, 9}

	forward := CorrelateMedicationsWithSymptoms(
		MedicationTimeline{"a": medDaysOn(a...)},
		SymptomTimeline{"b": seriesOn(b...)},
		DefaultPolicy(),
	)
	backward := CorrelateMedicationsWithSymptoms(
		MedicationTimeline{"b": medDaysOn(b...)},
		SymptomTimeline{"a": seriesOn(a...)},
		DefaultPolicy(),
	)

	require.Len(t, forward, 1)
	require.Len(t, backward, 1)
	assert.Equal(t, 0.316, forward[0].Correlation)
	assert.Equal(t, forward[0].Correlation, backward[0].Correlation)
	assert.Equal(t, forward[0].Overlap.MedicationOnlyDays, backward[0].Overlap.SymptomOnlyDays)
}

func TestCorrelateMedicationsWithSymptoms_SkipsDisjointRanges(t *testing.T) {
	meds := MedicationTimeline{"med-1": medDaysOn(1, 2, 3)}
	symptoms := SymptomTimeline{"nausea": seriesOn(10, 11, 12)}

	assert.Empty(t, CorrelateMedicationsWithSymptoms(meds, symptoms, DefaultPolicy()))
}

func TestCorrelateMedicationsWithSymptoms_FiltersWeakAndSorts(t *testing.T) {
	meds := MedicationTimeline{"med-1": medDaysOn(1, 2, 3)}
	symptoms := SymptomTimeline{
		// identical days leave every other cell empty: phi 0
		"fatigue": seriesOn(1, 2, 3),
		// phi 0.612 as above
		"headache": seriesOn(1, 2, 3, 5),
		// both and neither cells dominate: phi 0.75
		"nausea": seriesOn(1, 2, 3, 7),
	}

	results := CorrelateMedicationsWithSymptoms(meds, symptoms, DefaultPolicy())
	require.Len(t, results, 2)
	assert.Equal(t, "nausea", results[0].SymptomName)
	assert.Equal(t, "headache", results[1].SymptomName)
	for _, r := range results {
		assert.Greater(t, abs(r.Correlation), MinCorrelation)
	}
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, abs(results[i-1].Correlation), abs(results[i].Correlation))
	}
}

func TestDominantLag(t *testing.T) {
	tests := []struct {
		name           string
		medDays        []int
		symDays        []int
		wantLag        *int
		wantConfidence float64
	}{
		{
			name:    "medication the day after the symptom",
			medDays: []int{3, 5},
			symDays: []int{2, 4},
			wantLag: ptr(-1), wantConfidence: 1,
		},
		{
			name:    "medication two days before",
			medDays: []int{1, 11},
			symDays: []int{3, 13},
			wantLag: ptr(2), wantConfidence: 1,
		},
		{
			name:    "same day wins over earlier lags",
			medDays: []int{4, 5},
			symDays: []int{5},
			wantLag: ptr(0), wantConfidence: 1,
		},
		{
			name:    "search order breaks ties",
			medDays: []int{1, 11},
			symDays: []int{1, 12},
			wantLag: ptr(0), wantConfidence: 0.5,
		},
		{
			name:    "no match",
			medDays: []int{1},
			symDays: []int{10},
			wantLag: nil, wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lag, confidence := dominantLag(medDaysOn(tt.medDays...), seriesOn(tt.symDays...).Counts)
			assert.Equal(t, tt.wantLag, lag)
			assert.Equal(t, tt.wantConfidence, confidence)
		})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
