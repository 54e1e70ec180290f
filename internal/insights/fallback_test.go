package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

func intPtr(v int) *int          { return &v }
func stringPtr(v string) *string { return &v }

// baseSummary fires no category except pill_organizer
func baseSummary() models.InsightSummary {
	return models.InsightSummary{
		TotalLogs:      20,
		AdherenceRate:  intPtr(85),
		WeekdayRate:    intPtr(86),
		WeekendRate:    intPtr(83),
		WeeklyTrend:    models.TrendStable,
		CurrentStreak:  3,
		LongestStreak:  9,
		DataSufficient: true,
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *models.InsightSummary)
		want    []models.InsightCategory
		without []models.InsightCategory
	}{
		{
			name: "insufficient data suppresses everything else",
			mutate: func(s *models.InsightSummary) {
				s.TotalLogs = 4
				s.AdherenceRate = intPtr(25)
				s.CurrentStreak = 10
				s.DoubleDoseCount = 3
			},
			want: []models.InsightCategory{models.CategoryInsufficientData},
		},
		{
			name:   "low adherence also asks for reminders",
			mutate: func(s *models.InsightSummary) { s.AdherenceRate = intPtr(49) },
			want:   []models.InsightCategory{models.CategoryLowAdherence, models.CategoryReminder},
		},
		{
			name:   "reminder below 80 with pill organizer",
			mutate: func(s *models.InsightSummary) { s.AdherenceRate = intPtr(79) },
			want:   []models.InsightCategory{models.CategoryReminder, models.CategoryPillOrganizer},
		},
		{
			name:   "exactly 50 is not low",
			mutate: func(s *models.InsightSummary) { s.AdherenceRate = intPtr(50) },
			want:   []models.InsightCategory{models.CategoryReminder, models.CategoryPillOrganizer},
		},
		{
			name:   "exactly 80 needs no reminder",
			mutate: func(s *models.InsightSummary) { s.AdherenceRate = intPtr(80) },
			want:   []models.InsightCategory{models.CategoryPillOrganizer},
		},
		{
			name:   "excellent adherence at 90",
			mutate: func(s *models.InsightSummary) { s.AdherenceRate = intPtr(90) },
			want:   []models.InsightCategory{models.CategoryExcellentAdherence, models.CategoryPillOrganizer},
		},
		{
			name: "weekend gap above 15 points",
			mutate: func(s *models.InsightSummary) {
				s.WeekdayRate = intPtr(92)
				s.WeekendRate = intPtr(76)
			},
			want: []models.InsightCategory{models.CategoryWeekendGap, models.CategoryPillOrganizer},
		},
		{
			name: "weekend gap of exactly 15 does not fire",
			mutate: func(s *models.InsightSummary) {
				s.WeekdayRate = intPtr(90)
				s.WeekendRate = intPtr(75)
			},
			want: []models.InsightCategory{models.CategoryPillOrganizer},
		},
		{
			name: "problem time of day",
			mutate: func(s *models.InsightSummary) {
				s.MostProblematicTime = stringPtr("night")
				s.ProblemTimeRate = intPtr(60)
			},
			want: []models.InsightCategory{models.CategoryProblemTimeOfDay, models.CategoryPillOrganizer},
		},
		{
			name: "problem time at 70 does not fire",
			mutate: func(s *models.InsightSummary) {
				s.MostProblematicTime = stringPtr("night")
				s.ProblemTimeRate = intPtr(70)
			},
			want: []models.InsightCategory{models.CategoryPillOrganizer},
		},
		{
			name:   "declining trend",
			mutate: func(s *models.InsightSummary) { s.WeeklyTrend = models.TrendDeclining },
			want:   []models.InsightCategory{models.CategoryDecliningTrend, models.CategoryPillOrganizer},
		},
		{
			name:   "improving trend",
			mutate: func(s *models.InsightSummary) { s.WeeklyTrend = models.TrendImproving },
			want:   []models.InsightCategory{models.CategoryImprovingTrend, models.CategoryPillOrganizer},
		},
		{
			name:   "streak milestone",
			mutate: func(s *models.InsightSummary) { s.CurrentStreak = 7 },
			want:   []models.InsightCategory{models.CategoryStreakMilestone, models.CategoryPillOrganizer},
		},
		{
			name:    "streak of six is no milestone",
			mutate:  func(s *models.InsightSummary) { s.CurrentStreak = 6 },
			without: []models.InsightCategory{models.CategoryStreakMilestone},
		},
		{
			name:   "double dosing",
			mutate: func(s *models.InsightSummary) { s.DoubleDoseCount = 2 },
			want:   []models.InsightCategory{models.CategoryDoubleDosing, models.CategoryPillOrganizer},
		},
		{
			name: "moderate symptom correlation",
			mutate: func(s *models.InsightSummary) {
				s.TopCorrelations = []models.CorrelationResult{
					{SymptomName: "rash", Strength: models.StrengthWeak},
					{SymptomName: "nausea", Strength: models.StrengthModerate},
				}
			},
			want: []models.InsightCategory{models.CategorySymptomCorrelation, models.CategoryPillOrganizer},
		},
		{
			name: "weak correlations are not surfaced",
			mutate: func(s *models.InsightSummary) {
				s.TopCorrelations = []models.CorrelationResult{{SymptomName: "rash", Strength: models.StrengthWeak}}
			},
			without: []models.InsightCategory{models.CategorySymptomCorrelation},
		},
		{
			name: "efficacy declining",
			mutate: func(s *models.InsightSummary) {
				s.Efficacy = []models.EfficacySummary{{MedicationID: "med-1", Trend: models.TrendDeclining}}
			},
			want: []models.InsightCategory{models.CategoryEfficacyDeclining, models.CategoryPillOrganizer},
		},
		{
			name:   "side effect worsening",
			mutate: func(s *models.InsightSummary) { s.WorseningEffects = []string{"nausea"} },
			want:   []models.InsightCategory{models.CategorySideEffectWorsening, models.CategoryPillOrganizer},
		},
		{
			name: "two recommendations skip the pill organizer",
			mutate: func(s *models.InsightSummary) {
				s.DoubleDoseCount = 1
				s.WorseningEffects = []string{"nausea"}
			},
			want: []models.InsightCategory{models.CategoryDoubleDosing, models.CategorySideEffectWorsening},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseSummary()
			tt.mutate(&s)

			got := Categorize(s)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
			for _, c := range tt.without {
				assert.NotContains(t, got, c)
			}
		})
	}
}

func TestCategorize_BaseOnlySuggestsPillOrganizer(t *testing.T) {
	assert.Equal(t, []models.InsightCategory{models.CategoryPillOrganizer}, Categorize(baseSummary()))
}

func TestCannedTextCoversEveryCategory(t *testing.T) {
	all := []models.InsightCategory{
		models.CategoryInsufficientData, models.CategoryLowAdherence, models.CategoryReminder,
		models.CategoryExcellentAdherence, models.CategoryWeekendGap, models.CategoryProblemTimeOfDay,
		models.CategoryDecliningTrend, models.CategoryImprovingTrend, models.CategoryStreakMilestone,
		models.CategoryDoubleDosing, models.CategorySymptomCorrelation, models.CategoryEfficacyDeclining,
		models.CategorySideEffectWorsening, models.CategoryPillOrganizer,
	}

	s := baseSummary()
	s.WorseningEffects = []string{"nausea"}
	for _, c := range all {
		canned, ok := cannedText[c]
		require.True(t, ok, c)
		assert.NotEmpty(t, canned.text(s), c)
	}
}

func TestFallback_SplitsByKind(t *testing.T) {
	s := baseSummary()
	s.AdherenceRate = intPtr(95)
	s.CurrentStreak = 12
	s.DoubleDoseCount = 1

	insights, recommendations := Fallback(s)

	require.Len(t, insights, 2)
	assert.Equal(t, models.CategoryExcellentAdherence, insights[0].Category)
	assert.Contains(t, insights[0].Text, "95%")
	assert.Equal(t, models.CategoryStreakMilestone, insights[1].Category)
	assert.Contains(t, insights[1].Text, "12-dose")

	require.Len(t, recommendations, 2)
	assert.Equal(t, models.CategoryDoubleDosing, recommendations[0].Category)
	assert.Equal(t, models.CategoryPillOrganizer, recommendations[1].Category)
	for _, r := range recommendations {
		assert.Equal(t, models.InsightKindRecommendation, r.Kind)
	}
}

func TestFallback_Insufficient(t *testing.T) {
	s := baseSummary()
	s.TotalLogs = 2

	insights, recommendations := Fallback(s)

	require.Len(t, insights, 1)
	assert.Equal(t, models.CategoryInsufficientData, insights[0].Category)
	assert.Contains(t, insights[0].Text, "2 so far")
	assert.Empty(t, recommendations)
	assert.NotNil(t, recommendations)
}
