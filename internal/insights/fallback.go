package insights

import (
	"fmt"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// Fallback rule thresholds
const (
	MinLogsForInsights   = 5
	LowAdherenceRate     = 50
	ReminderRate         = 80
	ExcellentRate        = 90
	WeekendGapPoints     = 15
	ProblemTimeRate      = 70
	StreakMilestone      = 7
	MinRecommendations   = 2
	MaxCannedInsights    = 6
	MaxCannedSuggestions = 5
)

type canned struct {
	kind models.InsightKind
	text func(models.InsightSummary) string
}

func fixed(s string) func(models.InsightSummary) string {
	return func(models.InsightSummary) string { return s }
}

// cannedText is the deterministic wording used when no generator is available
var cannedText = map[models.InsightCategory]canned{
	models.CategoryInsufficientData: {models.InsightKindObservation, func(s models.InsightSummary) string {
		return fmt.Sprintf("Log at least %d doses to unlock personalized insights. You have %d so far.", MinLogsForInsights, s.TotalLogs)
	}},
	models.CategoryLowAdherence: {models.InsightKindRecommendation, func(s models.InsightSummary) string {
		return fmt.Sprintf("Only %d%% of doses were taken. Consider talking with your care team about what makes doses hard to take.", deref(s.AdherenceRate))
	}},
	models.CategoryReminder: {models.InsightKindRecommendation,
		fixed("Set up dose reminders at your usual medication times to help you stay on track.")},
	models.CategoryExcellentAdherence: {models.InsightKindObservation, func(s models.InsightSummary) string {
		return fmt.Sprintf("Excellent work: %d%% of your doses were taken as planned.", deref(s.AdherenceRate))
	}},
	models.CategoryWeekendGap: {models.InsightKindRecommendation, func(s models.InsightSummary) string {
		return fmt.Sprintf("Weekend adherence (%d%%) trails weekdays (%d%%). Try a weekend-specific reminder.", deref(s.WeekendRate), deref(s.WeekdayRate))
	}},
	models.CategoryProblemTimeOfDay: {models.InsightKindRecommendation, func(s models.InsightSummary) string {
		return fmt.Sprintf("Your %s doses are missed most often (%d%% taken). Pair them with a daily routine at that time.", derefString(s.MostProblematicTime), deref(s.ProblemTimeRate))
	}},
	models.CategoryDecliningTrend: {models.InsightKindObservation,
		fixed("Your adherence has dropped over recent weeks.")},
	models.CategoryImprovingTrend: {models.InsightKindObservation,
		fixed("Your adherence has been improving week over week.")},
	models.CategoryStreakMilestone: {models.InsightKindObservation, func(s models.InsightSummary) string {
		return fmt.Sprintf("You are on a %d-dose streak. Keep it going!", s.CurrentStreak)
	}},
	models.CategoryDoubleDosing: {models.InsightKindRecommendation, func(s models.InsightSummary) string {
		return fmt.Sprintf("%d doses were logged less than 8 hours apart. Check your log before taking a dose to avoid doubling up.", s.DoubleDoseCount)
	}},
	models.CategorySymptomCorrelation: {models.InsightKindRecommendation, func(s models.InsightSummary) string {
		c := strongestCorrelation(s.TopCorrelations)
		return fmt.Sprintf("%s tends to appear alongside this medication. Mention it at your next appointment.", c.SymptomName)
	}},
	models.CategoryEfficacyDeclining: {models.InsightKindRecommendation,
		fixed("A medication's effectiveness ratings are declining. Discuss this with your prescriber.")},
	models.CategorySideEffectWorsening: {models.InsightKindRecommendation, func(s models.InsightSummary) string {
		return fmt.Sprintf("Side effects are getting worse (%s). Report this to your care team.", s.WorseningEffects[0])
	}},
	models.CategoryPillOrganizer: {models.InsightKindRecommendation,
		fixed("A weekly pill organizer makes it easy to see whether today's dose was taken.")},
}

// Categorize returns the fallback categories that apply to a summary, in
// presentation order. Below the minimum log count only insufficient_data
// fires.
func Categorize(s models.InsightSummary) []models.InsightCategory {
	if s.TotalLogs < MinLogsForInsights {
		return []models.InsightCategory{models.CategoryInsufficientData}
	}

	var categories []models.InsightCategory
	add := func(c models.InsightCategory) { categories = append(categories, c) }

	if s.AdherenceRate != nil {
		rate := *s.AdherenceRate
		switch {
		case rate < LowAdherenceRate:
			add(models.CategoryLowAdherence)
			add(models.CategoryReminder)
		case rate < ReminderRate:
			add(models.CategoryReminder)
		case rate >= ExcellentRate:
			add(models.CategoryExcellentAdherence)
		}
	}

	if s.WeekdayRate != nil && s.WeekendRate != nil && *s.WeekdayRate-*s.WeekendRate > WeekendGapPoints {
		add(models.CategoryWeekendGap)
	}
	if s.MostProblematicTime != nil && s.ProblemTimeRate != nil && *s.ProblemTimeRate < ProblemTimeRate {
		add(models.CategoryProblemTimeOfDay)
	}

	switch s.WeeklyTrend {
	case models.TrendDeclining:
		add(models.CategoryDecliningTrend)
	case models.TrendImproving:
		add(models.CategoryImprovingTrend)
	}

	if s.CurrentStreak >= StreakMilestone {
		add(models.CategoryStreakMilestone)
	}
	if s.DoubleDoseCount > 0 {
		add(models.CategoryDoubleDosing)
	}
	for _, c := range s.TopCorrelations {
		if c.Strength == models.StrengthStrong || c.Strength == models.StrengthModerate {
			add(models.CategorySymptomCorrelation)
			break
		}
	}
	for _, e := range s.Efficacy {
		if e.Trend == models.TrendDeclining {
			add(models.CategoryEfficacyDeclining)
			break
		}
	}
	if len(s.WorseningEffects) > 0 {
		add(models.CategorySideEffectWorsening)
	}

	recommendations := 0
	for _, c := range categories {
		if cannedText[c].kind == models.InsightKindRecommendation {
			recommendations++
		}
	}
	if recommendations < MinRecommendations {
		add(models.CategoryPillOrganizer)
	}

	return categories
}

// Fallback renders the canned insights and recommendations for a summary
func Fallback(s models.InsightSummary) (insights, recommendations []models.Insight) {
	insights = []models.Insight{}
	recommendations = []models.Insight{}

	for _, category := range Categorize(s) {
		c := cannedText[category]
		insight := models.Insight{Category: category, Kind: c.kind, Text: c.text(s)}
		if c.kind == models.InsightKindRecommendation {
			if len(recommendations) < MaxCannedSuggestions {
				recommendations = append(recommendations, insight)
			}
			continue
		}
		if len(insights) < MaxCannedInsights {
			insights = append(insights, insight)
		}
	}
	return insights, recommendations
}

func strongestCorrelation(results []models.CorrelationResult) models.CorrelationResult {
	for _, c := range results {
		if c.Strength == models.StrengthStrong || c.Strength == models.StrengthModerate {
			return c
		}
	}
	return models.CorrelationResult{}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
