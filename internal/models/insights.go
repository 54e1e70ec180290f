package models

import "time"

// InsightCategory is a coarse bucket that selects canned fallback text
type InsightCategory string

const (
	CategoryInsufficientData    InsightCategory = "insufficient_data"
	CategoryLowAdherence        InsightCategory = "low_adherence"
	CategoryReminder            InsightCategory = "reminder"
	CategoryExcellentAdherence  InsightCategory = "excellent_adherence"
	CategoryWeekendGap          InsightCategory = "weekend_gap"
	CategoryProblemTimeOfDay    InsightCategory = "problem_time_of_day"
	CategoryDecliningTrend      InsightCategory = "declining_trend"
	CategoryImprovingTrend      InsightCategory = "improving_trend"
	CategoryStreakMilestone     InsightCategory = "streak_milestone"
	CategoryDoubleDosing        InsightCategory = "double_dosing"
	CategorySymptomCorrelation  InsightCategory = "symptom_correlation"
	CategoryEfficacyDeclining   InsightCategory = "efficacy_declining"
	CategorySideEffectWorsening InsightCategory = "side_effect_worsening"
	CategoryPillOrganizer       InsightCategory = "pill_organizer"
)

// InsightKind separates observations from suggested actions
type InsightKind string

const (
	InsightKindObservation    InsightKind = "observation"
	InsightKindRecommendation InsightKind = "recommendation"
)

// InsightSource records whether text came from the generator or the canned set
type InsightSource string

const (
	InsightSourceGenerated InsightSource = "generated"
	InsightSourceFallback  InsightSource = "fallback"
)

// Insight is a single piece of user-facing text
type Insight struct {
	Category InsightCategory `json:"category,omitempty"`
	Kind     InsightKind     `json:"kind"`
	Text     string          `json:"text"`
}

// InsightSummary is the bounded numeric payload handed to the text generator
type InsightSummary struct {
	TotalLogs           int                 `json:"total_logs"`
	AdherenceRate       *int                `json:"adherence_rate"`
	CurrentStreak       int                 `json:"current_streak"`
	LongestStreak       int                 `json:"longest_streak"`
	WeekdayRate         *int                `json:"weekday_rate"`
	WeekendRate         *int                `json:"weekend_rate"`
	WeeklyTrend         Trend               `json:"weekly_trend"`
	MostProblematicDay  *string             `json:"most_problematic_day"`
	MostProblematicTime *string             `json:"most_problematic_time"`
	ProblemTimeRate     *int                `json:"problem_time_rate"`
	DoubleDoseCount     int                 `json:"double_dose_count"`
	TopCorrelations     []CorrelationResult `json:"top_correlations"`
	TopPatterns         []TemporalPattern   `json:"top_patterns"`
	Efficacy            []EfficacySummary   `json:"efficacy"`
	WorseningEffects    []string            `json:"worsening_side_effects"`
	DataSufficient      bool                `json:"data_sufficient"`
}

// InsightsResponse is the API response containing analytics and insight text
type InsightsResponse struct {
	UserID          string            `json:"user_id"`
	Window          DateRange         `json:"window"`
	Adherence       AdherenceReport   `json:"adherence"`
	Correlations    CorrelationReport `json:"correlations"`
	Summary         InsightSummary    `json:"summary"`
	Insights        []Insight         `json:"insights"`
	Recommendations []Insight         `json:"recommendations"`
	Source          InsightSource     `json:"source"`
	ComputedAt      time.Time         `json:"computed_at"`
	DataSufficient  bool              `json:"data_sufficient"`
}
