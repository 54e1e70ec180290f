// Package analytics computes adherence, consumption, efficacy and
// symptom/medication correlation statistics from in-memory event logs.
//
// Every function here is pure: inputs are read-only, results are built
// fresh per call, and the reference instant is always passed in.
package analytics

import "time"

const (
	// Minimum events in a day-of-week bucket before its rate is reported
	MinDayOfWeekSupport = 3

	// Minimum events in a time-of-day bucket before its rate is reported
	MinTimeOfDaySupport = 5

	// Minimum weeks of data before the weekly trend is classified
	MinWeeksForTrend = 3

	// Rate difference (percentage points) between halves that counts as a trend
	WeeklyTrendThreshold = 5.0

	// Minimum logs before recommendations are produced
	MinLogsForRecommendations = 5

	// Minimum taken doses before interval statistics are computed
	MinTakenForIntervals = 2

	// Doses closer together than this are flagged as double dosing
	DoubleDoseThreshold = 8 * time.Hour

	// Efficacy trend thresholds
	MinEfficacyForTrend    = 3
	EfficacyTrendThreshold = 0.5
	HighEfficacyRating     = 4.0
	LowEfficacyRating      = 2.0

	// Contextual factor thresholds (difference between group means)
	SleepHoursThreshold      = 1.0
	StressLevelThreshold     = 0.5
	ExerciseMinutesThreshold = 10.0
	ContextWindowDays        = 1

	// Side-effect severity change that counts as a trend
	SeverityTrendThreshold = 0.5

	// Correlation engine thresholds
	MinCorrelation                     = 0.1
	MinPatternOccurrences              = 3
	OnsetWindowDays                    = 3
	OffsetWindowDays                   = 7
	MinEfficacyReportsForEffectiveness = 2
	EffectivenessWindowDays            = 3
	MinCoOccurrenceDays                = 2
)

// Policy holds the support thresholds and window sizes used by the
// calculators. They are policy choices rather than statistical results,
// so callers may override any of them from configuration.
type Policy struct {
	MinDayOfWeekSupport       int           `mapstructure:"min_day_of_week_support"`
	MinTimeOfDaySupport       int           `mapstructure:"min_time_of_day_support"`
	MinWeeksForTrend          int           `mapstructure:"min_weeks_for_trend"`
	WeeklyTrendThreshold      float64       `mapstructure:"weekly_trend_threshold"`
	MinLogsForRecommendations int           `mapstructure:"min_logs_for_recommendations"`
	MinTakenForIntervals      int           `mapstructure:"min_taken_for_intervals"`
	DoubleDoseThreshold       time.Duration `mapstructure:"double_dose_threshold"`

	MinEfficacyForTrend    int     `mapstructure:"min_efficacy_for_trend"`
	EfficacyTrendThreshold float64 `mapstructure:"efficacy_trend_threshold"`
	HighEfficacyRating     float64 `mapstructure:"high_efficacy_rating"`
	LowEfficacyRating      float64 `mapstructure:"low_efficacy_rating"`

	SleepHoursThreshold      float64 `mapstructure:"sleep_hours_threshold"`
	StressLevelThreshold     float64 `mapstructure:"stress_level_threshold"`
	ExerciseMinutesThreshold float64 `mapstructure:"exercise_minutes_threshold"`
	ContextWindowDays        int     `mapstructure:"context_window_days"`
	SeverityTrendThreshold   float64 `mapstructure:"severity_trend_threshold"`

	MinCorrelation                     float64 `mapstructure:"min_correlation"`
	MinPatternOccurrences              int     `mapstructure:"min_pattern_occurrences"`
	OnsetWindowDays                    int     `mapstructure:"onset_window_days"`
	OffsetWindowDays                   int     `mapstructure:"offset_window_days"`
	MinEfficacyReportsForEffectiveness int     `mapstructure:"min_efficacy_reports_for_effectiveness"`
	EffectivenessWindowDays            int     `mapstructure:"effectiveness_window_days"`
	MinCoOccurrenceDays                int     `mapstructure:"min_co_occurrence_days"`
}

// DefaultPolicy returns the thresholds the calculators were tuned with
func DefaultPolicy() Policy {
	return Policy{
		MinDayOfWeekSupport:       MinDayOfWeekSupport,
		MinTimeOfDaySupport:       MinTimeOfDaySupport,
		MinWeeksForTrend:          MinWeeksForTrend,
		WeeklyTrendThreshold:      WeeklyTrendThreshold,
		MinLogsForRecommendations: MinLogsForRecommendations,
		MinTakenForIntervals:      MinTakenForIntervals,
		DoubleDoseThreshold:       DoubleDoseThreshold,

		MinEfficacyForTrend:    MinEfficacyForTrend,
		EfficacyTrendThreshold: EfficacyTrendThreshold,
		HighEfficacyRating:     HighEfficacyRating,
		LowEfficacyRating:      LowEfficacyRating,

		SleepHoursThreshold:      SleepHoursThreshold,
		StressLevelThreshold:     StressLevelThreshold,
		ExerciseMinutesThreshold: ExerciseMinutesThreshold,
		ContextWindowDays:        ContextWindowDays,
		SeverityTrendThreshold:   SeverityTrendThreshold,

		MinCorrelation:                     MinCorrelation,
		MinPatternOccurrences:              MinPatternOccurrences,
		OnsetWindowDays:                    OnsetWindowDays,
		OffsetWindowDays:                   OffsetWindowDays,
		MinEfficacyReportsForEffectiveness: MinEfficacyReportsForEffectiveness,
		EffectivenessWindowDays:            EffectivenessWindowDays,
		MinCoOccurrenceDays:                MinCoOccurrenceDays,
	}
}
