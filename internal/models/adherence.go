package models

import "time"

// Trend represents the direction of a series over time
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// TimeOfDay is one of the fixed hour bands used for bucketing
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayNight     TimeOfDay = "night"
)

// AdherenceSummary holds dose counts, rate and streaks.
// AdherenceRate is nil exactly when TotalLogs is zero.
type AdherenceSummary struct {
	TotalLogs     int  `json:"total_logs"`
	TakenLogs     int  `json:"taken_logs"`
	SkippedLogs   int  `json:"skipped_logs"`
	MissedLogs    int  `json:"missed_logs"`
	AdherenceRate *int `json:"adherence_rate"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
}

// BucketStat is the breakdown for a single time bucket
type BucketStat struct {
	Label         string `json:"label"`
	Total         int    `json:"total"`
	Taken         int    `json:"taken"`
	Missed        int    `json:"missed"`
	Skipped       int    `json:"skipped"`
	AdherenceRate *int   `json:"adherence_rate"` // nil below the support threshold
}

// WeekStat is the adherence for one Monday-based week
type WeekStat struct {
	WeekStart     time.Time `json:"week_start"`
	Total         int       `json:"total"`
	Taken         int       `json:"taken"`
	AdherenceRate int       `json:"adherence_rate"`
}

// WeeklyTrend classifies the week-over-week adherence series
type WeeklyTrend struct {
	Weeks             []WeekStat `json:"weeks"`
	Trend             Trend      `json:"trend"`
	Compared          bool       `json:"compared"`
	FirstHalfAverage  *float64   `json:"first_half_average"`
	SecondHalfAverage *float64   `json:"second_half_average"`
}

// AdherenceReport is the full output of the adherence calculator
type AdherenceReport struct {
	Summary             AdherenceSummary `json:"summary"`
	DayOfWeek           []BucketStat     `json:"day_of_week"`
	TimeOfDay           []BucketStat     `json:"time_of_day"`
	WeeklyTrend         WeeklyTrend      `json:"weekly_trend"`
	MostProblematicDay  *string          `json:"most_problematic_day"`
	MostProblematicTime *string          `json:"most_problematic_time"`
	WeekdayRate         *int             `json:"weekday_rate"`
	WeekendRate         *int             `json:"weekend_rate"`
	DaysSinceLastTaken  *int             `json:"days_since_last_taken"`
	GeneratedAt         time.Time        `json:"generated_at"`
	Insufficient        *Insufficiency   `json:"insufficient,omitempty"`
}

// DayDoseCounts is one calendar day of a dose timeline
type DayDoseCounts struct {
	Taken   int `json:"taken"`
	Missed  int `json:"missed"`
	Skipped int `json:"skipped"`
}

// DoubleDose is a pair of taken doses recorded closer than the threshold
type DoubleDose struct {
	FirstTaken    time.Time `json:"first_taken"`
	SecondTaken   time.Time `json:"second_taken"`
	IntervalHours float64   `json:"interval_hours"`
}

// ConsumptionPattern describes how one medication's taken doses are spaced
type ConsumptionPattern struct {
	MedicationID         string         `json:"medication_id"`
	DoseCount            int            `json:"dose_count"`
	TimeOfDay            map[string]int `json:"time_of_day"`
	DayOfWeek            map[string]int `json:"day_of_week"`
	AverageIntervalHours *float64       `json:"average_interval_hours"`
	// IntervalStdDevHours is a standard deviation; the wire name is kept
	// as "variance" for existing consumers.
	IntervalStdDevHours *float64       `json:"variance"`
	DoubleDoses         []DoubleDose   `json:"double_doses"`
	Insufficient        *Insufficiency `json:"insufficient,omitempty"`
}

// AdherenceSnapshot is the per-user daily rollup written by the recompute job
type AdherenceSnapshot struct {
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	TotalLogs     int       `json:"total_logs"`
	AdherenceRate *int      `json:"adherence_rate"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	WeeklyTrend   Trend     `json:"weekly_trend"`
	ComputedAt    time.Time `json:"computed_at"`
}
