package models

// RatingDistribution holds the share of reports per rating band, in percent
type RatingDistribution struct {
	Excellent    int `json:"excellent"`
	Good         int `json:"good"`
	Average      int `json:"average"`
	BelowAverage int `json:"below_average"`
	Poor         int `json:"poor"`
}

// SideEffectStat rolls up one side effect across reports
type SideEffectStat struct {
	Effect          string  `json:"effect"`
	Occurrences     int     `json:"occurrences"`
	AverageSeverity float64 `json:"average_severity"`
	Percentage      int     `json:"percentage"`
}

// TargetSymptomStat rolls up one target symptom across reports
type TargetSymptomStat struct {
	Name               string  `json:"name"`
	Occurrences        int     `json:"occurrences"`
	AverageImprovement float64 `json:"average_improvement"`
}

// EfficacySummary aggregates efficacy reports for one medication
type EfficacySummary struct {
	MedicationID          string              `json:"medication_id"`
	RecordCount           int                 `json:"record_count"`
	AverageRating         *float64            `json:"average_rating"`
	AverageTimeToEffect   *float64            `json:"average_time_to_effect"`
	AverageEffectDuration *float64            `json:"average_effect_duration"`
	Distribution          RatingDistribution  `json:"distribution"`
	Trend                 Trend               `json:"trend"`
	SideEffects           []SideEffectStat    `json:"side_effects"`
	TargetSymptoms        []TargetSymptomStat `json:"target_symptoms"`
	Insufficient          *Insufficiency      `json:"insufficient,omitempty"`
}

// ContextFactor names a lifestyle field captured on check-ins
type ContextFactor string

const (
	FactorSleepHours      ContextFactor = "sleep_hours"
	FactorStressLevel     ContextFactor = "stress_level"
	FactorExerciseMinutes ContextFactor = "exercise_minutes"
)

// ContributingFactor is a lifestyle difference between high and low efficacy
type ContributingFactor struct {
	Factor          ContextFactor `json:"factor"`
	HighEfficacyAvg float64       `json:"high_efficacy_avg"`
	LowEfficacyAvg  float64       `json:"low_efficacy_avg"`
	Difference      float64       `json:"difference"`
}

// ContextualAnalysis is the result of comparing check-in context across efficacy groups
type ContextualAnalysis struct {
	MedicationID     string               `json:"medication_id"`
	HighEfficacyDays int                  `json:"high_efficacy_reports"`
	LowEfficacyDays  int                  `json:"low_efficacy_reports"`
	Factors          []ContributingFactor `json:"factors"`
	Insufficient     *Insufficiency       `json:"insufficient,omitempty"`
}

// SideEffectTrend is the severity direction of one side effect over time
type SideEffectTrend struct {
	Effect     string  `json:"effect"`
	DataPoints int     `json:"data_points"`
	Trend      Trend   `json:"trend"`
	Change     float64 `json:"change"`
}
