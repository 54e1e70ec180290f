package models

import "time"

// DoseStatus is the outcome recorded for a single dose
type DoseStatus string

const (
	DoseStatusTaken   DoseStatus = "taken"
	DoseStatusMissed  DoseStatus = "missed"
	DoseStatusSkipped DoseStatus = "skipped"
)

// DoseEvent is an immutable record of a dose action for one medication
type DoseEvent struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	MedicationID  string     `json:"medication_id"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	TakenTime     *time.Time `json:"taken_time,omitempty"`
	Status        DoseStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// BucketTime returns the instant used for time-of-day and day-of-week
// bucketing: scheduled time, then taken time, then creation time.
func (e DoseEvent) BucketTime() time.Time {
	if e.ScheduledTime != nil {
		return *e.ScheduledTime
	}
	if e.TakenTime != nil {
		return *e.TakenTime
	}
	return e.CreatedAt
}

// PreferredTime returns the taken time, falling back to the creation time.
func (e DoseEvent) PreferredTime() time.Time {
	if e.TakenTime != nil {
		return *e.TakenTime
	}
	return e.CreatedAt
}

// VitalType identifies the kind of vital sign reading
type VitalType string

const (
	VitalTypeBloodPressure VitalType = "blood_pressure"
	VitalTypeGlucose       VitalType = "glucose"
	VitalTypeWeight        VitalType = "weight"
	VitalTypeTemperature   VitalType = "temperature"
	VitalTypeHeartRate     VitalType = "heart_rate"
	VitalTypeOxygenLevel   VitalType = "oxygen_level"
	VitalTypeOther         VitalType = "other"
)

// VitalReading represents a single vital sign measurement
type VitalReading struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Type      VitalType          `json:"type"`
	Values    map[string]float64 `json:"values"`
	IsNormal  bool               `json:"is_normal"`
	Timestamp time.Time          `json:"timestamp"`
}

// Feeling is the self-reported overall state on a check-in
type Feeling string

const (
	FeelingGood Feeling = "good"
	FeelingFair Feeling = "fair"
	FeelingPoor Feeling = "poor"
)

// Symptom is a symptom reported on a health check-in
type Symptom struct {
	Name         string  `json:"name"`
	Severity     int     `json:"severity"`
	BodyLocation *string `json:"body_location,omitempty"`
}

// CheckIn represents a daily health check-in
type CheckIn struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Feeling         Feeling   `json:"feeling"`
	Symptoms        []Symptom `json:"symptoms"`
	SleepHours      *float64  `json:"sleep_hours,omitempty"`
	StressLevel     *float64  `json:"stress_level,omitempty"`
	ExerciseMinutes *float64  `json:"exercise_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SideEffect is a side effect noted on an efficacy report
type SideEffect struct {
	Effect   string `json:"effect"`
	Severity int    `json:"severity"`
}

// TargetSymptom is a symptom the medication is meant to relieve
type TargetSymptom struct {
	Name              string  `json:"name"`
	ImprovementRating float64 `json:"improvement_rating"`
}

// EfficacyReport is a user-submitted rating of how well a medication worked
type EfficacyReport struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	MedicationID   string          `json:"medication_id"`
	OverallRating  float64         `json:"overall_rating"`
	SymptomRelief  *float64        `json:"symptom_relief,omitempty"`
	SideEffects    []SideEffect    `json:"side_effects"`
	TargetSymptoms []TargetSymptom `json:"target_symptoms"`
	TimeToEffect   *float64        `json:"time_to_effect,omitempty"`   // minutes
	EffectDuration *float64        `json:"effect_duration,omitempty"` // hours
	RecordedAt     time.Time       `json:"recorded_at"`
}

// DateRange is a half-open window [Start, End)
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Insufficiency explains why a result was computed from too little data.
// A nil *Insufficiency means the sample met every minimum.
type Insufficiency struct {
	Reason   string `json:"reason"`
	Required int    `json:"required"`
	Actual   int    `json:"actual"`
}
