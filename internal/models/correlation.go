package models

import "time"

// Direction represents the direction of a correlation
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// Strength labels the magnitude of a correlation coefficient
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
	StrengthVeryWeak Strength = "very_weak"
)

// OverlapStats counts days in each cell of the medication/symptom 2x2 table
type OverlapStats struct {
	BothDays           int `json:"both_days"`
	MedicationOnlyDays int `json:"medication_only_days"`
	SymptomOnlyDays    int `json:"symptom_only_days"`
	NeitherDays        int `json:"neither_days"`
	TotalDays          int `json:"total_days"`
}

// CorrelationResult is a medication/symptom phi correlation with lag info
type CorrelationResult struct {
	MedicationID  string       `json:"medication_id"`
	SymptomName   string       `json:"symptom_name"`
	Correlation   float64      `json:"correlation"`
	Strength      Strength     `json:"strength"`
	Direction     Direction    `json:"direction"`
	Overlap       OverlapStats `json:"overlap"`
	DominantLag   *int         `json:"dominant_lag"`
	LagConfidence float64      `json:"lag_confidence"`
}

// OnsetMatch is a symptom day preceded by a medication day
type OnsetMatch struct {
	SymptomDate    string `json:"symptom_date"`
	MedicationDate string `json:"medication_date"`
	GapDays        int    `json:"gap_days"`
}

// OffsetMatch is the first symptom seen after the medication's last day
type OffsetMatch struct {
	LastMedicationDate string `json:"last_medication_date"`
	SymptomDate        string `json:"symptom_date"`
	GapDays            int    `json:"gap_days"`
}

// TemporalPattern captures onset and offset timing for a medication/symptom pair
type TemporalPattern struct {
	MedicationID    string       `json:"medication_id"`
	SymptomName     string       `json:"symptom_name"`
	Onsets          []OnsetMatch `json:"onsets"`
	AverageOnsetGap *float64     `json:"average_onset_gap"`
	Offset          *OffsetMatch `json:"offset"`
	TotalMatches    int          `json:"total_matches"`
}

// EffectivenessLabel bands the before/after symptom reduction ratio
type EffectivenessLabel string

const (
	EffectivenessHighly            EffectivenessLabel = "highly_effective"
	EffectivenessModerately        EffectivenessLabel = "moderately_effective"
	EffectivenessSomewhat          EffectivenessLabel = "somewhat_effective"
	EffectivenessSlightly          EffectivenessLabel = "slightly_effective"
	EffectivenessNeutral           EffectivenessLabel = "neutral"
	EffectivenessCounterproductive EffectivenessLabel = "counterproductive"
)

// SymptomEffectiveness compares a target symptom around high-efficacy days
type SymptomEffectiveness struct {
	MedicationID     string             `json:"medication_id"`
	SymptomName      string             `json:"symptom_name"`
	HighEfficacyDays int                `json:"high_efficacy_days"`
	BeforeCount      int                `json:"before_count"`
	AfterCount       int                `json:"after_count"`
	Ratio            float64            `json:"ratio"`
	Label            EffectivenessLabel `json:"label"`
}

// SymptomNode is a vertex in the symptom co-occurrence network
type SymptomNode struct {
	Symptom       string   `json:"symptom"`
	Frequency     int      `json:"frequency"`
	BodyLocations []string `json:"body_locations"`
}

// SymptomEdge links two symptoms that occurred on the same days
type SymptomEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// SymptomNetwork is the co-occurrence graph consumed by visualizations
type SymptomNetwork struct {
	Nodes []SymptomNode `json:"nodes"`
	Edges []SymptomEdge `json:"edges"`
}

// VitalAdherenceStat compares abnormal vital readings on adherent vs missed days
type VitalAdherenceStat struct {
	Type                  VitalType `json:"type"`
	AdherentDayReadings   int       `json:"adherent_day_readings"`
	MissedDayReadings     int       `json:"missed_day_readings"`
	AdherentAbnormalShare *float64  `json:"adherent_abnormal_share"`
	MissedAbnormalShare   *float64  `json:"missed_abnormal_share"`
}

// CorrelationReport bundles the outputs of the correlation engine
type CorrelationReport struct {
	Window            DateRange              `json:"window"`
	Correlations      []CorrelationResult    `json:"correlations"`
	TemporalPatterns  []TemporalPattern      `json:"temporal_patterns"`
	Effectiveness     []SymptomEffectiveness `json:"effectiveness"`
	Network           SymptomNetwork         `json:"network"`
	VitalAssociations []VitalAdherenceStat   `json:"vital_associations"`
	GeneratedAt       time.Time              `json:"generated_at"`
}
