// Package insights turns analytics results into a bounded summary and the
// user-facing insight and recommendation text derived from it.
package insights

import (
	"sort"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// Upper bounds on what the summary carries to the generator
const (
	MaxCorrelations = 5
	MaxPatterns     = 3
	MaxEfficacy     = 5
)

// SummaryInput gathers the analytics results for one user and window.
// Correlations may be nil when the correlation engine was not run.
type SummaryInput struct {
	Adherence    models.AdherenceReport
	Consumption  []models.ConsumptionPattern
	Correlations *models.CorrelationReport
	Efficacy     []models.EfficacySummary
	SideEffects  []models.SideEffectTrend
}

// BuildSummary reduces analytics results to a fixed-size payload
func BuildSummary(in SummaryInput) models.InsightSummary {
	adherence := in.Adherence
	summary := models.InsightSummary{
		TotalLogs:           adherence.Summary.TotalLogs,
		AdherenceRate:       adherence.Summary.AdherenceRate,
		CurrentStreak:       adherence.Summary.CurrentStreak,
		LongestStreak:       adherence.Summary.LongestStreak,
		WeekdayRate:         adherence.WeekdayRate,
		WeekendRate:         adherence.WeekendRate,
		WeeklyTrend:         adherence.WeeklyTrend.Trend,
		MostProblematicDay:  adherence.MostProblematicDay,
		MostProblematicTime: adherence.MostProblematicTime,
		TopCorrelations:     []models.CorrelationResult{},
		TopPatterns:         []models.TemporalPattern{},
		Efficacy:            []models.EfficacySummary{},
		WorseningEffects:    []string{},
		DataSufficient:      adherence.Insufficient == nil,
	}
	if summary.WeeklyTrend == "" {
		summary.WeeklyTrend = models.TrendStable
	}

	if adherence.MostProblematicTime != nil {
		for _, b := range adherence.TimeOfDay {
			if b.Label == *adherence.MostProblematicTime {
				summary.ProblemTimeRate = b.AdherenceRate
				break
			}
		}
	}

	for _, p := range in.Consumption {
		summary.DoubleDoseCount += len(p.DoubleDoses)
	}

	if in.Correlations != nil {
		summary.TopCorrelations = head(in.Correlations.Correlations, MaxCorrelations)
		summary.TopPatterns = head(in.Correlations.TemporalPatterns, MaxPatterns)
	}

	efficacy := make([]models.EfficacySummary, len(in.Efficacy))
	copy(efficacy, in.Efficacy)
	sort.SliceStable(efficacy, func(i, j int) bool { return efficacy[i].RecordCount > efficacy[j].RecordCount })
	summary.Efficacy = head(efficacy, MaxEfficacy)

	for _, t := range in.SideEffects {
		if t.Trend == models.TrendWorsening {
			summary.WorseningEffects = append(summary.WorseningEffects, t.Effect)
		}
	}

	return summary
}

// head returns a copy of at most n leading elements
func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
