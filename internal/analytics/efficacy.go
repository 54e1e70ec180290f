package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// =============================================================================
// Efficacy Aggregator
// =============================================================================

// chronological returns a copy of reports ordered oldest first
func chronological(reports []models.EfficacyReport) []models.EfficacyReport {
	sorted := make([]models.EfficacyReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RecordedAt.Before(sorted[j].RecordedAt) })
	return sorted
}

// SummarizeEfficacyByMedication groups reports by medication and summarizes each
func SummarizeEfficacyByMedication(reports []models.EfficacyReport, policy Policy) []models.EfficacySummary {
	grouped := make(map[string][]models.EfficacyReport)
	for _, r := range reports {
		grouped[r.MedicationID] = append(grouped[r.MedicationID], r)
	}

	summaries := make([]models.EfficacySummary, 0, len(grouped))
	for _, medicationID := range sortedKeys(grouped) {
		summaries = append(summaries, SummarizeEfficacy(medicationID, grouped[medicationID], policy))
	}
	return summaries
}

// SummarizeEfficacy aggregates the efficacy reports of one medication
func SummarizeEfficacy(medicationID string, reports []models.EfficacyReport, policy Policy) models.EfficacySummary {
	summary := models.EfficacySummary{
		MedicationID:   medicationID,
		RecordCount:    len(reports),
		Trend:          models.TrendStable,
		SideEffects:    []models.SideEffectStat{},
		TargetSymptoms: []models.TargetSymptomStat{},
	}
	if len(reports) == 0 {
		summary.Insufficient = &models.Insufficiency{
			Reason:   "no efficacy reports recorded",
			Required: 1,
			Actual:   0,
		}
		return summary
	}

	ratings := make([]float64, 0, len(reports))
	var timeToEffect, effectDuration []float64
	bands := make([]int, 6)

	for _, r := range reports {
		ratings = append(ratings, r.OverallRating)
		if r.TimeToEffect != nil {
			timeToEffect = append(timeToEffect, *r.TimeToEffect)
		}
		if r.EffectDuration != nil {
			effectDuration = append(effectDuration, *r.EffectDuration)
		}
		bands[ratingBand(r.OverallRating)]++
	}

	summary.AverageRating = floatPtr(Round(mean(ratings), 1))
	if len(timeToEffect) > 0 {
		summary.AverageTimeToEffect = floatPtr(Round(mean(timeToEffect), 1))
	}
	if len(effectDuration) > 0 {
		summary.AverageEffectDuration = floatPtr(Round(mean(effectDuration), 1))
	}

	total := len(reports)
	summary.Distribution = models.RatingDistribution{
		Excellent:    Percent(bands[5], total),
		Good:         Percent(bands[4], total),
		Average:      Percent(bands[3], total),
		BelowAverage: Percent(bands[2], total),
		Poor:         Percent(bands[1], total),
	}

	if total >= policy.MinEfficacyForTrend {
		summary.Trend = efficacyTrend(chronological(reports), policy.EfficacyTrendThreshold)
	} else {
		summary.Insufficient = &models.Insufficiency{
			Reason:   "not enough efficacy reports to determine a trend",
			Required: policy.MinEfficacyForTrend,
			Actual:   total,
		}
	}

	summary.SideEffects = sideEffectRollup(reports)
	summary.TargetSymptoms = targetSymptomRollup(reports)

	return summary
}

// ratingBand maps a rating to 1..5 using half-up rounding
func ratingBand(rating float64) int {
	band := RoundInt(rating)
	if band < 1 {
		return 1
	}
	if band > 5 {
		return 5
	}
	return band
}

// efficacyTrend compares the older half of the ratings with the newer half
func efficacyTrend(oldestFirst []models.EfficacyReport, threshold float64) models.Trend {
	mid := len(oldestFirst) / 2
	first := make([]float64, 0, mid)
	second := make([]float64, 0, len(oldestFirst)-mid)
	for i, r := range oldestFirst {
		if i < mid {
			first = append(first, r.OverallRating)
		} else {
			second = append(second, r.OverallRating)
		}
	}

	diff := Round(mean(second)-mean(first), 2)
	switch {
	case diff >= threshold:
		return models.TrendImproving
	case diff <= -threshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// sideEffectRollup counts each side effect and averages its severity
func sideEffectRollup(reports []models.EfficacyReport) []models.SideEffectStat {
	type acc struct {
		count    int
		severity int
	}
	byEffect := make(map[string]*acc)
	for _, r := range reports {
		for _, se := range r.SideEffects {
			a, ok := byEffect[se.Effect]
			if !ok {
				a = &acc{}
				byEffect[se.Effect] = a
			}
			a.count++
			a.severity += se.Severity
		}
	}

	stats := make([]models.SideEffectStat, 0, len(byEffect))
	for _, effect := range sortedKeys(byEffect) {
		a := byEffect[effect]
		stats = append(stats, models.SideEffectStat{
			Effect:          effect,
			Occurrences:     a.count,
			AverageSeverity: Round(float64(a.severity)/float64(a.count), 1),
			Percentage:      Percent(a.count, len(reports)),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Occurrences > stats[j].Occurrences })
	return stats
}

// targetSymptomRollup counts each target symptom and averages its improvement
func targetSymptomRollup(reports []models.EfficacyReport) []models.TargetSymptomStat {
	type acc struct {
		count       int
		improvement float64
	}
	bySymptom := make(map[string]*acc)
	for _, r := range reports {
		for _, ts := range r.TargetSymptoms {
			a, ok := bySymptom[ts.Name]
			if !ok {
				a = &acc{}
				bySymptom[ts.Name] = a
			}
			a.count++
			a.improvement += ts.ImprovementRating
		}
	}

	stats := make([]models.TargetSymptomStat, 0, len(bySymptom))
	for _, name := range sortedKeys(bySymptom) {
		a := bySymptom[name]
		stats = append(stats, models.TargetSymptomStat{
			Name:               name,
			Occurrences:        a.count,
			AverageImprovement: Round(a.improvement/float64(a.count), 1),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Occurrences > stats[j].Occurrences })
	return stats
}

// =============================================================================
// Contextual factors
// =============================================================================

type factorSpec struct {
	factor    models.ContextFactor
	threshold float64
	value     func(models.CheckIn) *float64
}

func factorSpecs(policy Policy) []factorSpec {
	return []factorSpec{
		{models.FactorSleepHours, policy.SleepHoursThreshold, func(c models.CheckIn) *float64 { return c.SleepHours }},
		{models.FactorStressLevel, policy.StressLevelThreshold, func(c models.CheckIn) *float64 { return c.StressLevel }},
		{models.FactorExerciseMinutes, policy.ExerciseMinutesThreshold, func(c models.CheckIn) *float64 { return c.ExerciseMinutes }},
	}
}

// AnalyzeContextualFactors compares sleep, stress and exercise around high
// (rating >= 4) and low (rating <= 2) efficacy reports. A factor is only
// reported when the group means differ by more than its threshold.
func AnalyzeContextualFactors(medicationID string, reports []models.EfficacyReport, checkIns []models.CheckIn, policy Policy) models.ContextualAnalysis {
	analysis := models.ContextualAnalysis{
		MedicationID: medicationID,
		Factors:      []models.ContributingFactor{},
	}

	var high, low []models.EfficacyReport
	for _, r := range reports {
		switch {
		case r.OverallRating >= policy.HighEfficacyRating:
			high = append(high, r)
		case r.OverallRating <= policy.LowEfficacyRating:
			low = append(low, r)
		}
	}
	analysis.HighEfficacyDays = len(high)
	analysis.LowEfficacyDays = len(low)

	if len(high) == 0 || len(low) == 0 {
		analysis.Insufficient = &models.Insufficiency{
			Reason:   "need both high and low efficacy reports to compare context",
			Required: 1,
			Actual:   min(len(high), len(low)),
		}
		return analysis
	}

	highCheckIns := matchingCheckIns(high, checkIns, policy.ContextWindowDays)
	lowCheckIns := matchingCheckIns(low, checkIns, policy.ContextWindowDays)

	for _, spec := range factorSpecs(policy) {
		highValues := collectFactor(highCheckIns, spec.value)
		lowValues := collectFactor(lowCheckIns, spec.value)
		if len(highValues) == 0 || len(lowValues) == 0 {
			continue
		}

		highAvg := mean(highValues)
		lowAvg := mean(lowValues)
		diff := highAvg - lowAvg
		if math.Abs(diff) <= spec.threshold {
			continue
		}

		analysis.Factors = append(analysis.Factors, models.ContributingFactor{
			Factor:          spec.factor,
			HighEfficacyAvg: Round(highAvg, 1),
			LowEfficacyAvg:  Round(lowAvg, 1),
			Difference:      Round(diff, 1),
		})
	}

	return analysis
}

// matchingCheckIns returns, per report, every check-in within windowDays
// calendar days of the report
func matchingCheckIns(reports []models.EfficacyReport, checkIns []models.CheckIn, windowDays int) []models.CheckIn {
	var matched []models.CheckIn
	for _, r := range reports {
		reportDay := DayKey(r.RecordedAt)
		for _, c := range checkIns {
			gap := DaysBetween(reportDay, DayKey(c.CreatedAt))
			if gap < 0 {
				gap = -gap
			}
			if gap <= windowDays {
				matched = append(matched, c)
			}
		}
	}
	return matched
}

func collectFactor(checkIns []models.CheckIn, value func(models.CheckIn) *float64) []float64 {
	values := make([]float64, 0, len(checkIns))
	for _, c := range checkIns {
		if v := value(c); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// =============================================================================
// Side-effect severity trend
// =============================================================================

type severityPoint struct {
	at       time.Time
	severity float64
}

// SideEffectSeverityTrends classifies how each side effect's severity moves
// over time. Four or more points compare half averages, two or three compare
// the first and last point, and a single point is stable.
func SideEffectSeverityTrends(reports []models.EfficacyReport, policy Policy) []models.SideEffectTrend {
	byEffect := make(map[string][]severityPoint)
	for _, r := range reports {
		for _, se := range r.SideEffects {
			byEffect[se.Effect] = append(byEffect[se.Effect], severityPoint{at: r.RecordedAt, severity: float64(se.Severity)})
		}
	}

	trends := make([]models.SideEffectTrend, 0, len(byEffect))
	for _, effect := range sortedKeys(byEffect) {
		points := byEffect[effect]
		sort.SliceStable(points, func(i, j int) bool { return points[i].at.Before(points[j].at) })

		trend := models.SideEffectTrend{Effect: effect, DataPoints: len(points), Trend: models.TrendStable}

		var change float64
		switch {
		case len(points) >= 4:
			mid := len(points) / 2
			change = meanSeverity(points[mid:]) - meanSeverity(points[:mid])
		case len(points) >= 2:
			change = points[len(points)-1].severity - points[0].severity
		}
		trend.Change = Round(change, 1)

		switch {
		case trend.Change <= -policy.SeverityTrendThreshold:
			trend.Trend = models.TrendImproving
		case trend.Change >= policy.SeverityTrendThreshold:
			trend.Trend = models.TrendWorsening
		}

		trends = append(trends, trend)
	}
	return trends
}

func meanSeverity(points []severityPoint) float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.severity
	}
	return mean(values)
}
