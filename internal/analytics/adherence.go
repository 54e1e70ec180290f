package analytics

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// =============================================================================
// Adherence Calculator
// =============================================================================

// CalculateAdherence computes the summary, time-bucket breakdowns and weekly
// trend for a set of dose events. now frames days-since-last-dose and the
// report timestamp; it is never read from the system clock.
func CalculateAdherence(events []models.DoseEvent, now time.Time, policy Policy) models.AdherenceReport {
	report := models.AdherenceReport{
		Summary:     Summarize(events),
		DayOfWeek:   dayOfWeekBreakdown(events, policy.MinDayOfWeekSupport),
		TimeOfDay:   timeOfDayBreakdown(events, policy.MinTimeOfDaySupport),
		WeeklyTrend: weeklyTrend(events, policy),
		GeneratedAt: now.UTC(),
	}

	report.MostProblematicDay = mostProblematic(report.DayOfWeek)
	report.MostProblematicTime = mostProblematic(report.TimeOfDay)
	report.WeekdayRate, report.WeekendRate = weekdayWeekendRates(events)
	report.DaysSinceLastTaken = daysSinceLastTaken(events, now)

	if total := report.Summary.TotalLogs; total < policy.MinLogsForRecommendations {
		report.Insufficient = &models.Insufficiency{
			Reason:   "not enough dose logs to draw conclusions",
			Required: policy.MinLogsForRecommendations,
			Actual:   total,
		}
	}

	return report
}

// Summarize counts statuses and computes the rate and streaks
func Summarize(events []models.DoseEvent) models.AdherenceSummary {
	summary := models.AdherenceSummary{TotalLogs: len(events)}

	for _, e := range events {
		switch e.Status {
		case models.DoseStatusTaken:
			summary.TakenLogs++
		case models.DoseStatusMissed:
			summary.MissedLogs++
		case models.DoseStatusSkipped:
			summary.SkippedLogs++
		}
	}

	summary.AdherenceRate = ratePtr(summary.TakenLogs, summary.TotalLogs)
	summary.CurrentStreak = currentStreak(events)
	summary.LongestStreak = longestStreak(events)

	return summary
}

// sortedByCreated returns a copy of events ordered by CreatedAt
func sortedByCreated(events []models.DoseEvent, descending bool) []models.DoseEvent {
	sorted := make([]models.DoseEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// currentStreak counts consecutive "taken" entries from the most recent one
func currentStreak(events []models.DoseEvent) int {
	streak := 0
	for _, e := range sortedByCreated(events, true) {
		if e.Status != models.DoseStatusTaken {
			break
		}
		streak++
	}
	return streak
}

// longestStreak finds the longest run of "taken" entries anywhere in history
func longestStreak(events []models.DoseEvent) int {
	running, longest := 0, 0
	for _, e := range sortedByCreated(events, false) {
		if e.Status == models.DoseStatusTaken {
			running++
			if running > longest {
				longest = running
			}
		} else {
			running = 0
		}
	}
	return longest
}

// tally adds one event to a bucket
func tally(b *models.BucketStat, status models.DoseStatus) {
	b.Total++
	switch status {
	case models.DoseStatusTaken:
		b.Taken++
	case models.DoseStatusMissed:
		b.Missed++
	case models.DoseStatusSkipped:
		b.Skipped++
	}
}

// finalizeBuckets sets each bucket's rate when it meets the support threshold
func finalizeBuckets(buckets []models.BucketStat, minSupport int) {
	for i := range buckets {
		if buckets[i].Total > 0 && buckets[i].Total >= minSupport {
			buckets[i].AdherenceRate = ratePtr(buckets[i].Taken, buckets[i].Total)
		}
	}
}

// dayOfWeekBreakdown buckets events Sunday..Saturday
func dayOfWeekBreakdown(events []models.DoseEvent, minSupport int) []models.BucketStat {
	buckets := make([]models.BucketStat, len(WeekdayNames))
	for i, name := range WeekdayNames {
		buckets[i].Label = name
	}

	for _, e := range events {
		tally(&buckets[e.BucketTime().UTC().Weekday()], e.Status)
	}

	finalizeBuckets(buckets, minSupport)
	return buckets
}

// timeOfDayBreakdown buckets events into morning/afternoon/evening/night
func timeOfDayBreakdown(events []models.DoseEvent, minSupport int) []models.BucketStat {
	buckets := make([]models.BucketStat, len(TimeBands))
	index := make(map[models.TimeOfDay]int, len(TimeBands))
	for i, band := range TimeBands {
		buckets[i].Label = string(band)
		index[band] = i
	}

	for _, e := range events {
		tally(&buckets[index[TimeBand(e.BucketTime())]], e.Status)
	}

	finalizeBuckets(buckets, minSupport)
	return buckets
}

// mostProblematic returns the label of the supported bucket with the lowest
// rate. Buckets without a rate never qualify.
func mostProblematic(buckets []models.BucketStat) *string {
	var worst *models.BucketStat
	for i := range buckets {
		b := &buckets[i]
		if b.AdherenceRate == nil {
			continue
		}
		if worst == nil || *b.AdherenceRate < *worst.AdherenceRate {
			worst = b
		}
	}
	if worst == nil {
		return nil
	}
	return stringPtr(worst.Label)
}

// weeklyTrend aggregates events per Monday-based week and compares the
// first half of the weeks against the second half
func weeklyTrend(events []models.DoseEvent, policy Policy) models.WeeklyTrend {
	byWeek := make(map[time.Time]*models.WeekStat)
	for _, e := range events {
		start := WeekStart(e.BucketTime())
		ws, ok := byWeek[start]
		if !ok {
			ws = &models.WeekStat{WeekStart: start}
			byWeek[start] = ws
		}
		ws.Total++
		if e.Status == models.DoseStatusTaken {
			ws.Taken++
		}
	}

	weeks := make([]models.WeekStat, 0, len(byWeek))
	for _, ws := range byWeek {
		ws.AdherenceRate = Percent(ws.Taken, ws.Total)
		weeks = append(weeks, *ws)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart.Before(weeks[j].WeekStart) })

	trend := models.WeeklyTrend{Weeks: weeks, Trend: models.TrendStable}
	if len(weeks) < policy.MinWeeksForTrend {
		return trend
	}

	mid := len(weeks) / 2
	first := weekRates(weeks[:mid])
	second := weekRates(weeks[mid:])
	firstAvg := Round(mean(first), 1)
	secondAvg := Round(mean(second), 1)

	trend.Compared = true
	trend.FirstHalfAverage = floatPtr(firstAvg)
	trend.SecondHalfAverage = floatPtr(secondAvg)

	diff := Round(secondAvg-firstAvg, 1)
	switch {
	case diff >= policy.WeeklyTrendThreshold:
		trend.Trend = models.TrendImproving
	case diff <= -policy.WeeklyTrendThreshold:
		trend.Trend = models.TrendDeclining
	}

	return trend
}

func weekRates(weeks []models.WeekStat) []float64 {
	rates := make([]float64, len(weeks))
	for i, w := range weeks {
		rates[i] = float64(w.AdherenceRate)
	}
	return rates
}

// weekdayWeekendRates splits adherence between Mon-Fri and Sat/Sun
func weekdayWeekendRates(events []models.DoseEvent) (weekday, weekend *int) {
	var wdTotal, wdTaken, weTotal, weTaken int
	for _, e := range events {
		taken := e.Status == models.DoseStatusTaken
		if IsWeekend(e.BucketTime()) {
			weTotal++
			if taken {
				weTaken++
			}
		} else {
			wdTotal++
			if taken {
				wdTaken++
			}
		}
	}
	return ratePtr(wdTaken, wdTotal), ratePtr(weTaken, weTotal)
}

// daysSinceLastTaken counts calendar days between the latest taken dose and now
func daysSinceLastTaken(events []models.DoseEvent, now time.Time) *int {
	var last time.Time
	found := false
	for _, e := range events {
		if e.Status != models.DoseStatusTaken {
			continue
		}
		t := e.PreferredTime()
		if !found || t.After(last) {
			last = t
			found = true
		}
	}
	if !found {
		return nil
	}

	days := DaysBetween(DayKey(last), DayKey(now))
	if days < 0 {
		days = 0
	}
	return intPtr(days)
}

// =============================================================================
// Dose timeline
// =============================================================================

// BuildDoseTimeline groups dose events by the calendar day they were logged
func BuildDoseTimeline(events []models.DoseEvent) map[string]models.DayDoseCounts {
	timeline := make(map[string]models.DayDoseCounts)
	for _, e := range events {
		key := DayKey(e.CreatedAt)
		day := timeline[key]
		switch e.Status {
		case models.DoseStatusTaken:
			day.Taken++
		case models.DoseStatusMissed:
			day.Missed++
		case models.DoseStatusSkipped:
			day.Skipped++
		}
		timeline[key] = day
	}
	return timeline
}

// SummaryFromTimeline re-derives the count fields of an AdherenceSummary from
// a dose timeline. Streaks need event order and are left at zero.
func SummaryFromTimeline(timeline map[string]models.DayDoseCounts) models.AdherenceSummary {
	var summary models.AdherenceSummary
	for _, day := range timeline {
		summary.TakenLogs += day.Taken
		summary.MissedLogs += day.Missed
		summary.SkippedLogs += day.Skipped
	}
	summary.TotalLogs = summary.TakenLogs + summary.MissedLogs + summary.SkippedLogs
	summary.AdherenceRate = ratePtr(summary.TakenLogs, summary.TotalLogs)
	return summary
}
