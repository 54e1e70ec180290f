package analytics

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// All bucketing happens in UTC. A calendar day is the UTC date and the
// time-of-day band is chosen from the UTC hour.

const dayLayout = "2006-01-02"

// TimeBands lists the time-of-day bands in reporting order
var TimeBands = []models.TimeOfDay{
	models.TimeOfDayMorning,
	models.TimeOfDayAfternoon,
	models.TimeOfDayEvening,
	models.TimeOfDayNight,
}

// WeekdayNames lists day-of-week labels indexed by time.Weekday
var WeekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayKey returns the UTC calendar day of t as YYYY-MM-DD
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD key into midnight UTC
func ParseDay(key string) (time.Time, error) {
	return time.Parse(dayLayout, key)
}

// AddDays shifts a day key by n calendar days
func AddDays(key string, n int) string {
	t, err := ParseDay(key)
	if err != nil {
		return key
	}
	return t.AddDate(0, 0, n).Format(dayLayout)
}

// DaysBetween returns the number of calendar days from a to b (b - a)
func DaysBetween(a, b string) int {
	ta, errA := ParseDay(a)
	tb, errB := ParseDay(b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// DayRange returns every day key from first to last inclusive
func DayRange(first, last string) []string {
	start, err := ParseDay(first)
	if err != nil {
		return nil
	}
	end, err := ParseDay(last)
	if err != nil || end.Before(start) {
		return nil
	}

	days := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayLayout))
	}
	return days
}

// TimeBand classifies the UTC hour of t into a time-of-day band:
// morning 05-11, afternoon 12-16, evening 17-20, night 21-04.
func TimeBand(t time.Time) models.TimeOfDay {
	h := t.UTC().Hour()
	switch {
	case h >= 5 && h < 12:
		return models.TimeOfDayMorning
	case h >= 12 && h < 17:
		return models.TimeOfDayAfternoon
	case h >= 17 && h < 21:
		return models.TimeOfDayEvening
	default:
		return models.TimeOfDayNight
	}
}

// WeekdayName returns the UTC day-of-week label of t
func WeekdayName(t time.Time) string {
	return WeekdayNames[t.UTC().Weekday()]
}

// IsWeekend reports whether t falls on a Saturday or Sunday (UTC)
func IsWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekStart returns midnight UTC on the Monday of t's week
func WeekStart(t time.Time) time.Time {
	u := t.UTC()
	offset := (int(u.Weekday()) + 6) % 7
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// sortedKeys returns the keys of a day-indexed map in ascending order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
