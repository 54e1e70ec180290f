package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// ErrInvalidRange is returned when an analysis window is malformed or inverted
var ErrInvalidRange = errors.New("invalid date range")

// ValidateRange rejects zero bounds and windows whose end is not after the start.
// Bounds are never swapped.
func ValidateRange(r models.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if !r.End.After(r.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidRange,
			r.End.UTC().Format(dayLayout), r.Start.UTC().Format(dayLayout))
	}
	return nil
}

// roundingEpsilon absorbs binary representation error so that values such
// as 2.45 round up as their decimal form suggests.
const roundingEpsilon = 1e-9

// Round rounds x half-up to the given number of decimal places
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5+roundingEpsilon) / p
}

// RoundInt rounds x half-up to the nearest integer
func RoundInt(x float64) int {
	return int(Round(x, 0))
}

// Percent returns round(part/total*100), or 0 when total is 0
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return RoundInt(float64(part) / float64(total) * 100)
}

// ratePtr is Percent with nil for an empty denominator
func ratePtr(part, total int) *int {
	if total == 0 {
		return nil
	}
	rate := Percent(part, total)
	return &rate
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev is the square root of the population variance
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func stringPtr(v string) *string { return &v }
