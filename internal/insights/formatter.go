package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonnyWalker81/adhere/backend/internal/logger"
	"github.com/JonnyWalker81/adhere/backend/internal/metrics"
	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// ErrGeneratorUnavailable wraps every failure of the text generator
var ErrGeneratorUnavailable = errors.New("insight generator unavailable")

// Generator produces natural-language insights from a summary
type Generator interface {
	Generate(ctx context.Context, summary models.InsightSummary) ([]string, error)
}

// Result is the text produced for one summary
type Result struct {
	Insights        []models.Insight
	Recommendations []models.Insight
	Source          models.InsightSource
}

// Formatter produces insight text, preferring the generator and falling
// back to canned text whenever it is absent, fails or returns nothing.
type Formatter struct {
	generator Generator
}

// NewFormatter creates a formatter. A nil generator always uses the canned text.
func NewFormatter(generator Generator) *Formatter {
	return &Formatter{generator: generator}
}

// Format never fails: generator problems are logged and the canned text is
// returned instead. Recommendations always come from the deterministic rules.
func (f *Formatter) Format(ctx context.Context, summary models.InsightSummary) Result {
	log := logger.Ctx(ctx)

	fallbackInsights, recommendations := Fallback(summary)
	result := Result{
		Insights:        fallbackInsights,
		Recommendations: recommendations,
		Source:          models.InsightSourceFallback,
	}

	if f.generator == nil || !summary.DataSufficient {
		metrics.InsightSource.WithLabelValues(string(result.Source)).Inc()
		return result
	}

	texts, err := f.generate(ctx, summary)
	if err != nil {
		metrics.GeneratorErrors.Inc()
		log.Warn("using fallback insights", logger.Err(err))
		metrics.InsightSource.WithLabelValues(string(result.Source)).Inc()
		return result
	}

	generated := make([]models.Insight, 0, len(texts))
	for _, text := range texts {
		generated = append(generated, models.Insight{Kind: models.InsightKindObservation, Text: text})
	}
	result.Insights = generated
	result.Source = models.InsightSourceGenerated

	metrics.InsightSource.WithLabelValues(string(result.Source)).Inc()
	return result
}

// generate calls the generator and drops blank lines
func (f *Formatter) generate(ctx context.Context, summary models.InsightSummary) ([]string, error) {
	texts, err := f.generator.Generate(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrGeneratorUnavailable)
	}
	return cleaned, nil
}
