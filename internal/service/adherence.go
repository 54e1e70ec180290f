package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/JonnyWalker81/adhere/backend/internal/analytics"
	"github.com/JonnyWalker81/adhere/backend/internal/cache"
	"github.com/JonnyWalker81/adhere/backend/internal/insights"
	"github.com/JonnyWalker81/adhere/backend/internal/logger"
	"github.com/JonnyWalker81/adhere/backend/internal/metrics"
	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/internal/repository"
)

const (
	// Default analysis window when the caller gives none
	DefaultWindowDays = 30

	// How long computed reports stay in the cache
	DefaultCacheTTL = 6 * time.Hour

	// Users recomputed in parallel by the snapshot job
	DefaultRecomputeConcurrency = 8
)

// Options configures the adherence service
type Options struct {
	Policy               analytics.Policy
	CacheTTL             time.Duration
	WindowDays           int
	RecomputeConcurrency int
	Clock                func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.WindowDays == 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.RecomputeConcurrency == 0 {
		o.RecomputeConcurrency = DefaultRecomputeConcurrency
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

type adherenceService struct {
	repos     repository.Repositories
	formatter *insights.Formatter
	cache     cache.Cache
	opts      Options
}

// NewAdherenceService creates a new adherence service
func NewAdherenceService(repos repository.Repositories, formatter *insights.Formatter, c cache.Cache, opts Options) AdherenceService {
	if c == nil {
		c = cache.Noop{}
	}
	return &adherenceService{
		repos:     repos,
		formatter: formatter,
		cache:     c,
		opts:      opts.withDefaults(),
	}
}

// DefaultWindow covers the given number of whole UTC days ending with today
func DefaultWindow(now time.Time, days int) models.DateRange {
	y, m, d := now.UTC().Date()
	end := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
	return models.DateRange{Start: end.AddDate(0, 0, -days), End: end}
}

// GetAdherence returns the adherence report for a user's doses in the window
func (s *adherenceService) GetAdherence(ctx context.Context, userID string, medicationID *string, window models.DateRange) (*models.AdherenceReport, error) {
	if err := analytics.ValidateRange(window); err != nil {
		return nil, err
	}

	return cached(ctx, s, cache.Key("adherence", userID, medicationID, window), func() (*models.AdherenceReport, error) {
		doses, err := s.repos.Doses.GetDoseEvents(ctx, userID, medicationID, window)
		if err != nil {
			return nil, fmt.Errorf("failed to get dose events: %w", err)
		}

		report := s.adherence(doses)
		return &report, nil
	})
}

// GetConsumption returns per-medication dose spacing for the window
func (s *adherenceService) GetConsumption(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.ConsumptionPattern, error) {
	if err := analytics.ValidateRange(window); err != nil {
		return nil, err
	}

	doses, err := s.repos.Doses.GetDoseEvents(ctx, userID, medicationID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to get dose events: %w", err)
	}

	defer observe("consumption", time.Now())
	patterns := analytics.AnalyzeConsumption(doses, s.opts.Policy)
	for _, p := range patterns {
		countInsufficient("consumption", p.Insufficient)
	}
	return patterns, nil
}

// GetEfficacy summarizes one medication's efficacy reports
func (s *adherenceService) GetEfficacy(ctx context.Context, userID, medicationID string, window models.DateRange) (*models.EfficacySummary, error) {
	reports, err := s.efficacyReports(ctx, userID, medicationID, window)
	if err != nil {
		return nil, err
	}

	defer observe("efficacy", time.Now())
	summary := analytics.SummarizeEfficacy(medicationID, reports, s.opts.Policy)
	countInsufficient("efficacy", summary.Insufficient)
	return &summary, nil
}

// GetContextualFactors compares check-in context on high and low efficacy days
func (s *adherenceService) GetContextualFactors(ctx context.Context, userID, medicationID string, window models.DateRange) (*models.ContextualAnalysis, error) {
	reports, err := s.efficacyReports(ctx, userID, medicationID, window)
	if err != nil {
		return nil, err
	}

	checkIns, err := s.repos.CheckIns.GetCheckIns(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to get check-ins: %w", err)
	}

	defer observe("contextual_factors", time.Now())
	analysis := analytics.AnalyzeContextualFactors(medicationID, reports, checkIns, s.opts.Policy)
	countInsufficient("contextual_factors", analysis.Insufficient)
	return &analysis, nil
}

// GetSideEffectTrends returns severity trends for one medication's side effects
func (s *adherenceService) GetSideEffectTrends(ctx context.Context, userID, medicationID string, window models.DateRange) ([]models.SideEffectTrend, error) {
	reports, err := s.efficacyReports(ctx, userID, medicationID, window)
	if err != nil {
		return nil, err
	}

	defer observe("side_effects", time.Now())
	return analytics.SideEffectSeverityTrends(reports, s.opts.Policy), nil
}

// GetCorrelations runs the symptom/medication correlation engine
func (s *adherenceService) GetCorrelations(ctx context.Context, userID string, window models.DateRange) (*models.CorrelationReport, error) {
	if err := analytics.ValidateRange(window); err != nil {
		return nil, err
	}

	return cached(ctx, s, cache.Key("correlations", userID, nil, window), func() (*models.CorrelationReport, error) {
		data, err := s.fetch(ctx, userID, window)
		if err != nil {
			return nil, err
		}
		return s.correlate(data, window)
	})
}

// GetInsights computes every analysis for the window and formats insight text
func (s *adherenceService) GetInsights(ctx context.Context, userID string, window models.DateRange) (*models.InsightsResponse, error) {
	if err := analytics.ValidateRange(window); err != nil {
		return nil, err
	}

	return cached(ctx, s, cache.Key("insights", userID, nil, window), func() (*models.InsightsResponse, error) {
		data, err := s.fetch(ctx, userID, window)
		if err != nil {
			return nil, err
		}
		return s.buildInsights(ctx, data, window)
	})
}

// ============================================================================
// Snapshot recompute
// ============================================================================

// RecomputeSnapshots computes the default-window adherence report for every
// user active in that window, caches it and stores a daily snapshot row.
// One user's failure is logged and counted without stopping the others.
func (s *adherenceService) RecomputeSnapshots(ctx context.Context, now time.Time) (*RecomputeResult, error) {
	log := logger.Ctx(ctx)
	window := DefaultWindow(now, s.opts.WindowDays)

	userIDs, err := s.repos.Users.ListActiveUserIDs(ctx, window.Start)
	if err != nil {
		metrics.SchedulerRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	result := &RecomputeResult{Users: len(userIDs)}
	snapshots := make([]models.AdherenceSnapshot, 0, len(userIDs))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(s.opts.RecomputeConcurrency)
	for _, userID := range userIDs {
		userID := userID // per-iteration copy; go directive is below 1.22
		p.Go(func() {
			doses, err := s.repos.Doses.GetDoseEvents(ctx, userID, nil, window)
			if err != nil {
				log.Error("snapshot recompute failed", logger.String("user_id", userID), logger.Err(err))
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return
			}

			report := analytics.CalculateAdherence(doses, now, s.opts.Policy)
			if err := s.cache.Set(ctx, cache.Key("adherence", userID, nil, window), &report, s.opts.CacheTTL); err != nil {
				log.Warn("failed to cache adherence report", logger.String("user_id", userID), logger.Err(err))
			}

			mu.Lock()
			snapshots = append(snapshots, snapshotFrom(userID, now, report))
			result.Computed++
			mu.Unlock()
		})
	}
	p.Wait()

	if err := s.repos.Snapshots.UpsertSnapshots(ctx, snapshots); err != nil {
		metrics.SchedulerRuns.WithLabelValues("error").Inc()
		return result, fmt.Errorf("failed to store snapshots: %w", err)
	}

	metrics.SnapshotsComputed.Add(float64(result.Computed))
	outcome := "success"
	if result.Failed > 0 {
		outcome = "partial"
	}
	metrics.SchedulerRuns.WithLabelValues(outcome).Inc()

	log.Info("recomputed adherence snapshots",
		logger.Int("users", result.Users),
		logger.Int("computed", result.Computed),
		logger.Int("failed", result.Failed),
	)

	return result, nil
}

func snapshotFrom(userID string, now time.Time, report models.AdherenceReport) models.AdherenceSnapshot {
	return models.AdherenceSnapshot{
		UserID:        userID,
		Date:          analytics.DayKey(now),
		TotalLogs:     report.Summary.TotalLogs,
		AdherenceRate: report.Summary.AdherenceRate,
		CurrentStreak: report.Summary.CurrentStreak,
		LongestStreak: report.Summary.LongestStreak,
		WeeklyTrend:   report.WeeklyTrend.Trend,
		ComputedAt:    now.UTC(),
	}
}

// ============================================================================
// Helper functions
// ============================================================================

// dataset is every event type for one user and window
type dataset struct {
	doses    []models.DoseEvent
	checkIns []models.CheckIn
	efficacy []models.EfficacyReport
	vitals   []models.VitalReading
}

// fetch loads the four event types concurrently, cancelling the rest on the first error
func (s *adherenceService) fetch(ctx context.Context, userID string, window models.DateRange) (*dataset, error) {
	var data dataset

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		if data.doses, err = s.repos.Doses.GetDoseEvents(ctx, userID, nil, window); err != nil {
			return fmt.Errorf("failed to get dose events: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		if data.checkIns, err = s.repos.CheckIns.GetCheckIns(ctx, userID, window); err != nil {
			return fmt.Errorf("failed to get check-ins: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		if data.efficacy, err = s.repos.Efficacy.GetEfficacyReports(ctx, userID, nil, window); err != nil {
			return fmt.Errorf("failed to get efficacy reports: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		if data.vitals, err = s.repos.Vitals.GetVitals(ctx, userID, window); err != nil {
			return fmt.Errorf("failed to get vitals: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &data, nil
}

func (s *adherenceService) efficacyReports(ctx context.Context, userID, medicationID string, window models.DateRange) ([]models.EfficacyReport, error) {
	if err := analytics.ValidateRange(window); err != nil {
		return nil, err
	}

	reports, err := s.repos.Efficacy.GetEfficacyReports(ctx, userID, &medicationID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to get efficacy reports: %w", err)
	}
	return reports, nil
}

func (s *adherenceService) adherence(doses []models.DoseEvent) models.AdherenceReport {
	defer observe("adherence", time.Now())
	report := analytics.CalculateAdherence(doses, s.opts.Clock(), s.opts.Policy)
	countInsufficient("adherence", report.Insufficient)
	return report
}

func (s *adherenceService) correlate(data *dataset, window models.DateRange) (*models.CorrelationReport, error) {
	defer observe("correlations", time.Now())
	return analytics.RunCorrelationAnalysis(analytics.CorrelationInput{
		Window:   window,
		Doses:    data.doses,
		CheckIns: data.checkIns,
		Efficacy: data.efficacy,
		Vitals:   data.vitals,
		Now:      s.opts.Clock(),
		Policy:   s.opts.Policy,
	})
}

func (s *adherenceService) buildInsights(ctx context.Context, data *dataset, window models.DateRange) (*models.InsightsResponse, error) {
	adherence := s.adherence(data.doses)

	correlations, err := s.correlate(data, window)
	if err != nil {
		return nil, err
	}

	summary := insights.BuildSummary(insights.SummaryInput{
		Adherence:    adherence,
		Consumption:  analytics.AnalyzeConsumption(data.doses, s.opts.Policy),
		Correlations: correlations,
		Efficacy:     analytics.SummarizeEfficacyByMedication(data.efficacy, s.opts.Policy),
		SideEffects:  analytics.SideEffectSeverityTrends(data.efficacy, s.opts.Policy),
	})

	text := s.formatter.Format(ctx, summary)

	return &models.InsightsResponse{
		Window:          window,
		Adherence:       adherence,
		Correlations:    *correlations,
		Summary:         summary,
		Insights:        text.Insights,
		Recommendations: text.Recommendations,
		Source:          text.Source,
		ComputedAt:      s.opts.Clock().UTC(),
		DataSufficient:  summary.DataSufficient,
	}, nil
}

// cached returns the cached value for key, or computes and stores it.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *adherenceService, key string, compute func() (T, error)) (T, error) {
	log := logger.Ctx(ctx)

	var value T
	found, err := s.cache.Get(ctx, key, &value)
	if err != nil {
		log.Warn("cache read failed", logger.String("key", key), logger.Err(err))
	} else if found {
		return value, nil
	}

	value, err = compute()
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value, s.opts.CacheTTL); err != nil {
		log.Warn("cache write failed", logger.String("key", key), logger.Err(err))
	}
	return value, nil
}

func observe(analysis string, start time.Time) {
	metrics.AnalysisDuration.WithLabelValues(analysis).Observe(time.Since(start).Seconds())
}

func countInsufficient(analysis string, insufficient *models.Insufficiency) {
	if insufficient != nil {
		metrics.InsufficientData.WithLabelValues(analysis).Inc()
	}
}
