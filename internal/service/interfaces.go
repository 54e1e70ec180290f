package service

import (
	"context"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// AdherenceService defines the interface for adherence analytics business logic
type AdherenceService interface {
	GetAdherence(ctx context.Context, userID string, medicationID *string, window models.DateRange) (*models.AdherenceReport, error)
	GetConsumption(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.ConsumptionPattern, error)
	GetEfficacy(ctx context.Context, userID, medicationID string, window models.DateRange) (*models.EfficacySummary, error)
	GetContextualFactors(ctx context.Context, userID, medicationID string, window models.DateRange) (*models.ContextualAnalysis, error)
	GetSideEffectTrends(ctx context.Context, userID, medicationID string, window models.DateRange) ([]models.SideEffectTrend, error)
	GetCorrelations(ctx context.Context, userID string, window models.DateRange) (*models.CorrelationReport, error)
	GetInsights(ctx context.Context, userID string, window models.DateRange) (*models.InsightsResponse, error)
	RecomputeSnapshots(ctx context.Context, now time.Time) (*RecomputeResult, error)
}

// RecomputeResult reports what one snapshot run did
type RecomputeResult struct {
	Users    int `json:"users"`
	Computed int `json:"computed"`
	Failed   int `json:"failed"`
}
