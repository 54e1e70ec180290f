package repository

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

type efficacyRepository struct {
	client *supabase.Client
}

// NewEfficacyRepository creates a new efficacy report repository
func NewEfficacyRepository(client *supabase.Client) EfficacyRepository {
	return &efficacyRepository{client: client}
}

func (r *efficacyRepository) GetEfficacyReports(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.EfficacyReport, error) {
	query := windowQuery(userID, "recorded_at", window)
	if medicationID != nil {
		query["medication_id"] = fmt.Sprintf("eq.%s", *medicationID)
	}

	body, err := r.client.Query(ctx, "efficacy_reports", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get efficacy reports: %w", err)
	}

	var reports []models.EfficacyReport
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal efficacy reports: %w", err)
	}

	return reports, nil
}
