package repository

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

type doseEventRepository struct {
	client *supabase.Client
}

// NewDoseEventRepository creates a new dose event repository
func NewDoseEventRepository(client *supabase.Client) DoseEventRepository {
	return &doseEventRepository{client: client}
}

func (r *doseEventRepository) GetDoseEvents(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.DoseEvent, error) {
	query := windowQuery(userID, "created_at", window)
	if medicationID != nil {
		query["medication_id"] = fmt.Sprintf("eq.%s", *medicationID)
	}

	body, err := r.client.Query(ctx, "dose_events", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get dose events: %w", err)
	}

	var events []models.DoseEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dose events: %w", err)
	}

	return events, nil
}
