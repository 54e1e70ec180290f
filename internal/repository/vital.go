package repository

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

type vitalRepository struct {
	client *supabase.Client
}

// NewVitalRepository creates a new vital reading repository
func NewVitalRepository(client *supabase.Client) VitalRepository {
	return &vitalRepository{client: client}
}

func (r *vitalRepository) GetVitals(ctx context.Context, userID string, window models.DateRange) ([]models.VitalReading, error) {
	body, err := r.client.Query(ctx, "vital_readings", windowQuery(userID, "timestamp", window))
	if err != nil {
		return nil, fmt.Errorf("failed to get vitals: %w", err)
	}

	var vitals []models.VitalReading
	if err := json.Unmarshal(body, &vitals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vitals: %w", err)
	}

	return vitals, nil
}
