package repository

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

type checkInRepository struct {
	client *supabase.Client
}

// NewCheckInRepository creates a new check-in repository
func NewCheckInRepository(client *supabase.Client) CheckInRepository {
	return &checkInRepository{client: client}
}

func (r *checkInRepository) GetCheckIns(ctx context.Context, userID string, window models.DateRange) ([]models.CheckIn, error) {
	body, err := r.client.Query(ctx, "health_checkins", windowQuery(userID, "created_at", window))
	if err != nil {
		return nil, fmt.Errorf("failed to get check-ins: %w", err)
	}

	var checkIns []models.CheckIn
	if err := json.Unmarshal(body, &checkIns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check-ins: %w", err)
	}

	return checkIns, nil
}
