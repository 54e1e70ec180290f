package repository

import (
	"context"
	"fmt"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

type snapshotRepository struct {
	client *supabase.Client
}

// NewSnapshotRepository creates a new adherence snapshot repository
func NewSnapshotRepository(client *supabase.Client) SnapshotRepository {
	return &snapshotRepository{client: client}
}

func (r *snapshotRepository) UpsertSnapshots(ctx context.Context, snapshots []models.AdherenceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	// PostgREST requires all objects to have identical keys for bulk upsert,
	// so nil rates are sent as explicit nulls
	data := make([]map[string]interface{}, len(snapshots))
	for i, s := range snapshots {
		data[i] = map[string]interface{}{
			"user_id":        s.UserID,
			"date":           s.Date,
			"total_logs":     s.TotalLogs,
			"adherence_rate": s.AdherenceRate,
			"current_streak": s.CurrentStreak,
			"longest_streak": s.LongestStreak,
			"weekly_trend":   s.WeeklyTrend,
			"computed_at":    s.ComputedAt,
		}
	}

	if _, err := r.client.Upsert(ctx, "adherence_snapshots", data, "user_id,date"); err != nil {
		return fmt.Errorf("failed to upsert adherence snapshots: %w", err)
	}

	return nil
}
