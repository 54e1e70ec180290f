package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

type userRepository struct {
	client *supabase.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *supabase.Client) UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) ListActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	query := map[string]string{
		"created_at": fmt.Sprintf("gte.%s", since.UTC().Format(time.RFC3339)),
		"select":     "user_id",
	}

	body, err := r.client.Query(ctx, "dose_events", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	var rows []struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}

	// PostgREST has no DISTINCT; one row per event comes back
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}
		ids = append(ids, row.UserID)
	}
	sort.Strings(ids)

	return ids, nil
}
