// Package cache stores computed reports so repeated requests for the same
// user and window skip the event fetch and the analytics run.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// Cache is a JSON value store with per-entry expiry
type Cache interface {
	// Get decodes the entry into dest and reports whether it existed
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}

// Key builds the cache key for one report kind, user, medication filter and window
func Key(kind, userID string, medicationID *string, window models.DateRange) string {
	med := "all"
	if medicationID != nil {
		med = *medicationID
	}
	return strings.Join([]string{
		"adhere", kind, userID, med,
		fmt.Sprintf("%d-%d", window.Start.UTC().Unix(), window.End.UTC().Unix()),
	}, ":")
}

// Noop never stores anything; used when redis is not configured
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }

func (Noop) Set(ctx context.Context, key string, value any, ttl time.Duration) error { return nil }

func (Noop) Close() error { return nil }
