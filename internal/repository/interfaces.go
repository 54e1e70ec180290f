package repository

import (
	"context"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// DoseEventRepository defines read access to dose events
type DoseEventRepository interface {
	// GetDoseEvents returns events created inside window, oldest first.
	// A nil medicationID returns every medication.
	GetDoseEvents(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.DoseEvent, error)
}

// CheckInRepository defines read access to health check-ins
type CheckInRepository interface {
	GetCheckIns(ctx context.Context, userID string, window models.DateRange) ([]models.CheckIn, error)
}

// EfficacyRepository defines read access to efficacy reports
type EfficacyRepository interface {
	GetEfficacyReports(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.EfficacyReport, error)
}

// VitalRepository defines read access to vital sign readings
type VitalRepository interface {
	GetVitals(ctx context.Context, userID string, window models.DateRange) ([]models.VitalReading, error)
}

// UserRepository defines the interface for user lookups
type UserRepository interface {
	// ListActiveUserIDs returns users with a dose event since the given instant
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
}

// SnapshotRepository persists daily adherence rollups
type SnapshotRepository interface {
	UpsertSnapshots(ctx context.Context, snapshots []models.AdherenceSnapshot) error
}

// Repositories bundles every store the services read from
type Repositories struct {
	Doses     DoseEventRepository
	CheckIns  CheckInRepository
	Efficacy  EfficacyRepository
	Vitals    VitalRepository
	Users     UserRepository
	Snapshots SnapshotRepository
}
