package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// ErrUnknownUser is returned when a snapshot references a missing user
var ErrUnknownUser = errors.New("unknown user")

const (
	selectDoseEvents = `SELECT id, user_id, medication_id, scheduled_time, taken_time, status, created_at
FROM dose_events
WHERE user_id = $1 AND ($2::text IS NULL OR medication_id = $2) AND created_at >= $3 AND created_at < $4
ORDER BY created_at ASC;`

	selectCheckIns = `SELECT id, user_id, feeling, symptoms, sleep_hours, stress_level, exercise_minutes, created_at
FROM health_checkins
WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
ORDER BY created_at ASC;`

	selectEfficacyReports = `SELECT id, user_id, medication_id, overall_rating, symptom_relief, side_effects, target_symptoms, time_to_effect, effect_duration, recorded_at
FROM efficacy_reports
WHERE user_id = $1 AND ($2::text IS NULL OR medication_id = $2) AND recorded_at >= $3 AND recorded_at < $4
ORDER BY recorded_at ASC;`

	selectVitals = `SELECT id, user_id, type, "values", is_normal, "timestamp"
FROM vital_readings
WHERE user_id = $1 AND "timestamp" >= $2 AND "timestamp" < $3
ORDER BY "timestamp" ASC;`

	selectActiveUsers = `SELECT DISTINCT user_id FROM dose_events WHERE created_at >= $1 ORDER BY user_id;`

	upsertSnapshot = `INSERT INTO adherence_snapshots (user_id, date, total_logs, adherence_rate, current_streak, longest_streak, weekly_trend, computed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, date) DO UPDATE SET total_logs = EXCLUDED.total_logs, adherence_rate = EXCLUDED.adherence_rate,
current_streak = EXCLUDED.current_streak, longest_streak = EXCLUDED.longest_streak,
weekly_trend = EXCLUDED.weekly_trend, computed_at = EXCLUDED.computed_at;`
)

// DoseEventRepo reads dose events
type DoseEventRepo struct {
	conn PgConnection
}

// NewDoseEventRepo creates a dose event repository over conn
func NewDoseEventRepo(conn PgConnection) *DoseEventRepo {
	return &DoseEventRepo{conn: conn}
}

func (r *DoseEventRepo) GetDoseEvents(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.DoseEvent, error) {
	rows, err := r.conn.Query(ctx, selectDoseEvents, userID, medicationID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get dose events: %w", err)
	}
	defer rows.Close()

	events := make([]models.DoseEvent, 0)
	for rows.Next() {
		var e models.DoseEvent
		var status string
		if err := rows.Scan(&e.ID, &e.UserID, &e.MedicationID, &e.ScheduledTime, &e.TakenTime, &status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dose event: %w", err)
		}
		e.Status = models.DoseStatus(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dose events: %w", err)
	}

	return events, nil
}

// CheckInRepo reads health check-ins
type CheckInRepo struct {
	conn PgConnection
}

// NewCheckInRepo creates a check-in repository over conn
func NewCheckInRepo(conn PgConnection) *CheckInRepo {
	return &CheckInRepo{conn: conn}
}

func (r *CheckInRepo) GetCheckIns(ctx context.Context, userID string, window models.DateRange) ([]models.CheckIn, error) {
	rows, err := r.conn.Query(ctx, selectCheckIns, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get check-ins: %w", err)
	}
	defer rows.Close()

	checkIns := make([]models.CheckIn, 0)
	for rows.Next() {
		var c models.CheckIn
		var feeling string
		var symptoms []byte
		if err := rows.Scan(&c.ID, &c.UserID, &feeling, &symptoms, &c.SleepHours, &c.StressLevel, &c.ExerciseMinutes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		c.Feeling = models.Feeling(feeling)
		if err := unmarshalJSONB(symptoms, &c.Symptoms); err != nil {
			return nil, fmt.Errorf("failed to decode symptoms for check-in %s: %w", c.ID, err)
		}
		checkIns = append(checkIns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read check-ins: %w", err)
	}

	return checkIns, nil
}

// EfficacyRepo reads efficacy reports
type EfficacyRepo struct {
	conn PgConnection
}

// NewEfficacyRepo creates an efficacy report repository over conn
func NewEfficacyRepo(conn PgConnection) *EfficacyRepo {
	return &EfficacyRepo{conn: conn}
}

func (r *EfficacyRepo) GetEfficacyReports(ctx context.Context, userID string, medicationID *string, window models.DateRange) ([]models.EfficacyReport, error) {
	rows, err := r.conn.Query(ctx, selectEfficacyReports, userID, medicationID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get efficacy reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.EfficacyReport, 0)
	for rows.Next() {
		var e models.EfficacyReport
		var sideEffects, targets []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.MedicationID, &e.OverallRating, &e.SymptomRelief,
			&sideEffects, &targets, &e.TimeToEffect, &e.EffectDuration, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan efficacy report: %w", err)
		}
		if err := unmarshalJSONB(sideEffects, &e.SideEffects); err != nil {
			return nil, fmt.Errorf("failed to decode side effects for report %s: %w", e.ID, err)
		}
		if err := unmarshalJSONB(targets, &e.TargetSymptoms); err != nil {
			return nil, fmt.Errorf("failed to decode target symptoms for report %s: %w", e.ID, err)
		}
		reports = append(reports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read efficacy reports: %w", err)
	}

	return reports, nil
}

// VitalRepo reads vital sign readings
type VitalRepo struct {
	conn PgConnection
}

// NewVitalRepo creates a vital reading repository over conn
func NewVitalRepo(conn PgConnection) *VitalRepo {
	return &VitalRepo{conn: conn}
}

func (r *VitalRepo) GetVitals(ctx context.Context, userID string, window models.DateRange) ([]models.VitalReading, error) {
	rows, err := r.conn.Query(ctx, selectVitals, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get vitals: %w", err)
	}
	defer rows.Close()

	vitals := make([]models.VitalReading, 0)
	for rows.Next() {
		var v models.VitalReading
		var vitalType string
		var values []byte
		if err := rows.Scan(&v.ID, &v.UserID, &vitalType, &values, &v.IsNormal, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan vital reading: %w", err)
		}
		v.Type = models.VitalType(vitalType)
		if err := unmarshalJSONB(values, &v.Values); err != nil {
			return nil, fmt.Errorf("failed to decode values for vital %s: %w", v.ID, err)
		}
		vitals = append(vitals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vitals: %w", err)
	}

	return vitals, nil
}

// UserRepo lists users with recent activity
type UserRepo struct {
	conn PgConnection
}

// NewUserRepo creates a user repository over conn
func NewUserRepo(conn PgConnection) *UserRepo {
	return &UserRepo{conn: conn}
}

func (r *UserRepo) ListActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := r.conn.Query(ctx, selectActiveUsers, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active users: %w", err)
	}

	return ids, nil
}

// SnapshotRepo writes adherence snapshots
type SnapshotRepo struct {
	conn PgConnection
}

// NewSnapshotRepo creates a snapshot repository over conn
func NewSnapshotRepo(conn PgConnection) *SnapshotRepo {
	return &SnapshotRepo{conn: conn}
}

// UpsertSnapshots writes every snapshot in one transaction
func (r *SnapshotRepo) UpsertSnapshots(ctx context.Context, snapshots []models.AdherenceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	for _, s := range snapshots {
		_, err := tx.Exec(ctx, upsertSnapshot, s.UserID, s.Date, s.TotalLogs, s.AdherenceRate,
			s.CurrentStreak, s.LongestStreak, string(s.WeeklyTrend), s.ComputedAt)
		if err != nil {
			_ = tx.Rollback(ctx)
			var pgErr *pgconn.PgError
			// FK violation
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("snapshot for %s: %w", s.UserID, ErrUnknownUser)
			}
			return fmt.Errorf("failed to upsert snapshot for %s: %w", s.UserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshots: %w", err)
	}

	return nil
}

// unmarshalJSONB decodes a jsonb column, treating NULL as empty
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
