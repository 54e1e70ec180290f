package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

var testWindow = models.DateRange{
	Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
}

// newTestClient serves body for every request and records the last query
func newTestClient(t *testing.T, body string) (*supabase.Client, *url.Values, *string) {
	t.Helper()
	var query url.Values
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		path = r.URL.Path
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return supabase.NewClient(server.URL, "k"), &query, &path
}

func TestWindowQuery(t *testing.T) {
	q := windowQuery("user-1", "created_at", testWindow)

	assert.Equal(t, "eq.user-1", q["user_id"])
	assert.Equal(t, "(created_at.gte.2024-01-01T00:00:00Z,created_at.lt.2024-02-01T00:00:00Z)", q["and"])
	assert.Equal(t, "created_at.asc", q["order"])
}

func TestDoseEventRepository_GetDoseEvents(t *testing.T) {
	client, query, path := newTestClient(t, `[
		{"id":"d1","user_id":"user-1","medication_id":"med-1","status":"taken",
		 "taken_time":"2024-01-02T08:00:00Z","created_at":"2024-01-02T08:00:05Z"},
		{"id":"d2","user_id":"user-1","medication_id":"med-1","status":"missed",
		 "scheduled_time":"2024-01-03T08:00:00Z","created_at":"2024-01-03T12:00:00Z"}
	]`)
	repo := NewDoseEventRepository(client)

	med := "med-1"
	events, err := repo.GetDoseEvents(context.Background(), "user-1", &med, testWindow)
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/dose_events", *path)
	assert.Equal(t, "eq.med-1", query.Get("medication_id"))
	require.Len(t, events, 2)
	assert.Equal(t, models.DoseStatusTaken, events[0].Status)
	require.NotNil(t, events[0].TakenTime)
	assert.Nil(t, events[0].ScheduledTime)
	assert.Equal(t, models.DoseStatusMissed, events[1].Status)
}

func TestDoseEventRepository_AllMedications(t *testing.T) {
	client, query, _ := newTestClient(t, `[]`)

	_, err := NewDoseEventRepository(client).GetDoseEvents(context.Background(), "user-1", nil, testWindow)

	require.NoError(t, err)
	assert.False(t, query.Has("medication_id"))
}

func TestCheckInRepository_GetCheckIns(t *testing.T) {
	client, _, path := newTestClient(t, `[
		{"id":"c1","user_id":"user-1","feeling":"poor","sleep_hours":5.5,
		 "symptoms":[{"name":"headache","severity":3,"body_location":"head"}],
		 "created_at":"2024-01-05T21:00:00Z"}
	]`)

	checkIns, err := NewCheckInRepository(client).GetCheckIns(context.Background(), "user-1", testWindow)
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/health_checkins", *path)
	require.Len(t, checkIns, 1)
	assert.Equal(t, models.FeelingPoor, checkIns[0].Feeling)
	require.NotNil(t, checkIns[0].SleepHours)
	assert.Equal(t, 5.5, *checkIns[0].SleepHours)
	assert.Nil(t, checkIns[0].StressLevel)
	require.Len(t, checkIns[0].Symptoms, 1)
	assert.Equal(t, "head", *checkIns[0].Symptoms[0].BodyLocation)
}

func TestEfficacyRepository_GetEfficacyReports(t *testing.T) {
	client, query, _ := newTestClient(t, `[
		{"id":"e1","user_id":"user-1","medication_id":"med-2","overall_rating":4,
		 "side_effects":[{"effect":"nausea","severity":2}],
		 "target_symptoms":[{"name":"pain","improvement_rating":4}],
		 "recorded_at":"2024-01-10T09:00:00Z"}
	]`)

	reports, err := NewEfficacyRepository(client).GetEfficacyReports(context.Background(), "user-1", nil, testWindow)
	require.NoError(t, err)

	assert.Contains(t, query.Get("and"), "recorded_at.gte.")
	require.Len(t, reports, 1)
	assert.Equal(t, 4.0, reports[0].OverallRating)
	assert.Nil(t, reports[0].TimeToEffect)
}

func TestVitalRepository_GetVitals(t *testing.T) {
	client, query, _ := newTestClient(t, `[
		{"id":"v1","user_id":"user-1","type":"blood_pressure","values":{"systolic":120,"diastolic":80},
		 "is_normal":true,"timestamp":"2024-01-02T07:00:00Z"}
	]`)

	vitals, err := NewVitalRepository(client).GetVitals(context.Background(), "user-1", testWindow)
	require.NoError(t, err)

	assert.Equal(t, "timestamp.asc", query.Get("order"))
	require.Len(t, vitals, 1)
	assert.Equal(t, models.VitalTypeBloodPressure, vitals[0].Type)
	assert.Equal(t, 120.0, vitals[0].Values["systolic"])
}

func TestUserRepository_ListActiveUserIDs(t *testing.T) {
	client, query, _ := newTestClient(t, `[{"user_id":"b"},{"user_id":"a"},{"user_id":"b"}]`)

	ids, err := NewUserRepository(client).ListActiveUserIDs(context.Background(), testWindow.Start)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, "gte.2024-01-01T00:00:00Z", query.Get("created_at"))
}

func TestSnapshotRepository_UpsertSnapshots(t *testing.T) {
	var sent []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user_id,date", r.URL.Query().Get("on_conflict"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	repo := NewSnapshotRepository(supabase.NewClient(server.URL, "k"))
	rate := 80
	err := repo.UpsertSnapshots(context.Background(), []models.AdherenceSnapshot{
		{UserID: "u1", Date: "2024-01-31", TotalLogs: 10, AdherenceRate: &rate, WeeklyTrend: models.TrendStable},
		{UserID: "u2", Date: "2024-01-31"},
	})
	require.NoError(t, err)

	require.Len(t, sent, 2)
	assert.Equal(t, 80.0, sent[0]["adherence_rate"])
	v, ok := sent[1]["adherence_rate"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestSnapshotRepository_Empty(t *testing.T) {
	repo := NewSnapshotRepository(supabase.NewClient("http://unused.invalid", "k"))
	assert.NoError(t, repo.UpsertSnapshots(context.Background(), nil))
}

func TestRepository_WrapsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	client := supabase.NewClient(server.URL, "k")

	_, err := NewDoseEventRepository(client).GetDoseEvents(context.Background(), "u", nil, testWindow)
	assert.ErrorContains(t, err, "failed to get dose events")

	_, err = NewVitalRepository(client).GetVitals(context.Background(), "u", testWindow)
	assert.ErrorContains(t, err, "failed to get vitals")
}

func TestNewSupabaseRepositories(t *testing.T) {
	repos := NewSupabaseRepositories(supabase.NewClient("http://unused.invalid", "k"))

	assert.NotNil(t, repos.Doses)
	assert.NotNil(t, repos.CheckIns)
	assert.NotNil(t, repos.Efficacy)
	assert.NotNil(t, repos.Vitals)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Snapshots)
}
