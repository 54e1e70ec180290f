package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/service"
)

type fakeRecomputer struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	ctx   context.Context
}

func (f *fakeRecomputer) RecomputeSnapshots(ctx context.Context, now time.Time) (*service.RecomputeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	f.ctx = ctx
	if f.err != nil {
		return nil, f.err
	}
	return &service.RecomputeResult{Users: 1, Computed: 1}, nil
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New(&fakeRecomputer{}, "not a schedule", 0)
	assert.ErrorContains(t, err, "invalid schedule")
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(&fakeRecomputer{}, "", 0)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, s.timeout)
	require.Len(t, s.cron.Entries(), 1)
}

func TestRun_PassesClockAndDeadline(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	rec := &fakeRecomputer{}
	s, err := New(rec, DefaultSpec, time.Minute)
	require.NoError(t, err)
	s.clock = func() time.Time { return fixed }

	s.Run()

	require.Len(t, rec.calls, 1)
	assert.Equal(t, fixed, rec.calls[0])
	_, hasDeadline := rec.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestRun_ErrorIsLogged(t *testing.T) {
	rec := &fakeRecomputer{err: errors.New("db down")}
	s, err := New(rec, DefaultSpec, time.Minute)
	require.NoError(t, err)

	assert.NotPanics(t, s.Run)
	assert.Len(t, rec.calls, 1)
}

func TestStartStop(t *testing.T) {
	rec := &fakeRecomputer{}
	s, err := New(rec, "@every 1s", time.Second)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.calls) > 0
	}, 3*time.Second, 10*time.Millisecond)
	s.Stop()
}
