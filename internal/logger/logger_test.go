package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZerolog} {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: LevelInfo, Format: "json", Backend: backend, Output: &buf})

			ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
			l.WithContext(ctx).Info("computed", String("medication_id", "med-1"), Int("logs", 12))
			l.Debug("hidden")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 1)

			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
			assert.Equal(t, "computed", entryMessage(entry))
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, "user-1", entry["user_id"])
			assert.Equal(t, "med-1", entry["medication_id"])
			assert.EqualValues(t, 12, entry["logs"])
		})
	}
}

func TestCtx_FallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(Config{Level: LevelDebug, Backend: BackendZerolog, Output: &buf}))
	t.Cleanup(func() { SetDefault(nil) })

	Ctx(context.Background()).Warn("fallback", Bool("degraded", true))

	assert.Contains(t, buf.String(), `"degraded":true`)
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.With(String("k", "v")).Error("dropped", Err(nil))
	})
}

// entryMessage reads the message key used by either backend
func entryMessage(entry map[string]any) any {
	if m, ok := entry["msg"]; ok {
		return m
	}
	return entry["message"]
}
