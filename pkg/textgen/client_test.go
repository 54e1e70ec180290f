package textgen

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	c, err := NewClient(Config{Endpoint: "http://example.test/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/v1", c.endpoint)
	assert.Equal(t, "gpt-4o-mini", c.model)
	assert.Equal(t, 15*time.Second, c.HTTPClient.Timeout)
}

func TestGenerate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- Evenings are strong.\n\n* Weekends need help.\n"}}]}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{Endpoint: server.URL, APIKey: "secret", Model: "test-model"})
	require.NoError(t, err)

	rate := 82
	texts, err := c.Generate(context.Background(), models.InsightSummary{TotalLogs: 10, AdherenceRate: &rate})
	require.NoError(t, err)

	assert.Equal(t, []string{"Evenings are strong.", "Weekends need help."}, texts)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, `"adherence_rate":82`)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusBadGateway, `upstream down`, "API error (502)"},
		{"api error body", http.StatusOK, `{"error":{"message":"quota exceeded"}}`, "quota exceeded"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no response"},
		{"malformed", http.StatusOK, `{`, "parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient(Config{Endpoint: server.URL})
			require.NoError(t, err)

			_, err = c.Generate(context.Background(), models.InsightSummary{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate_RespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c, err := NewClient(Config{Endpoint: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Generate(ctx, models.InsightSummary{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
