package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{raw: "", want: slog.LevelInfo},
		{raw: "debug", want: slog.LevelDebug},
		{raw: "WARN", want: slog.LevelWarn},
		{raw: "error", want: slog.LevelError},
		{raw: "loud", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseLevel(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vending.log")

	log, closer, err := New(Options{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	log.Info("hello", slog.String("dsn", "https://key@sentry.example/1"))
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestMaskingHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil)))

	log.With(slog.String("token", "abc")).Info("configured",
		slog.String("dsn", "https://key@sentry.example/1"),
		slog.Group("sentry", slog.String("DSN", "secret-dsn"), slog.String("environment", "prod")),
		slog.Int("money", 500),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, maskedValue, entry["token"])
	assert.Equal(t, maskedValue, entry["dsn"])
	assert.Equal(t, float64(500), entry["money"])

	group, ok := entry["sentry"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, maskedValue, group["DSN"])
	assert.Equal(t, "prod", group["environment"])
}

func TestNew_SentryFanoutKeepsLocalOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vending.log")

	log, closer, err := New(Options{Level: "info", Format: "text", File: path, Sentry: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))

	log.With(slog.String("component", "display")).Info("dispensed")
	log.Error("render failed", slog.String("token", "abc"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=dispensed component=display")
	assert.Contains(t, string(data), "msg=\"render failed\" token="+maskedValue)
	assert.NotContains(t, string(data), "abc")
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(context.Background()))

	ctx, id := WithCorrelationID(context.Background())
	assert.Equal(t, id, CorrelationIDFromContext(ctx))
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestMiddleware(t *testing.T) {
	var seen string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationIDFromContext(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set(CorrelationIDHeader, incoming)

		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, incoming, seen)
	})

	t.Run("replaces malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set(CorrelationIDHeader, "not-a-uuid")

		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "not-a-uuid", seen)
	})
}
