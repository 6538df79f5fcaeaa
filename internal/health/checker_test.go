package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/vending-machine/internal/machine"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_Check(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("machine", machine.New(machine.DefaultConfig(), testLogger()))
	checker.AddCheck("display", CheckFunc(func(context.Context) error { return errors.New("display detached") }))
	checker.AddCheck("", CheckFunc(func(context.Context) error { return nil }))
	checker.AddCheck("nil", nil)

	results := checker.Check(context.Background())

	assert.Equal(t, map[string]string{
		"machine": "OK",
		"display": "display detached",
	}, results)
	assert.False(t, Healthy(results))
}

func TestChecker_Handler(t *testing.T) {
	testCases := []struct {
		name       string
		check      CheckFunc
		wantStatus int
	}{
		{name: "healthy", check: func(context.Context) error { return nil }, wantStatus: http.StatusOK},
		{name: "unhealthy", check: func(context.Context) error { return machine.ErrCorruptState }, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			checker := NewChecker(testLogger())
			checker.AddCheck("machine", tc.check)

			rec := httptest.NewRecorder()
			checker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "machine")
		})
	}
}
