package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vending.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, v, err := Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "10", cfg.Machine.InitialStock)
	assert.Equal(t, 10, cfg.Machine.FullLevel)
	assert.Equal(t, []int{100, 500, 1000}, cfg.Machine.Denominations)
	assert.True(t, cfg.Machine.TrackRestock)
	assert.Equal(t, time.Second, cfg.Display.ClearAfter)
	assert.Equal(t, "en", cfg.Display.Language)
	assert.Empty(t, v.ConfigFileUsed())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
machine:
  initial_stock: empty
  full_level: 4
  denominations: [50, 100]
  track_restock: false
display:
  clear_after: 2s
  language: ko
http:
  addr: "127.0.0.1:9090"
`)
	t.Setenv(configPathEnv, path)
	t.Setenv("VENDING_MACHINE_FULL_LEVEL", "6")
	t.Setenv("VENDING_LOG_FORMAT", "text")

	cfg, v, err := Load()
	require.NoError(t, err)

	assert.Equal(t, path, v.ConfigFileUsed())
	assert.Equal(t, "empty", cfg.Machine.InitialStock)
	assert.Equal(t, 6, cfg.Machine.FullLevel)
	assert.Equal(t, []int{50, 100}, cfg.Machine.Denominations)
	assert.False(t, cfg.Machine.TrackRestock)
	assert.Equal(t, 2*time.Second, cfg.Display.ClearAfter)
	assert.Equal(t, "ko", cfg.Display.Language)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "bad stock policy", body: "machine:\n  initial_stock: plenty\n"},
		{name: "negative full level", body: "machine:\n  full_level: -1\n"},
		{name: "zero denomination", body: "machine:\n  denominations: [0]\n"},
		{name: "unknown language", body: "display:\n  language: fr\n"},
		{name: "sentry without dsn", body: "sentry:\n  enabled: true\n"},
		{name: "bad log format", body: "log:\n  format: xml\n"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(configPathEnv, writeConfig(t, tc.body))

			_, _, err := Load()
			assert.ErrorContains(t, err, "validate config")
		})
	}
}

func TestValidStockPolicy(t *testing.T) {
	assert.True(t, ValidStockPolicy("empty"))
	assert.True(t, ValidStockPolicy(" EMPTY "))
	assert.True(t, ValidStockPolicy("0"))
	assert.True(t, ValidStockPolicy("25"))
	assert.False(t, ValidStockPolicy("-3"))
	assert.True(t, ValidStockPolicy(""))
	assert.False(t, ValidStockPolicy("full"))
}

func TestWatch_NoFileIsNoop(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, v, err := Load()
	require.NoError(t, err)

	called := false
	Watch(v, nil, func(*Config) { called = true })
	assert.False(t, called)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// replaceConfig swaps the file by rename so the watcher never reads a half-written file.
func replaceConfig(t *testing.T, path, body string) {
	t.Helper()

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(body), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatch_AppliesReload(t *testing.T) {
	path := writeConfig(t, "display:\n  clear_after: 2s\n  language: en\n")
	t.Setenv(configPathEnv, path)

	cfg, v, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.Display.ClearAfter)

	var (
		mu      sync.Mutex
		applied []DisplayConfig
	)
	last := func() (DisplayConfig, int) {
		mu.Lock()
		defer mu.Unlock()
		if len(applied) == 0 {
			return DisplayConfig{}, 0
		}
		return applied[len(applied)-1], len(applied)
	}

	logs := &syncBuffer{}
	Watch(v, slog.New(slog.NewTextHandler(logs, nil)), func(next *Config) {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, next.Display)
	})

	replaceConfig(t, path, "display:\n  clear_after: 3s\n  language: ko\n")

	assert.Eventually(t, func() bool {
		got, _ := last()
		return got == DisplayConfig{ClearAfter: 3 * time.Second, Language: "ko"}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, logs.String(), "config reloaded")

	_, before := last()
	replaceConfig(t, path, "display:\n  clear_after: 5s\n  language: fr\n")

	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "config reload rejected")
	}, 5*time.Second, 10*time.Millisecond)

	got, after := last()
	assert.Equal(t, before, after, "invalid reload must not be applied")
	assert.Equal(t, DisplayConfig{ClearAfter: 3 * time.Second, Language: "ko"}, got)
}

func TestWatch_NilArguments(t *testing.T) {
	path := writeConfig(t, "display:\n  language: en\n")
	t.Setenv(configPathEnv, path)

	_, v, err := Load()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		Watch(nil, nil, func(*Config) {})
		Watch(v, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	})
}
