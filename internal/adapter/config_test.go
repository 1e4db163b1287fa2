package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadConfigFromOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  dir: /tmp/netkin-test
parental:
  pin: "4321"
  kid_max_rating: pg-13
playback:
  load_interval: 5ms
  next_up_countdown: 3
remix:
  base_url: http://localhost:9000
`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/netkin-test", cfg.Storage.Dir)
	assert.Equal(t, "4321", cfg.Parental.PIN)
	assert.Equal(t, "pg-13", cfg.Parental.KidMaxRating)
	assert.Equal(t, 5*time.Millisecond, cfg.Playback.LoadInterval)
	assert.Equal(t, 3, cfg.Playback.NextUpCountdown)
	assert.Equal(t, "http://localhost:9000", cfg.Remix.BaseURL)

	// Untouched keys keep their defaults
	assert.Equal(t, 7, cfg.Playback.MaxLoadStep)
	assert.Equal(t, 3*time.Second, cfg.UI.NotificationTimeout)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("NETKIN_PARENTAL_PIN", "9999")
	t.Setenv("NETKIN_PLAYBACK_TICK_INTERVAL", "250ms")

	cfg, err := LoadConfigFrom(writeConfig(t, "ui:\n  notification_timeout: 1s\n"))
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Parental.PIN)
	assert.Equal(t, 250*time.Millisecond, cfg.Playback.TickInterval)
	assert.Equal(t, time.Second, cfg.UI.NotificationTimeout)
}

func TestLoadConfigFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"non-numeric pin", "parental:\n  pin: abcd\n"},
		{"unknown rating", "parental:\n  kid_max_rating: XXX\n"},
		{"zero load step", "playback:\n  max_load_step: 0\n"},
		{"bad url", "remix:\n  base_url: not a url\n"},
		{"bad level", "logging:\n  level: LOUD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFrom(writeConfig(t, tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Catalog.File = "/srv/catalog.json"
	cfg.Playback.NextUpThreshold = 15 * time.Second
	cfg.Remix.APIKey = "secret"

	require.NoError(t, saveConfigTo(cfg, dir))

	loaded, err := LoadConfigFrom(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestSetupLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "netkin.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "DEBUG", MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("hello", "key", "value")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestSetupLoggerWithoutFile(t *testing.T) {
	logger, err := SetupLogger(&LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
