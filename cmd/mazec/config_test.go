package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protab/mazec/mazeprotocol"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mazec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Default(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, mazeprotocol.DefaultAddress, cfg.Server)
	assert.Equal(t, mazeprotocol.DefaultCommandTimeout, cfg.CommandTimeout)
	assert.Equal(t, time.Duration(0), cfg.WaitTimeout)
	assert.True(t, cfg.UseWait)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Empty(t, cfg.User)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadConfig_NoPath(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfig_MissingRequiredFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server: maze.example.org:4000
user: alice
level: abc123
command_timeout: 45s
wait_timeout: 10m
use_wait: false
moves_per_second: 2.5
log_level: debug
log_format: json
metrics_addr: 127.0.0.1:9464
`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "maze.example.org:4000", cfg.Server)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "abc123", cfg.Level)
	assert.Equal(t, 45*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 10*time.Minute, cfg.WaitTimeout)
	assert.False(t, cfg.UseWait)
	assert.Equal(t, 2.5, cfg.MovesPerSecond)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
}

func TestLoadConfig_PartialFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "user: bob\n")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, mazeprotocol.DefaultAddress, cfg.Server)
	assert.True(t, cfg.UseWait)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "user: [unclosed\n")

	_, err := LoadConfig(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "log_format: xml\n")

	_, err := LoadConfig(path, true)
	var validation ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "log_format", validation.Field)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"Defaults are valid", func(*Config) {}, ""},
		{"Server without port", func(c *Config) { c.Server = "localhost" }, "server"},
		{"Negative command timeout", func(c *Config) { c.CommandTimeout = -time.Second }, "command_timeout"},
		{"Negative wait timeout", func(c *Config) { c.WaitTimeout = -time.Second }, "wait_timeout"},
		{"Negative pacing", func(c *Config) { c.MovesPerSecond = -1 }, "moves_per_second"},
		{"Unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"Unknown log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"Bad metrics address", func(c *Config) { c.MetricsAddr = "9464" }, "metrics_addr"},
		{"User with space", func(c *Config) { c.User = "al ice" }, "user"},
		{"Level with newline", func(c *Config) { c.Level = "a\nb" }, "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := ValidateConfig(&cfg)

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var validation ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := ValidateLogin(&cfg)
	var validation ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "user", validation.Field)

	cfg.User = "alice"
	err = ValidateLogin(&cfg)
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "level", validation.Field)

	cfg.Level = "abc123"
	assert.NoError(t, ValidateLogin(&cfg))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "level_code", "abc123")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"app":"mazec"`)

	buf.Reset()
	logger, err = newLogger(&buf, "debug", "text")
	require.NoError(t, err)
	logger.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
