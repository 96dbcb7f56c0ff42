package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/research-library/pkg/logging"
)

func TestConfig_Merge(t *testing.T) {
	base := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}
	base.Merge(&logging.Config{Level: logging.LevelDebug})

	assert.Equal(t, logging.LevelDebug, base.Level)
	assert.Equal(t, logging.FormatJSON, base.Format)
}

func TestConfig_Merge_EmptyOverlay(t *testing.T) {
	base := &logging.Config{Level: logging.LevelWarn, Format: logging.FormatText}
	base.Merge(&logging.Config{})

	assert.Equal(t, logging.LevelWarn, base.Level)
	assert.Equal(t, logging.FormatText, base.Format)
}

func TestConfig_Finalize_AppliesDefaults(t *testing.T) {
	cfg := &logging.Config{}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, logging.FormatText, cfg.Format)
	assert.Equal(t, logging.OutputStdout, cfg.Output)
}

func TestConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "error")
	t.Setenv("TEST_LOG_FORMAT", "json")

	cfg := &logging.Config{}
	require.NoError(t, cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"}))

	assert.Equal(t, logging.LevelError, cfg.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Format)
}

func TestConfig_Finalize_OutputEnv(t *testing.T) {
	t.Setenv("TEST_LOG_OUTPUT", "stderr")

	cfg := &logging.Config{}
	require.NoError(t, cfg.Finalize(&logging.Env{Output: "TEST_LOG_OUTPUT"}))
	assert.Equal(t, logging.OutputStderr, cfg.Output)
}

func TestConfig_Merge_Output(t *testing.T) {
	base := &logging.Config{Output: logging.OutputStderr}
	base.Merge(&logging.Config{Output: logging.OutputStdout})
	assert.Equal(t, logging.OutputStdout, base.Output)
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  logging.Config
	}{
		{"invalid level", logging.Config{Level: "verbose"}},
		{"invalid format", logging.Config{Format: "xml"}},
		{"invalid output", logging.Config{Output: "syslog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Finalize(nil))
		})
	}
}

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.ToSlogLevel())
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}, &buf)

	logger.Debug("hidden")
	logger.Info("visible", "system", "store")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "visible", record["msg"])
	assert.Equal(t, "store", record["system"])
}

func TestNewWithStreams(t *testing.T) {
	tests := []struct {
		output     logging.Output
		wantStdout bool
	}{
		{logging.OutputStdout, true},
		{logging.OutputStderr, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.output), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatText, Output: tt.output}

			logging.NewWithStreams(cfg, &stdout, &stderr).Info("routed")

			if tt.wantStdout {
				assert.Contains(t, stdout.String(), "routed")
				assert.Empty(t, stderr.String())
			} else {
				assert.Contains(t, stderr.String(), "routed")
				assert.Empty(t, stdout.String())
			}
		})
	}
}
