package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewLogger(LoggerOptions{Level: level, Format: "json", Output: buf})
}

func TestNewLogger(t *testing.T) {
	t.Run("json lines carry level, time and message", func(t *testing.T) {
		var buf bytes.Buffer
		jsonLogger(&buf, "info").Info().Msg("listed root")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal(t, "info", event["level"])
		assert.Equal(t, "listed root", event["message"])
		assert.Contains(t, event, "time")
	})

	t.Run("pretty format writes console text", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(LoggerOptions{Level: "info", Format: "pretty", Output: &buf}).Info().Msg("listed root")
		assert.Contains(t, buf.String(), "listed root")
		assert.False(t, json.Valid(buf.Bytes()))
	})

	t.Run("verbose forces debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(LoggerOptions{Level: "error", Format: "json", Output: &buf, Verbose: true}).
			Debug().Msg("accepted file")
		assert.Contains(t, buf.String(), "accepted file")
	})

	t.Run("nop logger discards", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewNopLogger().WithComponent("x").Error().Msg("discarded")
		})
	})
}

func TestLevelFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{" WARN ", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levelFromName(tt.name))
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, "warn")

	logger.Info().Msg("quiet")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("skipping directory")
	assert.Contains(t, buf.String(), "skipping directory")
}

func TestLoggerContextFields(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").
		WithRunID("run-1").
		WithRepo("acme", "widget").
		WithComponent("traverser").
		Info().Msg("accepted file")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "run-1", event["run_id"])
	assert.Equal(t, "acme/widget", event["repo"])
	assert.Equal(t, "traverser", event["component"])
}
