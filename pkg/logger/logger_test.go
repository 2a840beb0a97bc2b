package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpfetch/pkg/config"
)

func TestNew(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "shouting"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"ERROR", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		level, err := parseLogLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, level, tt.input)
	}

	_, err := parseLogLevel("nope")
	assert.Error(t, err)
}

func TestTestLoggerCapturesMessages(t *testing.T) {
	log := NewTestLogger()

	log.Info("plain message")
	log.WarnWithFields("with fields", map[string]interface{}{"status": 503})
	log.WithField("date", "2023-01-15").Error("derived message")

	assert.True(t, log.HasMessage("plain message"))
	assert.True(t, log.HasMessage("derived message"))

	warns := log.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, 503, warns[0].Fields["status"])

	errs := log.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.Equal(t, "2023-01-15", errs[0].Fields["date"])

	log.Clear()
	assert.Empty(t, log.GetMessages())
}

func TestTestLoggerWithError(t *testing.T) {
	log := NewTestLogger()
	log.WithError(assert.AnError).Error("something broke")

	errs := log.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.Equal(t, assert.AnError, errs[0].Error)
}
