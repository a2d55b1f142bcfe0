package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "debug")

	logger.Debug().Str("doctor_id", "D001").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "clinic-scheduling", line["service"])
	assert.Equal(t, "D001", line["doctor_id"])
	assert.Equal(t, "debug", line["level"])
	assert.Contains(t, line, "caller")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "warn")

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, "prod", "chatty")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger = newLogger(&bytes.Buffer{}, "prod", "")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestConsoleLoggerInDev(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "dev", "info")

	logger.Info().Msg("booked")

	out := buf.String()
	assert.Contains(t, out, "booked")
	assert.False(t, json.Valid(buf.Bytes()))
}
