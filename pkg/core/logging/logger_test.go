package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"business_planner/pkg/core/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, "json")

	logger.Debug("hidden")
	logger.Info("monthly data generated", "months", 24)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "monthly data generated", entry["msg"])
	assert.Equal(t, float64(24), entry["months"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, slog.LevelDebug, "text").Debug("visible", "kind", "metrics")

	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "kind=metrics")
}
