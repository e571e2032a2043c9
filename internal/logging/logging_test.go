package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestNewJSONFiltersLevel verifies the level threshold and JSON fields.
func TestNewJSONFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", FormatJSON, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("model missing", zap.String("model", "llama-8b"))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "model missing", entry["msg"])
	assert.Equal(t, "llama-8b", entry["model"])
	assert.Equal(t, "warn", entry["level"])
}

// TestNewConsole verifies console output carries the message.
func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("", "", &buf)
	require.NoError(t, err)
	logger.Info("loaded", zap.Int("records", 3))
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "loaded")
}

// TestParseLevelRejectsUnknown covers invalid names.
func TestParseLevelRejectsUnknown(t *testing.T) {
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
