package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	_, err := Setup("debug", "json", &buf)
	require.NoError(t, err)

	slog.Debug("tool call", "tool", "get_next_task")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tool call", entry["msg"])
	assert.Equal(t, "get_next_task", entry["tool"])
}

func TestSetup_LevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	_, err := Setup("warn", "text", &buf)
	require.NoError(t, err)

	slog.Info("hidden")
	slog.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_Rejects(t *testing.T) {
	_, err := Setup("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Setup("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
