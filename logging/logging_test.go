package logging

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
)

func TestNewJSON(t *testing.T) {
	var buf strings.Builder
	logger, err := New(Config{Level: "info", Format: FormatJSON, Output: &buf, OmitTime: true})
	assert.NoError(t, err)

	logger.Info("hello")
	logger.Debug("hidden")
	assert.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 1, len(lines))

	var entry map[string]any
	assert.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "info", entry["level"])

	_, err = uuid.Parse(entry["run_id"].(string))
	assert.NoError(t, err)
	_, hasTime := entry["ts"]
	assert.False(t, hasTime)
}

func TestDefaultLevelIsWarn(t *testing.T) {
	var buf strings.Builder
	logger, err := New(Config{Output: &buf, OmitTime: true})
	assert.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "WARN")
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}
