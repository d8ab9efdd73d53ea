package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lingoscene/lingoscene-api/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", JSON: true, Output: &buf})

	logger.GetLogger("api").Info("request", "method", "GET", "status", 200)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "api", entry["prefix"])
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", "k", "v")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "verbose", Output: &buf})

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.With("component", "test").Info("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "component")
}
