package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/solrprobe/internal/config"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "info", Format: "text"})
	require.NoError(t, err)

	Named(logger, "solr").Info("2 Solr queries in 0.05s")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "logger=solr")
	assert.Contains(t, out, `msg="2 Solr queries in 0.05s"`)
	assert.NotContains(t, out, "hidden")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	Named(logger, "solr").Debug("detail", slog.Int("count", 3))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "solr", entry["logger"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, config.LoggingConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestColorizeLevel(t *testing.T) {
	// Piping stdout sets color.NoColor; stderr levels must still be colored.
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	colorize := colorizeLevel(newLevelColors())

	attr := colorize(nil, slog.Any(slog.LevelKey, slog.LevelWarn))
	assert.Contains(t, attr.Value.String(), "WARN")
	assert.Contains(t, attr.Value.String(), "\x1b[")

	other := colorize(nil, slog.String("msg", "x"))
	assert.Equal(t, "x", other.Value.String())

	grouped := colorize([]string{"g"}, slog.Any(slog.LevelKey, slog.LevelWarn))
	assert.NotContains(t, grouped.Value.String(), "\x1b[")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestNamed_NilUsesDefault(t *testing.T) {
	assert.NotNil(t, Named(nil, "solr"))
}
