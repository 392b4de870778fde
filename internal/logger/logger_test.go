package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	log.Info("items loaded", "count", 3)

	assert.Contains(t, buf.String(), `"msg":"items loaded"`)
	assert.Contains(t, buf.String(), `"count":3`)
}

func TestNew_ProductionDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production"})

	log.Info("hello")

	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestPrettyHandler_WritesAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelDebug})

	log.WithGroup("fetch").With("key", "seller=alice").Debug("fetch started", "generation", 2)

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "fetch started")
	assert.Contains(t, out, "fetch.key=")
	assert.Contains(t, out, "seller=alice")
	assert.Contains(t, out, "fetch.generation=")
}

func TestPrettyHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})

	log.Info("quiet")
	log.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "WRN")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := slog.Default()
	assert.Same(t, l, OrDiscard(l))
}
