package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf})

	log.Info().Str("table", "users").Int("rows", 2).Bool("inline", true).Dur("took", time.Millisecond).Msg("done")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "done", entry["message"])
	assert.Equal(t, "users", entry["table"])
	assert.Equal(t, float64(2), entry["rows"])
	assert.Equal(t, true, entry["inline"])
	assert.Contains(t, entry, "caller")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Error().Err(errors.New("boom")).Msg("shown")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "boom", entry["error"])
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "chatty", Output: &buf})

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestWithFieldsMasksSensitiveValues(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})

	log.WithFields(map[string]any{
		"password": "hunter2",
		"vendor":   "mysql",
		"nested":   map[string]any{"api_key": "k"},
	}).Info().Str("dsn", "root:pw@tcp(localhost:3306)/app").Msg("connect")

	entry := decodeLine(t, &buf)
	assert.Equal(t, DefaultMaskValue, entry["password"])
	assert.Equal(t, "mysql", entry["vendor"])
	assert.Equal(t, map[string]any{"api_key": DefaultMaskValue}, entry["nested"])
	assert.Equal(t, "root:***@tcp(localhost:3306)/app", entry["dsn"])
}

func TestWithContextUsesContextLogger(t *testing.T) {
	var base, ctxBuf bytes.Buffer
	log := New(Options{Level: "info", Output: &base})

	zl := zerolog.New(&ctxBuf)
	ctx := zl.WithContext(context.Background())

	log.WithContext(ctx).Info().Msg("from ctx")
	assert.Zero(t, base.Len())
	assert.NotZero(t, ctxBuf.Len())

	assert.Same(t, log, log.WithContext("not a context"))
	assert.Same(t, log, log.WithContext(context.Background()))
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Pretty: true, Output: &buf})

	log.Warn().Msg("console")
	assert.Contains(t, buf.String(), "console")
	assert.NotContains(t, buf.String(), `"message"`)
}
