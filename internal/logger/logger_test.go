package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", "warn")

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", "nonsense")

	l.Debug().Msg("debug")
	l.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"message":"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.log")
	var buf bytes.Buffer
	l := New(&buf, path, "info")

	l.Info().Msg("to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestContextLoggerCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", "debug")
	ctx := l.WithContext(context.Background())
	ctx = WithLogger(ctx, map[string]interface{}{"request_id": "abc"})

	InfoLog(ctx, "listing page %d", 2)
	ErrorLog(ctx, "fetch failed: %v", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"message":"listing page 2"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"message":"fetch failed: boom"`)
	assert.NotContains(t, out, "MISSING")
}
