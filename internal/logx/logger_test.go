package logx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Logger().Info("tier changed", "from", "high", "to", "medium")
	require.Contains(t, buf.String(), "tier changed")
	assert.Contains(t, buf.String(), "to=medium")

	SetLogger(nil)
	buf.Reset()
	Logger().Info("dropped")
	assert.Empty(t, buf.String())
}
