package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_RespectsEachHandlerLevel(t *testing.T) {
	var debugBuf, infoBuf bytes.Buffer
	debugHandler := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo})

	log := slog.New(NewMultiHandler(debugHandler, infoHandler))
	log.Debug("Debug only")
	log.Info("Both", "user.id", 7)

	assert.Contains(t, debugBuf.String(), "Debug only")
	assert.Contains(t, debugBuf.String(), "Both")
	assert.NotContains(t, infoBuf.String(), "Debug only")
	assert.Contains(t, infoBuf.String(), "user.id=7")
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)

	log := slog.New(NewMultiHandler(base)).With("component", "todo").WithGroup("req")
	log.Info("Handled", "status", 200)

	assert.Contains(t, buf.String(), "component=todo")
	assert.Contains(t, buf.String(), "req.status=200")
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LevelFor("prod"))
	assert.Equal(t, slog.LevelDebug, LevelFor("dev"))
	assert.Equal(t, slog.LevelDebug, LevelFor("local"))
}

func TestNew_WritesConsole(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Info("Server started", "addr", ":8080")
	assert.Contains(t, buf.String(), "Server started")
	assert.Contains(t, buf.String(), "addr=:8080")
}
