package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wam/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		msg   string
		want  string
	}{
		{name: "info", level: slog.LevelInfo, msg: "resolving 3 addons", want: "resolving 3 addons\n"},
		{name: "warn", level: slog.LevelWarn, msg: "duplicate addon", want: "! duplicate addon\n"},
		{name: "error", level: slog.LevelError, msg: "sync failed", want: "✗ sync failed\n"},
		{name: "debug filtered", level: slog.LevelDebug, msg: "noise", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestHandler(t)
			lg.Log(t.Context(), tt.level, tt.msg)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.With("stage", "fetch").Info("started", "addon", "curse/weakauras", "parallel", 5)

	assert.Equal(t, "started stage=fetch addon=curse/weakauras parallel=5\n", buf.String())
}

func TestPrettyHandler_Groups(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.WithGroup("lock").With("path", "wam-lock.toml").
		Info("saved", slog.Group("entries", slog.Int("total", 4)))

	assert.Equal(t, "saved lock.path=wam-lock.toml lock.entries.total=4\n", buf.String())
}

func TestPrettyHandler_EmptyGroupIsIgnored(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.WithGroup("").Info("ok", "k", "v")

	assert.Equal(t, "ok k=v\n", buf.String())
}

func TestPrettyHandler_NilOptions(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, nil)

	assert.True(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
}

func TestPrettyHandler_DynamicLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var level slog.LevelVar
	h := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: &level})

	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	level.Set(slog.LevelDebug)
	assert.True(t, h.Enabled(t.Context(), slog.LevelDebug))
}
