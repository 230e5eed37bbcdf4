package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestLazyLogger_FollowsOutput(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	l := Logger("core/test")

	var buf bytes.Buffer
	SetOutputWithLevel(&buf, slog.LevelDebug)
	l.Debug("hello", "port", 5)

	out := buf.String()
	assert.Contains(t, out, "component=core/test")
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "port=5")

	buf.Reset()
	SetOutputWithLevel(&buf, slog.LevelWarn)
	l.Info("dropped")
	assert.Empty(t, buf.String())
}
