package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilteringHandler(t *testing.T) {
	SetLevel(slog.LevelDebug)
	defer SetLevel(slog.LevelInfo)

	testCases := []struct {
		name    string
		log     func(l *slog.Logger)
		written bool
	}{
		{
			name:    "enabled section on logger",
			log:     func(l *slog.Logger) { l.With("section", "solver").Debug("hello") },
			written: true,
		},
		{
			name:    "enabled section on record",
			log:     func(l *slog.Logger) { l.Info("hello", "section", "lattice") },
			written: true,
		},
		{
			name:    "unknown section",
			log:     func(l *slog.Logger) { l.Info("hello", "section", "backend") },
			written: false,
		},
		{
			name:    "no section",
			log:     func(l *slog.Logger) { l.Info("hello") },
			written: false,
		},
		{
			name:    "warnings always pass",
			log:     func(l *slog.Logger) { l.Warn("hello", "section", "backend") },
			written: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tc.log(New(buf))
			assert.Equal(t, tc.written, buf.Len() > 0, "output was %q", buf.String())
		})
	}
}

func TestSetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf).With("section", "solver")

	SetLevel(slog.LevelError)
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	SetLevel(slog.LevelDebug)
	defer SetLevel(slog.LevelInfo)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "time=")
}
