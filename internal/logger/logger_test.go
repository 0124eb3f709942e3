package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/starydv7/puzzle/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("debug %d", 1)
	log.Info("info")
	log.Warn("careful: %s", "ice")

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "careful: ice")
}

func TestLogger_PrefixAndFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.DEBUG), logger.WithColors(false)).
		WithPrefix("progress").
		WithFields(map[string]any{"tier": "beginner", "puzzle_id": "b1"})

	log.Info("saved")

	out := buf.String()
	assert.Contains(t, out, "[progress]")
	assert.Contains(t, out, "saved puzzle_id=b1 tier=beginner")
}

func TestLogger_ChildDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("k", "v")

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "k=v")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logger.Level{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warning": logger.WARN,
		"Error":   logger.ERROR,
		"bogus":   logger.INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestFromContext(t *testing.T) {
	l := logger.Discard()
	ctx := logger.NewContext(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
