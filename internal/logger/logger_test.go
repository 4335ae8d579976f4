package logger_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sousa16/chesslab/internal/logger"
)

func newBufferLogger(level logger.Level) (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(level),
		logger.WithColors(false),
	), &buf
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logger.Level{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warning": logger.WARN,
		" Error ": logger.ERROR,
	}
	for in, want := range tests {
		got, err := logger.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logger.ParseLevel("bogus")
	assert.Error(t, err)
}

func TestLogger_QuotesAwkwardValues(t *testing.T) {
	log, buf := newBufferLogger(logger.DEBUG)

	log.WithFields(map[string]any{"line": "1. e4 c5", "empty": ""}).Info("saved")

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, `saved empty="" line="1. e4 c5"`), line)
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	log, buf := newBufferLogger(logger.WARN)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "WARN")
}

func TestLogger_FieldsSortedAndPrefixed(t *testing.T) {
	log, buf := newBufferLogger(logger.DEBUG)

	log.WithPrefix("graph").
		WithFields(map[string]any{"user_id": 7, "color": "white"}).
		WithError(errors.New("boom")).
		Info("tree built")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "[graph]")
	assert.True(t, strings.HasSuffix(line, "tree built color=white error=boom user_id=7"), line)
}

func TestLogger_WithErrorNil(t *testing.T) {
	log, _ := newBufferLogger(logger.DEBUG)
	assert.Same(t, log, log.WithError(nil))
}

func TestFromContext(t *testing.T) {
	log, buf := newBufferLogger(logger.DEBUG)
	ctx := logger.NewContext(context.Background(), log)

	logger.FromContext(ctx).Info("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
