package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestObservedLogger_FieldsAndErrors(t *testing.T) {
	log, logs := NewObserved(zapcore.DebugLevel)

	log.WithFields(map[string]interface{}{"stage": 2}).
		Warn("directory search failed", map[string]interface{}{"error": errors.New("timeout")})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.EqualValues(t, 2, ctx["stage"])
	assert.Equal(t, "timeout", ctx["error"])
}

func TestObservedLogger_LevelFilter(t *testing.T) {
	log, logs := NewObserved(zapcore.InfoLevel)

	log.Debug("hidden", nil)
	log.Info("shown", nil)

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
