// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"taskType": "generate-recommendations"}).
		WithError(errors.New("boom")).
		Info("job failed", map[string]interface{}{"jobKey": int64(42), "cause": errors.New("inner")})

	entries := logs.All()
	assert.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "generate-recommendations", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "inner", ctx["cause"])
	assert.Equal(t, int64(42), ctx["jobKey"])
}

func TestNew_LevelFallback(t *testing.T) {
	l := New("nonsense", "json")
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	d := New("debug", "console")
	assert.True(t, d.Core().Enabled(zapcore.DebugLevel))
}

func TestNoOpAndTestLoggers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().With(map[string]interface{}{"a": 1}).Warn("ignored", nil)
		NewTestLogger(t).Debug("visible in -v", map[string]interface{}{"k": "v"})
	})
}
