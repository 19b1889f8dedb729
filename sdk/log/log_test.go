package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
)

func TestKeyValuesToFields(t *testing.T) {
	f := KeyValuesToFields([]interface{}{"a", 1, "err", errors.New("boom"), 7, "x", "dangling"})
	assert.Equal(t, 1, f["a"])
	assert.Equal(t, "boom", f["err"])
	assert.Equal(t, "x", f["7"])
	assert.Equal(t, "dangling", f["!BADKEY"])
}

func TestLogtraceLoggerForwards(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logtrace.SetLogger(zap.New(core))
	t.Cleanup(func() { logtrace.SetLogger(nil) })

	l := NewLogtraceLogger("aleph")
	l.Warn(context.Background(), "compat shim", "status", 400)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "compat shim", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "aleph", ctx[logtrace.FieldModule])
	assert.EqualValues(t, 400, ctx["status"])
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.Debug(context.Background(), "ignored", "k", "v")
	l.Error(context.Background(), "ignored")
}
