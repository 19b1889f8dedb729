// Package log defines the logger the SDK accepts from its embedder.
package log

import (
	"context"
	"fmt"

	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
)

// Logger takes a message and alternating key/value pairs.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...interface{})
	Info(ctx context.Context, msg string, keysAndValues ...interface{})
	Warn(ctx context.Context, msg string, keysAndValues ...interface{})
	Error(ctx context.Context, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

// NewNoopLogger returns a Logger that drops everything.
func NewNoopLogger() Logger { return noopLogger{} }

func (noopLogger) Debug(context.Context, string, ...interface{}) {}
func (noopLogger) Info(context.Context, string, ...interface{})  {}
func (noopLogger) Warn(context.Context, string, ...interface{})  {}
func (noopLogger) Error(context.Context, string, ...interface{}) {}

type logtraceLogger struct {
	module string
}

// NewLogtraceLogger forwards to pkg/logtrace, tagging every record with
// module.
func NewLogtraceLogger(module string) Logger {
	return logtraceLogger{module: module}
}

func (l logtraceLogger) Debug(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Debug(ctx, msg, l.fields(kv))
}

func (l logtraceLogger) Info(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Info(ctx, msg, l.fields(kv))
}

func (l logtraceLogger) Warn(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Warn(ctx, msg, l.fields(kv))
}

func (l logtraceLogger) Error(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Error(ctx, msg, l.fields(kv))
}

func (l logtraceLogger) fields(kv []interface{}) logtrace.Fields {
	f := KeyValuesToFields(kv)
	if l.module != "" {
		f[logtrace.FieldModule] = l.module
	}
	return f
}

// KeyValuesToFields turns alternating key/value pairs into logtrace.Fields.
// A trailing key without a value is kept under "!BADKEY".
func KeyValuesToFields(kv []interface{}) logtrace.Fields {
	f := make(logtrace.Fields, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			f["!BADKEY"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, isErr := kv[i+1].(error); isErr {
			f[key] = err.Error()
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}
