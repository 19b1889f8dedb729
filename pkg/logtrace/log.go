package logtrace

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	// CorrelationIDKey carries the id that ties together the log lines of one operation.
	CorrelationIDKey contextKey = "correlation_id"
	// OriginKey carries the phase or subsystem that produced the log line.
	OriginKey contextKey = "origin"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Setup configures the package logger. env "dev" selects a human-readable
// console encoder, anything else JSON.
func Setup(serviceName, env string, level slog.Level) {
	var cfg zap.Config
	if strings.EqualFold(env, "dev") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		// fall back to a minimal core so callers never lose logs entirely
		l = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			toZapLevel(level),
		))
	}
	l = l.With(zap.String("service", serviceName))

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetLogger replaces the package logger. Intended for tests and embedding.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

// CtxWithCorrelationID stores a correlation id in the context.
func CtxWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// CtxWithOrigin stores the origin (phase name) in the context.
func CtxWithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, OriginKey, origin)
}

// CorrelationIDFromContext returns the correlation id, or "unknown".
func CorrelationIDFromContext(ctx context.Context) string {
	return extractCorrelationID(ctx)
}

// OriginFromContext returns the origin stored in ctx, or "".
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(OriginKey).(string); ok {
		return v
	}
	return ""
}

func extractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(CorrelationIDKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

func Debug(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.DebugLevel, message, fields)
}

func Info(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.InfoLevel, message, fields)
}

func Warn(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.WarnLevel, message, fields)
}

func Error(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.ErrorLevel, message, fields)
}

// Fatal logs and exits the process.
func Fatal(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.FatalLevel, message, fields)
}

func log(ctx context.Context, level zapcore.Level, message string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	if ce := l.Check(level, message); ce != nil {
		ce.Write(toZapFields(ctx, fields)...)
	}
}

func toZapFields(ctx context.Context, fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)
	out = append(out, zap.String(FieldCorrelationID, extractCorrelationID(ctx)))
	if origin := OriginFromContext(ctx); origin != "" {
		out = append(out, zap.String(FieldOrigin, origin))
	}
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels;
// anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
