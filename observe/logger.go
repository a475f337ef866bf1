package observe

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// redacted replaces the value of any field listed in RedactedFields.
const redacted = "[REDACTED]"

// zapLogger is a Logger backed by a zap core.
type zapLogger struct {
	z *zap.Logger
}

// NewLoggerWithWriter creates a logger writing to w.
//
// format is "json" (default) or "console". An unparsable level falls back
// to info.
func NewLoggerWithWriter(level, format string, w io.Writer) Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if format == "console" {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return &zapLogger{z: zap.New(core)}
}

func (l *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, zapFields(fields)...)
}

// With returns a logger that adds fields to every entry.
func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(zapFields(fields)...)}
}

// Sync flushes buffered entries.
func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if isRedactedField(f.Key) {
			out = append(out, zap.String(f.Key, redacted))
			continue
		}
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.String(f.Key, errorText(err)))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// SensitiveError is implemented by errors whose message quotes secret
// material. Sensitive returns that text exactly as it appears in Error().
type SensitiveError interface {
	error
	Sensitive() string
}

// errorText returns the message of err with the text of the first
// SensitiveError in its chain masked.
func errorText(err error) string {
	msg := err.Error()
	var s SensitiveError
	if errors.As(err, &s) {
		if text := s.Sensitive(); text != "" {
			msg = strings.ReplaceAll(msg, text, redacted)
		}
	}
	return msg
}

// isRedactedField returns true if the field should be redacted.
func isRedactedField(key string) bool {
	return slices.Contains(RedactedFields, key)
}

// syncer is implemented by loggers that buffer output.
type syncer interface {
	Sync() error
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return noopLogger{}
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (noopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (noopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l noopLogger) With(fields ...Field) Logger                          { return l }

var (
	_ Logger = (*zapLogger)(nil)
	_ syncer = (*zapLogger)(nil)
	_ Logger = noopLogger{}
)
