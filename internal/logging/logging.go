// Package logging wraps zap with the small surface this service needs:
// leveled logging plus stack-trace-aware error logging for errors built
// with github.com/pkg/errors.
package logging

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a *zap.Logger.
type Logger struct {
	z *zap.Logger
}

// New builds a development-config logger when development is true and a
// production-config logger otherwise, falling back to a no-op logger if
// construction fails.
func New(development bool) *Logger {
	var z *zap.Logger
	var err error
	if development {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything, for use in tests.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...Field) {
	l.z.Info(msg, toZap(fields)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, toZap(fields)...)
}

// Error logs err at error level, attaching its pkg/errors stack trace
// when the error carries one.
func (l *Logger) Error(err error, fields ...Field) {
	zapFields := toZap(fields)
	stack := ""
	var tracer stackTracer
	if errors.As(err, &tracer) {
		stack = strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace()))
	}
	if ce := l.z.Check(zapcore.ErrorLevel, err.Error()); ce != nil {
		if stack != "" {
			ce.Stack = stack
		}
		ce.Write(zapFields...)
	}
}

// With returns a child logger carrying additional fields on every line.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{z: l.z.With(toZap(fields)...)}
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func toZap(fields []Field) []zapcore.Field {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
