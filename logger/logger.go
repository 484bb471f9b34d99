// Package logger wraps zap behind the small interface the strategies need.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is re-exported so callers do not import zap directly.
type Field = zap.Field

func String(key, val string) Field        { return zap.String(key, val) }
func Float64(key string, v float64) Field { return zap.Float64(key, v) }
func Int(key string, v int) Field         { return zap.Int(key, v) }
func Time(key string, t time.Time) Field  { return zap.Time(key, t) }
func Err(err error) Field                 { return zap.Error(err) }
func Any(key string, v interface{}) Field { return zap.Any(key, v) }

// Logger provides the three log levels used throughout the codebase.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }

// NewZapLogger creates a production-ready logger (JSON encoding, level INFO).
func NewZapLogger() (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{z: z}, nil
}

// NewNop returns a logger that discards everything. Handy as a default.
func NewNop() Logger { return &zapLogger{z: zap.NewNop()} }
