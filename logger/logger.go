package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Field aliases zap.Field so callers never import zap directly.
type Field = zap.Field

// Helper constructors re-exported for the same reason.
func String(key, val string) Field        { return zap.String(key, val) }
func Int(key string, val int) Field       { return zap.Int(key, val) }
func Float64(key string, v float64) Field { return zap.Float64(key, v) }
func Err(err error) Field                 { return zap.Error(err) }

// Logger is a thin wrapper around zap that provides the three log levels we
// need throughout the codebase.
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

// NewRotatingLogger writes JSON logs to stdout and to a size-rotated file.
func NewRotatingLogger(path string, maxSizeMB, maxBackups int) (Logger, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = 100
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEnc := zapcore.NewJSONEncoder(enc)

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	})
	core := zapcore.NewTee(
		zapcore.NewCore(jsonEnc, zapcore.AddSync(os.Stdout), zapcore.InfoLevel),
		zapcore.NewCore(jsonEnc, fileSink, zapcore.InfoLevel),
	)
	return &zapLogger{z: zap.New(core)}, nil
}
