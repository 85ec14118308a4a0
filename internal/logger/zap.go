package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger wraps zap.Logger to provide our logging interface
type ZapLogger struct {
	*zap.Logger
}

// NewZapLogger creates a ZapLogger writing to w. Development mode uses the
// console encoder, otherwise entries are JSON.
func NewZapLogger(level Level, development, caller bool, w io.Writer) (*ZapLogger, error) {
	if w == nil {
		return nil, fmt.Errorf("failed to create zap logger: nil writer")
	}

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapLevel(level))

	opts := []zap.Option{zap.AddCallerSkip(1)}
	if caller {
		opts = append(opts, zap.AddCaller())
	}
	logger := zap.New(core, opts...)

	return &ZapLogger{Logger: logger}, nil
}

func zapLevel(level Level) zap.AtomicLevel {
	switch level {
	case DebugLevel:
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case InfoLevel:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case DisabledLevel:
		return zap.NewAtomicLevelAt(zapcore.FatalLevel + 1)
	default:
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
}

// WithFields adds multiple fields to the logger context
func (l *ZapLogger) WithFields(fields map[string]interface{}) *ZapLogger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return &ZapLogger{Logger: l.With(zapFields...)}
}

func (l *ZapLogger) Debug(msg string) {
	l.Logger.Debug(msg)
}

func (l *ZapLogger) Info(msg string) {
	l.Logger.Info(msg)
}

func (l *ZapLogger) Error(msg string) {
	l.Logger.Error(msg)
}

// Sync flushes any buffered log entries
func (l *ZapLogger) Sync() error {
	return l.Logger.Sync()
}
