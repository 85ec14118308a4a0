// Package logger provides structured logging for the hook.
//
// Log output always goes to stderr (or a caller supplied writer): stdout is
// the channel the agent host reads hook results from. There is no global
// logger; a *Logger is built once from the configuration and passed down.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// ErrorLevel logs only errors
	ErrorLevel
	// DisabledLevel logs nothing
	DisabledLevel
)

// Logger provides structured logging with timestamps
type Logger struct {
	level  Level
	output io.Writer
	fields map[string]interface{}
	mu     *sync.Mutex
	zap    *ZapLogger
}

// New creates a zap-backed logger from cfg. If zap cannot be built the
// plain text logger is used instead, so callers always get a usable value.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = ConfigFromEnv(false)
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	zl, err := NewZapLogger(cfg.Level, cfg.IsDevelopment(), cfg.Caller, out)
	if err != nil {
		return NewWithWriter(cfg.Level, out)
	}
	return &Logger{level: cfg.Level, output: out, zap: zl, mu: &sync.Mutex{}}
}

// NewWithWriter creates a plain text logger writing to w
func NewWithWriter(level Level, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		output: w,
		fields: make(map[string]interface{}),
		mu:     &sync.Mutex{},
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return NewWithWriter(DisabledLevel, io.Discard)
}

// WithField adds a single field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields adds multiple fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	if l.zap != nil {
		return &Logger{level: l.level, output: l.output, zap: l.zap.WithFields(fields), mu: l.mu}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	newLogger := &Logger{
		level:  l.level,
		output: l.output,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
		mu:     l.mu,
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

// WithError adds error context to the logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// log is the internal logging function
func (l *Logger) log(level Level, levelStr string, message string) {
	if level < l.level || l.level == DisabledLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	logLine := fmt.Sprintf("%s %s %s", timestamp, levelStr, message)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		logLine += " " + strings.Join(fieldParts, " ")
	}

	_, _ = fmt.Fprintln(l.output, logLine)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	if l.zap != nil {
		l.zap.Debug(msg)
	} else {
		l.log(DebugLevel, "[DEBUG]", msg)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	if l.zap != nil {
		l.zap.Info(msg)
	} else {
		l.log(InfoLevel, "[INFO]", msg)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	if l.zap != nil {
		l.zap.Error(msg)
	} else {
		l.log(ErrorLevel, "[ERROR]", msg)
	}
}

// Sync flushes buffered entries of the zap backend
func (l *Logger) Sync() error {
	if l.zap != nil {
		return l.zap.Sync()
	}
	return nil
}

// Timed starts measuring an operation; call Done or DoneWithError on the
// result when it finishes
func (l *Logger) Timed(operation string) *TimedLogger {
	l.WithField("operation", operation).Debug("Operation started")
	return &TimedLogger{logger: l, start: time.Now(), op: operation}
}

// TimedLogger tracks the duration of an operation
type TimedLogger struct {
	logger *Logger
	start  time.Time
	op     string
}

// Done logs the completion of the timed operation
func (t *TimedLogger) Done() {
	duration := time.Since(t.start)
	t.logger.WithFields(map[string]interface{}{
		"operation":   t.op,
		"duration_ms": float64(duration.Nanoseconds()) / 1e6,
	}).Debug("Operation completed")
}

// DoneWithError logs the completion of the timed operation with an error
func (t *TimedLogger) DoneWithError(err error) {
	if err == nil {
		t.Done()
		return
	}
	duration := time.Since(t.start)
	t.logger.WithError(err).WithFields(map[string]interface{}{
		"operation":   t.op,
		"duration_ms": float64(duration.Nanoseconds()) / 1e6,
	}).Debug("Operation failed")
}

// LevelFromString converts a string to a log level
func LevelFromString(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info", "warn", "warning":
		return InfoLevel
	case "error":
		return ErrorLevel
	case "off", "none", "disabled":
		return DisabledLevel
	default:
		return ErrorLevel
	}
}
