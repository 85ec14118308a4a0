package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerDebug tests debug level logging with timestamps
func TestLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(DebugLevel, &buf)

	logger.Debug("test debug message")
	output := buf.String()

	assert.Contains(t, output, time.Now().Format("2006-01-02"), "debug log should contain date")
	assert.Contains(t, output, "[DEBUG]")
	assert.Contains(t, output, "test debug message")

	buf.Reset()
	logger = NewWithWriter(InfoLevel, &buf)
	logger.Debug("should not appear")
	assert.Zero(t, buf.Len(), "debug messages should not be logged when level is Info")
}

// TestLoggerLevels tests which messages pass each level
func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  []string
		skip  []string
	}{
		{"debug", DebugLevel, []string{"[DEBUG]", "[INFO]", "[ERROR]"}, nil},
		{"info", InfoLevel, []string{"[INFO]", "[ERROR]"}, []string{"[DEBUG]"}},
		{"error", ErrorLevel, []string{"[ERROR]"}, []string{"[DEBUG]", "[INFO]"}},
		{"disabled", DisabledLevel, nil, []string{"[DEBUG]", "[INFO]", "[ERROR]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(tt.level, &buf)
			logger.Debug("d")
			logger.Info("i")
			logger.Error("e")

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.skip {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

// TestLoggerWithContext tests logging with contextual information
func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(DebugLevel, &buf)

	logger.WithField("tool", "ie").Info("resolving")
	assert.Contains(t, buf.String(), "tool=ie")

	buf.Reset()
	logger.WithFields(map[string]interface{}{
		"source": "path",
		"count":  2,
	}).Debug("multiple fields test")
	output := buf.String()
	assert.Contains(t, output, "count=2 source=path", "fields should be sorted by key")

	buf.Reset()
	logger.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), "error=boom")

	assert.Same(t, logger, logger.WithError(nil))
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(DebugLevel, &buf)
	_ = parent.WithField("child", true)

	parent.Info("parent only")
	assert.NotContains(t, buf.String(), "child=true")
}

func TestZapLoggerWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: InfoLevel, Format: "json", Output: &buf})
	require.NotNil(t, logger.zap)

	logger.WithField("run_id", "abc").Info("hook started")
	logger.Debug("hidden")
	_ = logger.Sync()

	output := buf.String()
	assert.Contains(t, output, `"msg":"hook started"`)
	assert.Contains(t, output, `"run_id":"abc"`)
	assert.NotContains(t, output, "hidden")
}

func TestZapLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: DebugLevel, Format: "console", Output: &buf})

	logger.WithField("path", "/usr/bin/ie").Debug("probing")
	_ = logger.Sync()

	assert.Contains(t, buf.String(), "probing")
	assert.Contains(t, buf.String(), "/usr/bin/ie")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestTimedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(DebugLevel, &buf)

	timer := logger.Timed("resolve")
	timer.DoneWithError(errors.New("exhausted"))

	output := buf.String()
	assert.Contains(t, output, "Operation started")
	assert.Contains(t, output, "Operation failed")
	assert.Contains(t, output, "operation=resolve")
	assert.Contains(t, output, "error=exhausted")

	buf.Reset()
	logger.Timed("status").Done()
	assert.Contains(t, buf.String(), "Operation completed")
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing")
	logger.WithField("a", 1).Debug("nothing either")
	assert.NoError(t, logger.Sync())
}

// TestLogLevelFromString tests parsing log levels from strings
func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", InfoLevel},
		{"error", ErrorLevel},
		{" off ", DisabledLevel},
		{"invalid", ErrorLevel},
		{"", ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelFromString(tt.input))
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("IE_HOOK_LOG_LEVEL", "info")
	t.Setenv("IE_HOOK_LOG_FORMAT", "JSON")
	t.Setenv("IE_HOOK_LOG_CALLER", "true")

	cfg := ConfigFromEnv(false)
	assert.Equal(t, InfoLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Caller)
	assert.False(t, cfg.IsDevelopment())

	cfg = ConfigFromEnv(true)
	assert.Equal(t, DebugLevel, cfg.Level, "debug flag overrides the level variable")
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("IE_HOOK_LOG_LEVEL", "")
	t.Setenv("IE_HOOK_LOG_FORMAT", "")
	t.Setenv("IE_HOOK_LOG_CALLER", "")

	cfg := ConfigFromEnv(false)
	assert.Equal(t, ErrorLevel, cfg.Level)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, strings.EqualFold(cfg.Format, "console"))
}
