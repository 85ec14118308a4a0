package logger

import (
	"io"
	"os"
	"strings"
)

// Config holds logger configuration
type Config struct {
	Level  Level
	Format string    // "console" or "json"
	Caller bool      // Include caller information
	Output io.Writer // Defaults to stderr; stdout is reserved for hook output
}

// ConfigFromEnv creates a logger configuration from environment variables.
// debug forces DebugLevel regardless of IE_HOOK_LOG_LEVEL.
func ConfigFromEnv(debug bool) *Config {
	cfg := &Config{
		Level:  ErrorLevel,
		Format: "console",
		Caller: false,
		Output: os.Stderr,
	}

	// Parse log level
	if levelStr := os.Getenv("IE_HOOK_LOG_LEVEL"); levelStr != "" {
		cfg.Level = LevelFromString(levelStr)
	}
	if debug {
		cfg.Level = DebugLevel
	}

	// Parse format
	if format := os.Getenv("IE_HOOK_LOG_FORMAT"); format != "" {
		cfg.Format = strings.ToLower(format)
	}

	cfg.Caller = os.Getenv("IE_HOOK_LOG_CALLER") == "true"

	return cfg
}

// IsDevelopment returns true if the logger is configured for development mode
func (c *Config) IsDevelopment() bool {
	return c.Format != "json"
}
