// Package config provides configuration management for the session-start hook.
// It loads configuration from environment variables with sensible defaults and
// an optional override file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTool is the executable the hook resolves and runs
	DefaultTool = "ie"

	// DefaultPackage is installed when the tool cannot be found
	DefaultPackage = "@m3task/intent-engine"

	// DefaultPackageManager performs installs and reports its global prefix
	DefaultPackageManager = "npm"

	// DefaultMarkerDir marks a project the tool was already initialized in
	DefaultMarkerDir = ".intent-engine"
)

// Timeouts bounds each external invocation the hook makes
type Timeouts struct {
	// Install caps the package manager's global install
	Install time.Duration

	// Init caps the project initialization run
	Init time.Duration

	// Status caps the status query
	Status time.Duration

	// Verify caps the version query used to verify each candidate
	Verify time.Duration
}

// Config holds all configuration for the hook
type Config struct {
	// EnvFile is the host's environment file; empty disables propagation
	EnvFile string

	// ProjectDir is the project the session was started in
	ProjectDir string

	// Debug enables debug logging to stderr
	Debug bool

	// AutoInstall controls whether a missing tool is installed
	AutoInstall bool

	// File is the override file the values below were read from, if any
	File string

	// Tool is the executable name to resolve
	Tool string

	// Package is the package installed when Tool is missing
	Package string

	// PackageManager installs Package and reports its global prefix
	PackageManager string

	// MarkerDir is the per-project directory whose absence triggers init
	MarkerDir string

	// Timeouts holds the per-invocation limits
	Timeouts Timeouts
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		AutoInstall:    true,
		Tool:           DefaultTool,
		Package:        DefaultPackage,
		PackageManager: DefaultPackageManager,
		MarkerDir:      DefaultMarkerDir,
		Timeouts: Timeouts{
			Install: 60 * time.Second,
			Init:    10 * time.Second,
			Status:  15 * time.Second,
			Verify:  5 * time.Second,
		},
	}
}

// New creates a new Config instance from environment variables
func New() (*Config, error) {
	cfg, err := FromHostEnv()
	if err != nil {
		return nil, err
	}

	// Load the override file, if any
	if path, ok := os.LookupEnv("IE_HOOK_CONFIG"); ok {
		if path == "" {
			return nil, fmt.Errorf("IE_HOOK_CONFIG cannot be empty")
		}
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromHostEnv returns the defaults plus the values the host environment
// provides. The returned Config is always usable: a variable that fails to
// parse keeps its default and is reported in the error.
func FromHostEnv() (*Config, error) {
	cfg := Default()
	var errs []error

	// Host-provided paths
	cfg.EnvFile = os.Getenv("CLAUDE_ENV_FILE")

	cfg.ProjectDir = os.Getenv("CLAUDE_PROJECT_DIR")
	if cfg.ProjectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get current directory: %w", err))
		}
		cfg.ProjectDir = cwd
	}

	// Load Debug - defaults to false
	debug, err := parseBoolEnv("IE_HOOK_DEBUG", false)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Debug = debug

	// Load AutoInstall - defaults to true
	autoInstall, err := parseBoolEnv("IE_HOOK_AUTO_INSTALL", true)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.AutoInstall = autoInstall

	return cfg, errors.Join(errs...)
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if c.Tool == "" {
		return fmt.Errorf("tool cannot be empty")
	}
	if strings.ContainsAny(c.Tool, `/\`) {
		return fmt.Errorf("tool must be an executable name, got: %s", c.Tool)
	}
	if c.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	if c.PackageManager == "" {
		return fmt.Errorf("package_manager cannot be empty")
	}
	if c.MarkerDir == "" {
		return fmt.Errorf("marker_dir cannot be empty")
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"install", c.Timeouts.Install},
		{"init", c.Timeouts.Init},
		{"status", c.Timeouts.Status},
		{"verify", c.Timeouts.Verify},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			return fmt.Errorf("timeouts.%s must be positive, got: %s", t.name, t.d)
		}
	}
	return nil
}

// parseBoolEnv parses a boolean environment variable with a default value
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return defaultValue, fmt.Errorf("%s must be true or false, got: %s", key, value)
	}
}
