package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the override file. Empty values leave the current
// setting untouched.
type fileConfig struct {
	Tool           string       `yaml:"tool" toml:"tool"`
	Package        string       `yaml:"package" toml:"package"`
	PackageManager string       `yaml:"package_manager" toml:"package_manager"`
	MarkerDir      string       `yaml:"marker_dir" toml:"marker_dir"`
	Timeouts       fileTimeouts `yaml:"timeouts" toml:"timeouts"`
}

type fileTimeouts struct {
	Install string `yaml:"install" toml:"install"`
	Init    string `yaml:"init" toml:"init"`
	Status  string `yaml:"status" toml:"status"`
	Verify  string `yaml:"verify" toml:"verify"`
}

// LoadFile applies the override file at path. The format follows the
// extension: .yaml and .yml are YAML, .toml is TOML.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var raw fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return fmt.Errorf("config load failed (%s): unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if err := c.apply(raw); err != nil {
		return fmt.Errorf("config invalid (%s): %w", path, err)
	}
	c.File = path
	return nil
}

func (c *Config) apply(raw fileConfig) error {
	setString(&c.Tool, raw.Tool)
	setString(&c.Package, raw.Package)
	setString(&c.PackageManager, raw.PackageManager)
	setString(&c.MarkerDir, raw.MarkerDir)

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"install", raw.Timeouts.Install, &c.Timeouts.Install},
		{"init", raw.Timeouts.Init, &c.Timeouts.Init},
		{"status", raw.Timeouts.Status, &c.Timeouts.Status},
		{"verify", raw.Timeouts.Verify, &c.Timeouts.Verify},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.value)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse timeouts.%s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
