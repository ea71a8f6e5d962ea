// Package config provides loading and validation of module build settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Archive kinds.
const (
	ArchiveZip   = "zip"
	ArchiveTarXZ = "tar.xz"
)

// Config is the root configuration structure.
type Config struct {
	Module  ModuleConfig  `yaml:"module"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
}

// ModuleConfig describes the SWORD module being built.
type ModuleConfig struct {
	// Name is the module identifier (e.g. "KJV"). It names the .conf file,
	// the data directory and the OSIS work.
	Name string `yaml:"name"`
	// LongName is the human-readable title of the version.
	LongName string `yaml:"long_name"`
	// Language is the BCP-47 language tag (default: en)
	Language string `yaml:"language"`
	// Description is the one-line .conf Description.
	Description string `yaml:"description"`
	// Author names where the text came from; written as TextSource.
	Author string `yaml:"author"`
	// Version is the module version (default: 1.0)
	Version string `yaml:"version"`
	// License is written as DistributionLicense (default: Public Domain)
	License string `yaml:"license"`
	// About is the .conf About text, written in Markdown.
	About string `yaml:"about"`
	// Versification is optional; osis2mod assumes KJV when empty.
	Versification string `yaml:"versification,omitempty"`
}

// BuildConfig configures the build pipeline.
type BuildConfig struct {
	// Osis2Mod is the osis2mod binary name or path (default: osis2mod)
	Osis2Mod string `yaml:"osis2mod"`
	// OutputDir receives the packaged module (default: output)
	OutputDir string `yaml:"output_dir"`
	// BuildDir is the scratch directory (default: build_temp)
	BuildDir string `yaml:"build_dir"`
	// Archive is "zip" or "tar.xz" (default: zip)
	Archive string `yaml:"archive"`
	// KeepBuild leaves the scratch directory in place after a build.
	KeepBuild bool `yaml:"keep_build"`
	// Timeout bounds the osis2mod run (default: 10m)
	Timeout time.Duration `yaml:"timeout"`
	// MetricsFile, when set, receives Prometheus textfile metrics.
	MetricsFile string `yaml:"metrics_file,omitempty"`
	// WatchDebounce is how long source changes settle before a rebuild in
	// watch mode (default: 250ms)
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// moduleName matches names SWORD front ends accept as module keys.
var moduleName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Module: ModuleConfig{
			Language: "en",
			Version:  "1.0",
			License:  "Public Domain",
			About:    "Built with sid",
		},
		Build: BuildConfig{
			Osis2Mod:  "osis2mod",
			OutputDir: "output",
			BuildDir:  "build_temp",
			Archive:   ArchiveZip,
			Timeout:   10 * time.Minute,

			WatchDebounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// ${VAR} references in the file are expanded from the environment, and
// SID_* environment variables override file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(config)
	return config, nil
}

// LoadWithFallback loads path when it exists and the defaults otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	config := DefaultConfig()
	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies SID_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SID_OSIS2MOD"); v != "" {
		cfg.Build.Osis2Mod = v
	}
	if v := os.Getenv("SID_OUTPUT_DIR"); v != "" {
		cfg.Build.OutputDir = v
	}
	if v := os.Getenv("SID_BUILD_DIR"); v != "" {
		cfg.Build.BuildDir = v
	}
	if v := os.Getenv("SID_METRICS_FILE"); v != "" {
		cfg.Build.MetricsFile = v
	}
	if v := os.Getenv("SID_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SID_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Module.Name == "" {
		return fmt.Errorf("module.name is required")
	}
	if !moduleName.MatchString(c.Module.Name) {
		return fmt.Errorf("module.name %q may only contain letters, digits and underscores", c.Module.Name)
	}
	if strings.TrimSpace(c.Module.Language) == "" {
		return fmt.Errorf("module.language is required")
	}
	if c.Build.Osis2Mod == "" {
		return fmt.Errorf("build.osis2mod is required")
	}
	if c.Build.OutputDir == "" {
		return fmt.Errorf("build.output_dir is required")
	}
	if c.Build.BuildDir == "" {
		return fmt.Errorf("build.build_dir is required")
	}
	switch c.Build.Archive {
	case ArchiveZip, ArchiveTarXZ:
	default:
		return fmt.Errorf("build.archive must be %q or %q, got %q", ArchiveZip, ArchiveTarXZ, c.Build.Archive)
	}
	if c.Build.Timeout < 0 {
		return fmt.Errorf("build.timeout must not be negative")
	}
	if c.Build.WatchDebounce < 0 {
		return fmt.Errorf("build.watch_debounce must not be negative")
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Module
	mergeString(&c.Module.Name, other.Module.Name)
	mergeString(&c.Module.LongName, other.Module.LongName)
	mergeString(&c.Module.Language, other.Module.Language)
	mergeString(&c.Module.Description, other.Module.Description)
	mergeString(&c.Module.Author, other.Module.Author)
	mergeString(&c.Module.Version, other.Module.Version)
	mergeString(&c.Module.License, other.Module.License)
	mergeString(&c.Module.About, other.Module.About)
	mergeString(&c.Module.Versification, other.Module.Versification)

	// Build
	mergeString(&c.Build.Osis2Mod, other.Build.Osis2Mod)
	mergeString(&c.Build.OutputDir, other.Build.OutputDir)
	mergeString(&c.Build.BuildDir, other.Build.BuildDir)
	mergeString(&c.Build.Archive, other.Build.Archive)
	if other.Build.KeepBuild {
		c.Build.KeepBuild = true
	}
	if other.Build.Timeout != 0 {
		c.Build.Timeout = other.Build.Timeout
	}
	mergeString(&c.Build.MetricsFile, other.Build.MetricsFile)
	if other.Build.WatchDebounce != 0 {
		c.Build.WatchDebounce = other.Build.WatchDebounce
	}

	// Logging
	mergeString(&c.Logging.Level, other.Logging.Level)
	mergeString(&c.Logging.Format, other.Logging.Format)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
