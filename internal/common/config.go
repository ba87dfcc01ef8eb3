// Package common provides shared utilities for metricsref
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for metricsref
type Config struct {
	Environment string        `toml:"environment"`
	Content     ContentConfig `toml:"content"`
	Build       BuildConfig   `toml:"build"`
	Logging     LoggingConfig `toml:"logging"`
}

// ContentConfig locates authored content.
type ContentConfig struct {
	Path        string   `toml:"path"`        // Root holding terms/ and guides/
	Collections []string `toml:"collections"` // Term collection merge order; empty means file name order
}

// TermsPath returns the directory of term collection files.
func (c *ContentConfig) TermsPath() string {
	return filepath.Join(c.Path, "terms")
}

// GuidesPath returns the directory of guide collection files.
func (c *ContentConfig) GuidesPath() string {
	return filepath.Join(c.Path, "guides")
}

// BuildConfig controls compilation.
type BuildConfig struct {
	Strict     bool   `toml:"strict"`      // Any content defect fails the build
	OutputPath string `toml:"output_path"` // Export directory
	Versions   int    `toml:"versions"`    // Previous exports kept per artifact
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Content: ContentConfig{
			Path:        "content",
			Collections: []string{"core", "saas", "finance", "saas-extra"},
		},
		Build: BuildConfig{
			Strict:     true,
			OutputPath: "dist",
			Versions:   2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("METRICSREF_ENV"); env != "" {
		config.Environment = env
	}

	if path := os.Getenv("METRICSREF_CONTENT_PATH"); path != "" {
		config.Content.Path = path
	}

	if cols := os.Getenv("METRICSREF_COLLECTIONS"); cols != "" {
		var names []string
		for _, name := range strings.Split(cols, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		config.Content.Collections = names
	}

	if out := os.Getenv("METRICSREF_OUTPUT_PATH"); out != "" {
		config.Build.OutputPath = out
	}

	if strict := os.Getenv("METRICSREF_STRICT"); strict != "" {
		if b, err := strconv.ParseBool(strict); err == nil {
			config.Build.Strict = b
		}
	}

	if level := os.Getenv("METRICSREF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
