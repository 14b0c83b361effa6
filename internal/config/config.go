package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/dshills/quantaplan/internal/log"
)

// Config represents the complete planctl configuration.
type Config struct {
	// Logging configuration
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Output configuration
	Output OutputConfig `json:"output"`

	// Extraction configuration
	Extraction ExtractionConfig `json:"extraction"`
}

// OutputConfig represents command output configuration.
type OutputConfig struct {
	Format string `json:"format"` // "text" or "json"
}

// ExtractionConfig represents symbol extraction configuration.
type ExtractionConfig struct {
	// Workers bounds how many plan documents are decoded and walked at once.
	Workers int `json:"workers"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Output: OutputConfig{
			Format: "text",
		},
		Extraction: ExtractionConfig{
			Workers: runtime.GOMAXPROCS(0),
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFlags merges command-line flags into the configuration.
// Zero values leave the current setting untouched.
func (c *Config) LoadFromFlags(format string, logLevel string, workers int) {
	if format != "" {
		c.Output.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if workers > 0 {
		c.Extraction.Workers = workers
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
		// Valid
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}

	switch c.Output.Format {
	case "text", "json":
		// Valid
	default:
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}

	if c.Extraction.Workers < 1 {
		return fmt.Errorf("extraction workers must be at least 1")
	}

	return nil
}

// ToLogConfig converts to log.Config.
func (c *Config) ToLogConfig() log.Config {
	return log.Config{
		Level:  c.LogLevel,
		Format: c.LogFormat,
	}
}
