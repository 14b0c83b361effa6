package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planctl.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.Output.Format)
	assert.GreaterOrEqual(t, cfg.Extraction.Workers, 1)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `{
		"log_level": "debug",
		"output": {"format": "json"},
		"extraction": {"workers": 3}
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset fields keep defaults")
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 3, cfg.Extraction.Workers)
}

func TestLoadFromFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: "failed to read config file",
		},
		{
			name:    "malformed json",
			path:    func(t *testing.T) string { return writeConfig(t, `{"log_level": `) },
			wantErr: "failed to parse config file",
		},
		{
			name:    "invalid value",
			path:    func(t *testing.T) string { return writeConfig(t, `{"extraction": {"workers": 0}}`) },
			wantErr: "extraction workers must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level: loud"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format: xml"},
		{"bad output format", func(c *Config) { c.Output.Format = "csv" }, "invalid output format: csv"},
		{"negative workers", func(c *Config) { c.Extraction.Workers = -1 }, "extraction workers must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoadFromFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoadFromFlags("json", "warn", 8)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Extraction.Workers)

	cfg.LoadFromFlags("", "", 0)
	assert.Equal(t, "json", cfg.Output.Format, "empty flags keep current values")
	assert.Equal(t, 8, cfg.Extraction.Workers)
}

func TestToLogConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "error"
	cfg.LogFormat = "json"

	lc := cfg.ToLogConfig()
	assert.Equal(t, "error", lc.Level)
	assert.Equal(t, "json", lc.Format)
}
