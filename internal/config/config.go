// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/profile-report/internal/types"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultAPIBaseURL    = "http://localhost:5000"
	DefaultPort          = 8080
	DefaultOutputDir     = "."
	DefaultChromeTimeout = 60
	DefaultLogLevel      = "info"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Services
	APIBaseURL  string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty"` // Analysis service base URL
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`                 // HTTP port for serve
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Export
	OutputDir     string  `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Filename      string  `json:"filename,omitempty" yaml:"filename,omitempty"`
	Scale         float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	ChromePath    string  `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	ChromeTimeout int     `json:"chrome_timeout,omitempty" yaml:"chrome_timeout,omitempty"` // seconds

	// Behavior
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file, or YAML when the
// extension is .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with values from the environment.
// API_BASE_URL wins over the legacy REACT_APP_API_BASE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("REACT_APP_API_BASE"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be an integer, got %q", v)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Scale < 0 {
		return fmt.Errorf("config error: 'scale' must be non-negative")
	}
	if c.ChromeTimeout < 0 {
		return fmt.Errorf("config error: 'chrome_timeout' must be non-negative")
	}
	if c.Filename != "" || c.Scale != 0 {
		opts := types.ExportOptions{Filename: c.Filename, Scale: c.Scale}
		if opts.Filename == "" {
			opts.Filename = types.DefaultExportFilename
		}
		if opts.Scale == 0 {
			opts.Scale = types.DefaultExportScale
		}
		if err := opts.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.APIBaseURL != "" && !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("config error: 'api_base_url' must be an http(s) URL")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Filename == "" {
		result.Filename = defaults.Filename
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Scale == 0 {
		result.Scale = defaults.Scale
	}
	if result.ChromeTimeout == 0 {
		result.ChromeTimeout = defaults.ChromeTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL:    DefaultAPIBaseURL,
		Port:          DefaultPort,
		OutputDir:     DefaultOutputDir,
		Filename:      types.DefaultExportFilename,
		Scale:         types.DefaultExportScale,
		ChromeTimeout: DefaultChromeTimeout,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads path (optional), applies the environment and fills defaults.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
