// Package config loads exporter configuration from an optional YAML file
// with environment-variable overrides. The loaded Config is immutable by
// convention: it is built once at startup and passed into each component.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openmkt/campaign-export/pkg/export"
)

// Config holds all configuration for the exporter.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Export ExportConfig `yaml:"export"`
	Redis  RedisConfig  `yaml:"redis"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig holds campaign API connection settings.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ExportConfig holds pipeline settings.
type ExportConfig struct {
	BatchSize         int                 `yaml:"batch_size"`
	RequestIntervalMS int                 `yaml:"request_interval_ms"`
	TestMode          bool                `yaml:"test_mode"`
	Filter            export.FilterConfig `yaml:"filter"`
}

// RedisConfig holds the cache backend settings. An empty Addr disables
// response caching.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// OutputConfig holds the sink paths.
type OutputConfig struct {
	ResultPath   string `yaml:"result_path"`
	ErrorLogPath string `yaml:"error_log_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv builds configuration from the optional YAML file at path (may
// be empty or missing), a .env file if present, and environment variables.
// Environment variables win over file values.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env if present (ignore errors - env vars may come from shell)
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if loaded, err := Load(path); err == nil {
			cfg = loaded
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("AC_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("AC_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("EXPORT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.BatchSize = n
		}
	}
	if v := os.Getenv("EXPORT_REQUEST_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.RequestIntervalMS = n
		}
	}
	if v := os.Getenv("EXPORT_TEST_MODE"); v != "" {
		cfg.Export.TestMode = v == "1" || v == "true"
	}
	if v := os.Getenv("EXPORT_FILTER_ENABLED"); v != "" {
		cfg.Export.Filter.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("EXPORT_FILTER_STATUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.Filter.ByStatus = true
			cfg.Export.Filter.Status = n
		}
	}
	if v := os.Getenv("EXPORT_FILTER_AUTOMATION_MODE"); v != "" {
		cfg.Export.Filter.ByAutomation = true
		cfg.Export.Filter.AutomationMode = export.AutomationMode(v)
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("OUTPUT_RESULT_PATH"); v != "" {
		cfg.Output.ResultPath = v
	}
	if v := os.Getenv("OUTPUT_ERROR_LOG_PATH"); v != "" {
		cfg.Output.ErrorLogPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.Log.Pretty = v == "1" || v == "true"
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills unset values.
func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.Export.BatchSize == 0 {
		c.Export.BatchSize = 100
	}
	if c.Export.RequestIntervalMS == 0 {
		c.Export.RequestIntervalMS = 500
	}
	if c.Export.Filter.AutomationMode == "" {
		c.Export.Filter.AutomationMode = export.ModeRegular
	}
	if c.Output.ResultPath == "" {
		c.Output.ResultPath = "campaigns_export.json"
	}
	if c.Output.ErrorLogPath == "" {
		c.Output.ErrorLogPath = "export_errors.log"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration is usable for a run.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required (AC_API_URL)")
	}
	if c.API.Token == "" {
		return fmt.Errorf("api token is required (AC_API_TOKEN)")
	}
	if c.Export.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive (got %d)", c.Export.BatchSize)
	}
	if c.Export.Filter.ByAutomation {
		switch c.Export.Filter.AutomationMode {
		case export.ModeRegular, export.ModeAutomation:
		default:
			return fmt.Errorf("unknown automation filter mode %q", c.Export.Filter.AutomationMode)
		}
	}
	return nil
}
