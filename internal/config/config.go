// Package config loads strokecheck settings: which prediction service to
// talk to, how long to wait for it, and where logs and reports go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// Environment selects a service endpoint.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// ParseEnvironment accepts the full name or the short forms dev and prod.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return Development, nil
	case "production", "prod":
		return Production, nil
	default:
		return "", fmt.Errorf("invalid environment: %s (valid: development, production)", s)
	}
}

// Environment variables read by Load.
const (
	EnvEnvironment = "STROKECHECK_ENV"
	EnvAPIURL      = "STROKECHECK_API_URL"
	EnvTimeout     = "STROKECHECK_TIMEOUT"
)

// DefaultProductionURL is the hosted service used when none is configured.
const DefaultProductionURL = "https://stroke-prediction-api.onrender.com"

// EndpointConfig is one service deployment.
type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`
}

// Config is the complete configuration.
type Config struct {
	Environment Environment    `yaml:"environment"`
	Development EndpointConfig `yaml:"development"`
	Production  EndpointConfig `yaml:"production"`
	Logging     LoggingConfig  `yaml:"logging"`
	ReportDir   string         `yaml:"report_dir"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Environment: Development,
		Development: EndpointConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "10s",
		},
		Production: EndpointConfig{
			BaseURL: DefaultProductionURL,
			Timeout: "15s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		ReportDir: ".",
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "strokecheck.yaml"
	}
	return filepath.Join(dir, "strokecheck", "config.yaml")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies STROKECHECK_* variables. The environment is
// chosen first so the URL and timeout overrides land on the active endpoint.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvEnvironment); v != "" {
		env, err := ParseEnvironment(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnvironment, err)
		}
		c.Environment = env
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Active().BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.Active().Timeout = v
	}
	return nil
}

// Active returns the endpoint of the selected environment.
func (c *Config) Active() *EndpointConfig {
	if c.Environment == Production {
		return &c.Production
	}
	return &c.Development
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ParseEnvironment(string(c.Environment)); err != nil {
		return err
	}
	if _, err := c.Client(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

// Client returns the prediction client settings for the active endpoint.
func (c *Config) Client() (predict.Config, error) {
	ep := c.Active()
	timeout, err := time.ParseDuration(ep.Timeout)
	if err != nil {
		return predict.Config{}, fmt.Errorf("invalid %s timeout %q: %w", c.Environment, ep.Timeout, err)
	}
	pc := predict.Config{BaseURL: ep.BaseURL, Timeout: timeout}
	if err := pc.Validate(); err != nil {
		return predict.Config{}, fmt.Errorf("%s endpoint: %w", c.Environment, err)
	}
	return pc, nil
}
