// Package config holds all taskrelay configuration. One Config value is
// built at startup (file + environment overrides) and passed explicitly to
// the relay server and the executor; there is no global mutable state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds relay and executor configuration.
type Config struct {
	// Relay server settings
	Server ServerConfig `yaml:"server"`

	// Executor settings
	Executor ExecutorConfig `yaml:"executor"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the relay HTTP server.
type ServerConfig struct {
	// Listen address, e.g. ":8000"
	Addr string `yaml:"addr"`

	// Bearer token required on every API endpoint
	Token string `yaml:"token"`

	// Root directory for the command/result collections
	StorageDir string `yaml:"storage_dir"`
}

// ExecutorConfig configures the polling executor.
type ExecutorConfig struct {
	// Base URL of the relay server
	ServerURL string `yaml:"server_url"`

	// Bearer token presented to the relay
	Token string `yaml:"token"`

	// Local directory commands operate under
	SandboxRoot string `yaml:"sandbox_root"`

	// Pinned interpreter and package manager binaries
	PythonBin string `yaml:"python_bin"`
	PipBin    string `yaml:"pip_bin"`

	// Poll interval between list calls
	PollInterval string `yaml:"poll_interval"`

	// Timeout for the poll list call
	ListTimeout string `yaml:"list_timeout"`

	// Hard timeout for subprocess and package-manager actions
	CommandTimeout string `yaml:"command_timeout"`

	// Optional sqlite journal recording finalized command ids.
	// Empty disables redelivery detection.
	JournalPath string `yaml:"journal_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8000",
			StorageDir: "./storage",
		},
		Executor: ExecutorConfig{
			ServerURL:      "http://127.0.0.1:8000",
			SandboxRoot:    "./project",
			PythonBin:      "python3",
			PipBin:         "pip3",
			PollInterval:   "1s",
			ListTimeout:    "10s",
			CommandTimeout: "300s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, applying defaults for any
// missing fields and environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
// The token variables exist so secrets can stay out of config files.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RELAY_TOKEN"); v != "" {
		c.Server.Token = v
		c.Executor.Token = v
	}
	if v := os.Getenv("RELAY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RELAY_STORAGE_DIR"); v != "" {
		c.Server.StorageDir = v
	}
	if v := os.Getenv("RELAY_SERVER_URL"); v != "" {
		c.Executor.ServerURL = v
	}
	if v := os.Getenv("RELAY_SANDBOX_ROOT"); v != "" {
		c.Executor.SandboxRoot = v
	}
	if v := os.Getenv("RELAY_PYTHON_BIN"); v != "" {
		c.Executor.PythonBin = v
	}
	if v := os.Getenv("RELAY_PIP_BIN"); v != "" {
		c.Executor.PipBin = v
	}
}

// Validate checks for configuration that cannot work.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Executor.ServerURL == "" {
		return fmt.Errorf("executor.server_url is required")
	}
	if _, err := c.PollInterval(); err != nil {
		return fmt.Errorf("invalid executor.poll_interval: %w", err)
	}
	if _, err := c.ListTimeout(); err != nil {
		return fmt.Errorf("invalid executor.list_timeout: %w", err)
	}
	if _, err := c.CommandTimeout(); err != nil {
		return fmt.Errorf("invalid executor.command_timeout: %w", err)
	}
	return nil
}

// PollInterval parses the executor poll interval.
func (c *Config) PollInterval() (time.Duration, error) {
	return parseDuration(c.Executor.PollInterval, time.Second)
}

// ListTimeout parses the poll list call timeout.
func (c *Config) ListTimeout() (time.Duration, error) {
	return parseDuration(c.Executor.ListTimeout, 10*time.Second)
}

// CommandTimeout parses the subprocess hard timeout.
func (c *Config) CommandTimeout() (time.Duration, error) {
	return parseDuration(c.Executor.CommandTimeout, 300*time.Second)
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
