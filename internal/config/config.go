// Package config defines the server configuration schema and its YAML
// loader. Configuration is optional: the zero-config defaults plus a handful
// of environment variables (PRIVATE_KEY, POP_BIN, POP_MCP_URL) are enough to
// run the server.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Environment variables consulted when no config file overrides them.
const (
	EnvPopBin     = "POP_BIN"
	EnvDefaultURL = "POP_MCP_URL"
)

// Config is the root configuration document.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Pop      PopConfig      `yaml:"pop"`
	History  HistoryConfig  `yaml:"history"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
}

// LogConfig controls the slog setup.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// PopConfig describes the wrapped CLI.
type PopConfig struct {
	// Binary is the pop executable name or path.
	Binary string `yaml:"binary"`

	// DefaultURL is the node endpoint used when no node is tracked and the
	// caller gives none.
	DefaultURL string `yaml:"default_url"`

	// FailureMarkers appends extra exit-0 failure markers per tool, for CLI
	// versions that phrase errors differently.
	FailureMarkers map[string][]string `yaml:"failure_markers"`
}

// HistoryConfig controls the sqlite invocation and node store.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path to the database file. Defaults under the user home directory.
	Path string `yaml:"path"`
}

// GatewayConfig controls the optional HTTP sidecar.
type GatewayConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Bind            string        `yaml:"bind"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WatchdogConfig controls the tracked-node liveness job.
type WatchdogConfig struct {
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression or @every duration.
	Schedule string `yaml:"schedule"`
}

// Default returns the configuration used when no file is given, with
// environment overrides applied.
func Default() *Config {
	cfg := &Config{
		Log: LogConfig{Level: "info"},
		Pop: PopConfig{Binary: "pop"},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Gateway: GatewayConfig{
			Bind:            "127.0.0.1:8090",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Watchdog: WatchdogConfig{Schedule: "@every 1m"},
	}
	cfg.applyEnv()
	return cfg
}

// applyEnv lets the common deployment knobs work without a config file.
func (c *Config) applyEnv() {
	if bin := os.Getenv(EnvPopBin); bin != "" {
		c.Pop.Binary = bin
	}
	if url := os.Getenv(EnvDefaultURL); url != "" {
		c.Pop.DefaultURL = url
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "popmcp", "popmcp.db")
	}
	return filepath.Join(home, ".popmcp", "popmcp.db")
}

var logLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// Validate checks the structural validity of a Config and returns all
// problems at once.
func Validate(cfg *Config) error {
	var errs []error

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		errs = append(errs, fmt.Errorf("config: invalid log level %q (debug, info, warn, error)", cfg.Log.Level))
	}
	if cfg.Pop.Binary == "" {
		errs = append(errs, errors.New("config: pop.binary must not be empty"))
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		errs = append(errs, errors.New("config: history.path is required when history is enabled"))
	}
	if cfg.Gateway.Enabled {
		if _, err := net.ResolveTCPAddr("tcp", cfg.Gateway.Bind); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid gateway bind address %q", cfg.Gateway.Bind))
		}
	}
	if cfg.Watchdog.Enabled && cfg.Watchdog.Schedule == "" {
		errs = append(errs, errors.New("config: watchdog.schedule is required when the watchdog is enabled"))
	}

	return errors.Join(errs...)
}
