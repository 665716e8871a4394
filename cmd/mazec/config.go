// =============================================================================
// config.go - Configuration File
// =============================================================================
//
// mazec reads its settings from a YAML file. Every key is optional; missing
// keys keep their defaults, and command-line flags override both.
//
//	server: localhost:4000
//	user: alice
//	level: abc123
//	command_timeout: 30s
//	wait_timeout: 0s
//	use_wait: true
//	moves_per_second: 5
//	log_level: warn
//	log_format: text
//	metrics_addr: 127.0.0.1:9464
//
// =============================================================================

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/protab/mazec/mazeprotocol"
)

const (
	// configFileName is the default config file in the home directory.
	configFileName = ".mazec.yaml"

	// DefaultLogLevel keeps the library quiet unless something goes wrong.
	DefaultLogLevel = "warn"

	// DefaultLogFormat writes human-readable log lines.
	DefaultLogFormat = "text"
)

// Config holds every setting the driver needs to open a session.
type Config struct {
	Server         string        `yaml:"server"`
	User           string        `yaml:"user"`
	Level          string        `yaml:"level"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	WaitTimeout    time.Duration `yaml:"wait_timeout"`
	UseWait        bool          `yaml:"use_wait"`
	MovesPerSecond float64       `yaml:"moves_per_second"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	MetricsAddr    string        `yaml:"metrics_addr"`
}

// DefaultConfig returns a Config with the protocol defaults.
func DefaultConfig() Config {
	return Config{
		Server:         mazeprotocol.DefaultAddress,
		CommandTimeout: mazeprotocol.DefaultCommandTimeout,
		WaitTimeout:    mazeprotocol.DefaultWaitTimeout,
		UseWait:        true,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// GO CONCEPT: Value Receivers on Error Types
// ------------------------------------------
// ValidationError implements error with a value receiver, so both
// ValidationError{} and &ValidationError{} satisfy the interface. Callers
// match it with errors.As(err, &validation) on a ValidationError variable.

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// defaultConfigPath returns $HOME/.mazec.yaml, or "" without a home
// directory.
func defaultConfigPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// LoadConfig reads and parses the config file at path. A missing file
// yields the defaults unless mustExist is set. Missing keys keep their
// default values.
func LoadConfig(path string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig checks that all config values are usable.
func ValidateConfig(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server); err != nil {
		return ValidationError{Field: "server", Message: "must be host:port"}
	}
	if cfg.CommandTimeout < 0 {
		return ValidationError{Field: "command_timeout", Message: "must not be negative"}
	}
	if cfg.WaitTimeout < 0 {
		return ValidationError{Field: "wait_timeout", Message: "must not be negative"}
	}
	if cfg.MovesPerSecond < 0 {
		return ValidationError{Field: "moves_per_second", Message: "must not be negative"}
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return ValidationError{Field: "log_level", Message: err.Error()}
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return ValidationError{Field: "log_format", Message: "must be text or json"}
	}
	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			return ValidationError{Field: "metrics_addr", Message: "must be host:port"}
		}
	}
	for field, value := range map[string]string{"user": cfg.User, "level": cfg.Level} {
		if strings.ContainsAny(value, " \r\n") {
			return ValidationError{Field: field, Message: "must be a single word"}
		}
	}
	return nil
}

// ValidateLogin checks the settings needed to open a session.
func ValidateLogin(cfg *Config) error {
	if cfg.User == "" {
		return ValidationError{Field: "user", Message: "is required (--user or user: in the config file)"}
	}
	if cfg.Level == "" {
		return ValidationError{Field: "level", Message: "is required (--level or level: in the config file)"}
	}
	return nil
}
