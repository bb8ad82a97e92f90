package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = ".batparse.yaml"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the CLI configuration. Precedence, lowest first: defaults, the
// YAML file, environment variables, explicit flags.
type Config struct {
	Format   string      `yaml:"format"`
	Color    string      `yaml:"color"`
	Output   string      `yaml:"output"`
	Warnings bool        `yaml:"warnings"`
	Watch    WatchConfig `yaml:"watch"`
}

// WatchConfig configures --watch.
type WatchConfig struct {
	// Debounce is the quiet period after a change before re-parsing
	// (default: 100ms)
	Debounce time.Duration `yaml:"debounce"`
}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.Color == "" {
		cfg.Color = ColorAuto
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 100 * time.Millisecond
	}
}

// Validate checks every field and reports all problems at once.
func Validate(cfg *Config) error {
	var errs []error
	switch cfg.Format {
	case FormatText, FormatJSON, FormatCBOR:
	default:
		errs = append(errs, fmt.Errorf("format: must be one of text, json, cbor (got %q)", cfg.Format))
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color: must be one of auto, always, never (got %q)", cfg.Color))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative (got %s)", cfg.Watch.Debounce))
	}
	return errors.Join(errs...)
}

// resolveConfig loads the explicit config file, or DefaultConfigFile when it
// exists, or the defaults. Environment overrides are applied last.
func resolveConfig(path string, getenv func(string) string) (*Config, error) {
	var cfg *Config
	switch {
	case path != "":
		c, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			c, err := LoadConfig(DefaultConfigFile)
			if err != nil {
				return nil, err
			}
			cfg = c
		} else {
			cfg = DefaultConfig()
		}
	}

	envErr := applyEnvOverrides(cfg, getenv)

	if err := errors.Join(envErr, Validate(cfg)); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies BATPARSE_FORMAT, BATPARSE_COLOR,
// BATPARSE_WARNINGS and NO_COLOR. An unparsable BATPARSE_WARNINGS leaves
// the setting unchanged and is reported.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	var err error
	if val := getenv("BATPARSE_FORMAT"); val != "" {
		cfg.Format = val
	}
	if val := getenv("BATPARSE_COLOR"); val != "" {
		cfg.Color = val
	}
	if val := getenv("BATPARSE_WARNINGS"); val != "" {
		if b, perr := strconv.ParseBool(val); perr == nil {
			cfg.Warnings = b
		} else {
			err = fmt.Errorf("BATPARSE_WARNINGS: must be a boolean (got %q)", val)
		}
	}
	// https://no-color.org
	if getenv("NO_COLOR") != "" {
		cfg.Color = ColorNever
	}
	return err
}
