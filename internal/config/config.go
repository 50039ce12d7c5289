// Package config provides Viper-based configuration loading for racetally.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// RaceConfig holds race defaults used when a command does not override them.
type RaceConfig struct {
	// MidPhaseCount is the number of mid phases between Pace and End.
	MidPhaseCount int `mapstructure:"mid_phase_count"`
	// Seed makes dice rolls reproducible when non-zero; zero selects the
	// crypto source.
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig locates custom strategy files.
type ContentConfig struct {
	// StrategiesDir holds custom strategy YAML files; empty disables them.
	StrategiesDir string `mapstructure:"strategies_dir"`
	// StrategyMode is "prepend" (custom entries override built-ins) or
	// "append" (built-ins win on name clashes).
	StrategyMode string `mapstructure:"strategy_mode"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Race    RaceConfig    `mapstructure:"race"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRace(c.Race); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRace(r RaceConfig) error {
	if r.MidPhaseCount < 0 || r.MidPhaseCount > 9 {
		return fmt.Errorf("race.mid_phase_count must be 0-9, got %d", r.MidPhaseCount)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	validModes := map[string]bool{"prepend": true, "append": true}
	if !validModes[c.StrategyMode] {
		return fmt.Errorf("content.strategy_mode must be one of [prepend, append], got %q", c.StrategyMode)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with RACETALLY_ prefix
	v.SetEnvPrefix("RACETALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("race.mid_phase_count", 1)
	v.SetDefault("race.seed", 0)

	v.SetDefault("content.strategies_dir", "")
	v.SetDefault("content.strategy_mode", "prepend")
}
