// Package config loads tracker settings from an optional YAML file,
// LIFETRACKER_ environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override, e.g. LIFETRACKER_LOGGING_LEVEL.
const EnvPrefix = "LIFETRACKER"

// Config is the root configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Identity IdentityConfig `mapstructure:"identity"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// IdentityConfig selects where player names, colors and starting life are
// stored and how often they are written.
type IdentityConfig struct {
	Driver       string        `mapstructure:"driver"`
	Path         string        `mapstructure:"path"`
	DSN          string        `mapstructure:"dsn"`
	SaveInterval time.Duration `mapstructure:"save_interval"`
	SaveBurst    int           `mapstructure:"save_burst"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
	validDrivers = []string{"memory", "toml", "sqlite", "postgres"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("identity.driver", "toml")
	v.SetDefault("identity.path", "data/identity.toml")
	v.SetDefault("identity.dsn", "")
	v.SetDefault("identity.save_interval", 500*time.Millisecond)
	v.SetDefault("identity.save_burst", 1)
}

// Load reads path if it exists, applies environment overrides and validates
// the result. An empty path or a missing file means defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Identity.Driver = strings.ToLower(strings.TrimSpace(c.Identity.Driver))
}

// Validate checks that every setting names something that exists.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("%w: unknown logging level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("%w: unknown logging format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if !slices.Contains(validDrivers, c.Identity.Driver) {
		return fmt.Errorf("%w: unknown identity driver %q", ErrInvalidConfig, c.Identity.Driver)
	}
	switch c.Identity.Driver {
	case "toml", "sqlite":
		if c.Identity.Path == "" {
			return fmt.Errorf("%w: identity.path is required for the %s driver", ErrInvalidConfig, c.Identity.Driver)
		}
	case "postgres":
		if c.Identity.DSN == "" {
			return fmt.Errorf("%w: identity.dsn is required for the postgres driver", ErrInvalidConfig)
		}
	}
	if c.Identity.SaveInterval < 0 {
		return fmt.Errorf("%w: identity.save_interval must not be negative", ErrInvalidConfig)
	}
	if c.Identity.SaveBurst < 1 {
		return fmt.Errorf("%w: identity.save_burst must be at least 1", ErrInvalidConfig)
	}
	return nil
}
