// Package config loads teesheet settings from a YAML file, TEESHEET_*
// environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/utils"
)

const (
	// EnvPrefix is prepended to every environment variable, e.g. TEESHEET_API_BASE_URL
	EnvPrefix = "TEESHEET"

	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config holds all configuration values.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Presets  PresetsConfig  `mapstructure:"presets"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Generate GenerateConfig `mapstructure:"generate"`
	Timezone string         `mapstructure:"timezone"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PresetsConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// Redis configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GenerateConfig struct {
	Concurrency   int     `mapstructure:"concurrency"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	CourseSection string  `mapstructure:"course_section"`
	Capacity      int     `mapstructure:"capacity"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultDir is where presets and the config file live by default
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".teesheet")
	}
	return filepath.Join(home, ".config", "teesheet")
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("presets.backend", BackendFile)
	v.SetDefault("presets.dir", DefaultDir())
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("generate.concurrency", 1)
	v.SetDefault("generate.rate_per_second", 0)
	v.SetDefault("generate.course_section", models.DefaultCourseSection)
	v.SetDefault("generate.capacity", models.MaxPlayersPerTeeTime)
	v.SetDefault("timezone", "Local")
	v.SetDefault("log.file", utils.DefaultLogPath)
	v.SetDefault("log.level", "info")
}

// Load reads configuration into a Config. configFile may be empty, in which
// case teesheet.yaml is looked up in the working directory and DefaultDir.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("teesheet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	switch c.Presets.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Presets.Dir) == "" {
			return fmt.Errorf("presets.dir is required for the file backend")
		}
	case BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown presets.backend %q (want %q or %q)", c.Presets.Backend, BackendFile, BackendRedis)
	}
	if c.Generate.Concurrency < 1 || c.Generate.Concurrency > 16 {
		return fmt.Errorf("generate.concurrency must be between 1 and 16, got %d", c.Generate.Concurrency)
	}
	if c.Generate.RatePerSecond < 0 {
		return fmt.Errorf("generate.rate_per_second cannot be negative")
	}
	if c.Generate.Capacity < 1 || c.Generate.Capacity > models.MaxPlayersPerTeeTime {
		return fmt.Errorf("generate.capacity must be between 1 and %d, got %d", models.MaxPlayersPerTeeTime, c.Generate.Capacity)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
