// Package config loads engine configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/venueops/roster/pkg/logger"
	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/generator"
)

// Config is the application configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Engine EngineConfig `yaml:"engine"`
}

// AppConfig is basic application configuration.
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

// EngineConfig tunes the roster engine.
type EngineConfig struct {
	Workers        int           `yaml:"workers"`
	Attempts       int           `yaml:"attempts"`
	MaxBacktracks  int           `yaml:"max_backtracks"`
	CriticalWeight int           `yaml:"critical_weight"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "roster"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Engine: EngineConfig{
			Workers:        getEnvInt("ROSTER_WORKERS", 4),
			Attempts:       getEnvInt("ROSTER_ATTEMPTS", 8),
			MaxBacktracks:  getEnvInt("ROSTER_MAX_BACKTRACKS", 64),
			CriticalWeight: getEnvInt("ROSTER_CRITICAL_WEIGHT", model.CriticalWeight),
			Timeout:        getEnvDuration("ROSTER_TIMEOUT", 30*time.Second),
		},
	}
	return cfg, nil
}

// GeneratorConfig converts the engine section into generator tuning.
func (c *Config) GeneratorConfig() generator.Config {
	return generator.Config{
		Workers:        c.Engine.Workers,
		Attempts:       c.Engine.Attempts,
		MaxBacktracks:  c.Engine.MaxBacktracks,
		CriticalWeight: c.Engine.CriticalWeight,
	}
}

// LoggerConfig converts the app section into logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.App.LogLevel
	if c.IsProduction() {
		cfg.Format = "json"
	}
	return cfg
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
