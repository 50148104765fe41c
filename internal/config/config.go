package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the WaveOrder API server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Keys     KeysConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// KeysConfig carries the defaults applied to new integration keys that do
// not specify their own window parameters.
type KeysConfig struct {
	IntegrationRateLimit  int
	IntegrationRateWindow time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("WAVEORDER_PORT", 8080),
			Env:  envString("WAVEORDER_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Keys: KeysConfig{
			IntegrationRateLimit:  envInt("INTEGRATION_RATE_LIMIT", 120),
			IntegrationRateWindow: envDuration("INTEGRATION_RATE_WINDOW", time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.Keys.IntegrationRateLimit <= 0 {
		return fmt.Errorf("INTEGRATION_RATE_LIMIT must be positive, got %d", c.Keys.IntegrationRateLimit)
	}
	if c.Keys.IntegrationRateWindow <= 0 {
		return fmt.Errorf("INTEGRATION_RATE_WINDOW must be positive, got %s", c.Keys.IntegrationRateWindow)
	}
	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
