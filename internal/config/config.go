// Package config loads the process configuration from environment
// variables with defaults matching the service's deployment surface.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/characterhub/rickmorty-proxy/pkg/upstream"
)

// Config holds the full process configuration.
type Config struct {
	Port     string
	LogLevel string

	UpstreamURL string

	RedisHost string
	RedisPort int
	RedisTTL  time.Duration

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RateLimitRPM int

	// OTLPEndpoint is the telemetry collector address. Consumed by the
	// tracing wiring, kept here so the env surface stays complete.
	OTLPEndpoint string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPSTREAM_URL", upstream.DefaultBaseURL)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_TTL", 3600)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rickmorty")
	v.SetDefault("RATE_LIMIT_RPM", 100)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")

	cfg := &Config{
		Port:         v.GetString("PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		UpstreamURL:  v.GetString("UPSTREAM_URL"),
		RedisHost:    v.GetString("REDIS_HOST"),
		RedisPort:    v.GetInt("REDIS_PORT"),
		RedisTTL:     time.Duration(v.GetInt("REDIS_TTL")) * time.Second,
		DBHost:       v.GetString("DB_HOST"),
		DBPort:       v.GetInt("DB_PORT"),
		DBUser:       v.GetString("DB_USER"),
		DBPassword:   v.GetString("DB_PASSWORD"),
		DBName:       v.GetString("DB_NAME"),
		RateLimitRPM: v.GetInt("RATE_LIMIT_RPM"),
		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.RedisPort < 1 || cfg.RedisPort > 65535 {
		return nil, fmt.Errorf("invalid REDIS_PORT: %d", cfg.RedisPort)
	}
	if cfg.DBPort < 1 || cfg.DBPort > 65535 {
		return nil, fmt.Errorf("invalid DB_PORT: %d", cfg.DBPort)
	}
	if cfg.RedisTTL <= 0 {
		return nil, fmt.Errorf("REDIS_TTL must be positive")
	}
	if cfg.RateLimitRPM < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_RPM must be >= 1")
	}

	return cfg, nil
}

// RedisAddr returns the cache address in host:port form.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DatabaseDSN returns the Postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
