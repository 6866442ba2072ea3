// Package logging provides structured logging configuration for the
// character proxy using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName tags every log entry with the emitting service.
const ServiceName = "rickmorty-proxy"

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output: "debug", "info", "warn"
	// or "error". Unknown values fall back to info.
	Level string

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger. Every entry carries a
// timestamp and the service name.
func Setup(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	log.Logger = logger

	return logger
}

// ParseLevel converts a configured level string to a zerolog.Level,
// defaulting to info for unknown values.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a child logger tagged with the emitting component
// (upstream, cache, store, service, api, ratelimit, health).
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, TTL)
//   - Upstream request flow (page, retry attempt, backoff)
//   - Filter/sort outcomes per request
//
// Info: Normal operation events
//   - Cache hits and sets
//   - Successful upstream fetches after retry
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Upstream rate limiting and retry attempts
//   - Cache failures (degrading to upstream fetch)
//   - Gateway rate limit rejections
//
// Error: Error conditions requiring attention
//   - Upstream fetch failures (after retries)
//   - Persistence failures (request still served)
//   - Dependency healthcheck failures
//
// Context Fields:
//   - component: emitting subsystem (upstream, cache, store, service, api)
//   - page: upstream page number
//   - key: cache key
//   - status: HTTP status code
//   - attempt: retry attempt number
//   - ttl: cache entry TTL
