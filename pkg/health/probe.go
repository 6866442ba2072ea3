// Package health checks reachability of the proxy's dependencies.
package health

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Pinger is a dependency that can report its own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the aggregate health of the proxy's dependencies.
type Status struct {
	Database bool `json:"database"`
	Redis    bool `json:"redis"`
}

// Healthy reports whether every dependency is reachable.
func (s Status) Healthy() bool {
	return s.Database && s.Redis
}

// Probe checks the durable store and the cache independently, so a failure
// in one cannot mask the other.
type Probe struct {
	store   Pinger
	cache   Pinger
	timeout time.Duration
	logger  zerolog.Logger
}

// NewProbe creates a health probe over the given dependencies.
func NewProbe(store, cache Pinger) *Probe {
	return &Probe{
		store:   store,
		cache:   cache,
		timeout: 3 * time.Second,
		logger:  log.With().Str("component", "health").Logger(),
	}
}

// Check performs one liveness operation per dependency, each bounded by its
// own timeout.
func (p *Probe) Check(ctx context.Context) Status {
	status := Status{}

	storeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	if err := p.store.Ping(storeCtx); err != nil {
		p.logger.Error().Err(err).Msg("Database healthcheck failed")
	} else {
		status.Database = true
	}
	cancel()

	cacheCtx, cancel := context.WithTimeout(ctx, p.timeout)
	if err := p.cache.Ping(cacheCtx); err != nil {
		p.logger.Error().Err(err).Msg("Redis healthcheck failed")
	} else {
		status.Redis = true
	}
	cancel()

	return status
}
