// Package cache provides the Redis-backed result cache keyed by the
// canonicalized query tuple.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is applied when no TTL is configured.
const DefaultTTL = 3600 * time.Second

// Manager handles result caching with a Redis backend. Its operations never
// fail the caller: backend errors degrade to miss semantics on Get and to a
// no-op on Put, incrementing the failure counter.
type Manager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewManager creates a new cache manager with a Redis backend. A nil client
// is allowed and behaves as a permanently unavailable cache.
func NewManager(redisClient *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		redis:  redisClient,
		ttl:    ttl,
		logger: log.With().Str("component", "cache").Logger(),
	}
}

// TTL returns the configured entry time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Get retrieves the serialized result for a key. The second return value is
// false on miss, expiry, or backend failure.
func (m *Manager) Get(ctx context.Context, key Key) ([]byte, bool) {
	if m.redis == nil {
		RedisFailures.WithLabelValues("get").Inc()
		return nil, false
	}

	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			m.logger.Debug().Str("key", key.String()).Msg("Cache miss")
			return nil, false
		}
		RedisFailures.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get failed, degrading to miss")
		return nil, false
	}

	CacheHits.Inc()
	m.logger.Info().Str("key", key.String()).Msg("Cache hit")
	return data, true
}

// Put stores the serialized result under the key with the configured TTL.
// Failures are logged and counted, never returned.
func (m *Manager) Put(ctx context.Context, key Key, payload []byte) {
	if m.redis == nil {
		RedisFailures.WithLabelValues("put").Inc()
		return
	}

	if err := m.redis.Set(ctx, key.String(), payload, m.ttl).Err(); err != nil {
		RedisFailures.WithLabelValues("put").Inc()
		m.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache put failed")
		return
	}

	m.logger.Info().
		Str("key", key.String()).
		Dur("ttl", m.ttl).
		Msg("Cache set")
}

// Ping checks cache backend reachability for the health probe.
func (m *Manager) Ping(ctx context.Context) error {
	if m.redis == nil {
		return redis.ErrClosed
	}
	if err := m.redis.Ping(ctx).Err(); err != nil {
		RedisFailures.WithLabelValues("ping").Inc()
		return err
	}
	return nil
}
