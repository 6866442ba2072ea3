// Package ratelimit provides per-client request rate limiting for the API
// gateway. Clients exceeding their budget receive 429 responses.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var rejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "app_rate_limited_total",
	Help: "Number of requests rejected by the gateway rate limiter",
})

// DefaultRequestsPerMinute matches the original public limit of the service.
const DefaultRequestsPerMinute = 100

// idleTTL is how long a client bucket may sit unused before it is evicted.
// An evicted client starts over with a full burst, so the TTL must exceed
// the time a full refill takes.
const idleTTL = 3 * time.Minute

// client pairs a token bucket with the time it was last consulted.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter maintains one token bucket per client key. Buckets idle longer
// than idleTTL are swept so the map stays bounded by the number of
// recently active clients.
type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	logger    zerolog.Logger
}

// New creates a limiter allowing rpm requests per minute per client, with a
// burst of rpm/10 (at least 1).
func New(rpm int) *Limiter {
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}
	burst := rpm / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		clients:   make(map[string]*client),
		limit:     rate.Limit(float64(rpm) / 60.0),
		burst:     burst,
		lastSweep: time.Now(),
		logger:    log.With().Str("component", "ratelimit").Logger(),
	}
}

// Allow reports whether the client identified by key may proceed. Buckets
// are created lazily per client.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > idleTTL {
		l.sweepLocked(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	limiter := c.limiter
	l.mu.Unlock()

	if !limiter.Allow() {
		rejectedTotal.Inc()
		l.logger.Warn().Str("client", key).Msg("Rate limit exceeded")
		return false
	}
	return true
}

// sweepLocked drops buckets not consulted within idleTTL. Callers must hold
// l.mu.
func (l *Limiter) sweepLocked(now time.Time) {
	evicted := 0
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(l.clients, key)
			evicted++
		}
	}
	l.lastSweep = now

	if evicted > 0 {
		l.logger.Debug().Int("evicted", evicted).Int("remaining", len(l.clients)).Msg("Swept idle client buckets")
	}
}
