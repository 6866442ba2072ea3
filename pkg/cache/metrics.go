package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks result cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_cache_hits_total",
			Help: "Number of times the Redis cache was hit",
		},
	)

	// CacheMisses tracks result cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_cache_misses_total",
			Help: "Number of times the Redis cache was missed",
		},
	)

	// RedisFailures tracks cache backend failures that degraded to
	// miss/no-op behavior.
	RedisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_redis_failures_total",
			Help: "Number of Redis failures by operation",
		},
		[]string{"operation"}, // "get", "put", "ping"
	)
)
