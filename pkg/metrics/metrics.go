// Package metrics provides the centralized Prometheus registry reference
// for the character proxy. All metrics are defined in their respective
// packages (upstream, cache, service, ratelimit) to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the proxy.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Upstream Metrics (pkg/upstream):
//   - upstream_requests_total{status} (Counter): Requests by HTTP status or "network_error"
//   - upstream_request_duration_seconds (Histogram): Fetch duration including retries
//   - upstream_retries_total (Counter): Retry attempts
//   - upstream_retry_backoff_seconds (Histogram): Backoff durations before retries
//   - upstream_retry_exhausted_total (Counter): Fetches that exhausted max attempts
//
// Cache Metrics (pkg/cache):
//   - app_cache_hits_total (Counter): Result cache hits
//   - app_cache_misses_total (Counter): Result cache misses
//   - app_redis_failures_total{operation} (Counter): Backend failures by operation (get, put, ping)
//
// Pipeline Metrics (pkg/service):
//   - app_characters_processed_total (Counter): Characters kept after filtering
//
// Gateway Metrics (pkg/ratelimit):
//   - app_rate_limited_total (Counter): Requests rejected with 429
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(app_cache_hits_total[5m])) /
//   (sum(rate(app_cache_hits_total[5m])) + sum(rate(app_cache_misses_total[5m])))
//
//   # Redis Failure Rate (degradation in effect)
//   rate(app_redis_failures_total[5m])
//
//   # Upstream Error Rate
//   sum(rate(upstream_requests_total{status!~"2.."}[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(upstream_request_duration_seconds_bucket[5m]))
