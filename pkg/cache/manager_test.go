package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client against a local instance,
// skipping when none is available. The testcontainers-backed suite under
// tests/integration covers the same paths against a real container.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewManager_DefaultTTL(t *testing.T) {
	m := NewManager(nil, 0)
	if m.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", m.TTL(), DefaultTTL)
	}

	m = NewManager(nil, 5*time.Minute)
	if m.TTL() != 5*time.Minute {
		t.Errorf("TTL() = %v, want 5m", m.TTL())
	}
}

func TestManager_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	m := NewManager(client, time.Minute)

	ctx := context.Background()
	key := Key{Page: 1, Limit: 10, SortBy: "id", SortOrder: "asc"}
	payload := []byte(`[{"id":1,"name":"Rick Sanchez","status":"Alive","species":"Human","origin":"Earth (C-137)"}]`)

	m.Put(ctx, key, payload)

	got, ok := m.Get(ctx, key)
	if !ok {
		t.Fatal("Get after Put reported a miss")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get returned %q, want byte-identical %q", got, payload)
	}
}

func TestManager_MissForUnknownKey(t *testing.T) {
	client := setupTestRedis(t)
	m := NewManager(client, time.Minute)

	_, ok := m.Get(context.Background(), Key{Page: 42, Limit: 10, SortBy: "id", SortOrder: "asc"})
	if ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestManager_EntryExpires(t *testing.T) {
	client := setupTestRedis(t)
	m := NewManager(client, time.Second)

	ctx := context.Background()
	key := Key{Page: 1, Limit: 10, SortBy: "id", SortOrder: "asc"}
	m.Put(ctx, key, []byte(`[]`))

	if _, ok := m.Get(ctx, key); !ok {
		t.Fatal("Expected hit before TTL expiry")
	}

	time.Sleep(1100 * time.Millisecond)

	if _, ok := m.Get(ctx, key); ok {
		t.Error("Expected miss after TTL expiry")
	}
}

func TestManager_BackendUnavailableDegradesToMiss(t *testing.T) {
	// Closed port: every operation fails, none may propagate.
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	m := NewManager(client, time.Minute)
	ctx := context.Background()
	key := Key{Page: 1, Limit: 10, SortBy: "id", SortOrder: "asc"}

	getFailures := promtestutil.ToFloat64(RedisFailures.WithLabelValues("get"))
	putFailures := promtestutil.ToFloat64(RedisFailures.WithLabelValues("put"))

	if _, ok := m.Get(ctx, key); ok {
		t.Error("Get against unreachable backend must report a miss")
	}

	// Must not panic or return an error to the caller.
	m.Put(ctx, key, []byte(`[]`))

	if err := m.Ping(ctx); err == nil {
		t.Error("Ping against unreachable backend must fail")
	}

	// Degraded operations are counted, not surfaced.
	if got := promtestutil.ToFloat64(RedisFailures.WithLabelValues("get")); got != getFailures+1 {
		t.Errorf("get failure counter = %v, want %v", got, getFailures+1)
	}
	if got := promtestutil.ToFloat64(RedisFailures.WithLabelValues("put")); got != putFailures+1 {
		t.Errorf("put failure counter = %v, want %v", got, putFailures+1)
	}
}

func TestManager_NilClient(t *testing.T) {
	m := NewManager(nil, time.Minute)
	ctx := context.Background()
	key := Key{Page: 1, Limit: 10, SortBy: "id", SortOrder: "asc"}

	if _, ok := m.Get(ctx, key); ok {
		t.Error("Get with nil client must report a miss")
	}
	m.Put(ctx, key, []byte(`[]`))
	if err := m.Ping(ctx); err == nil {
		t.Error("Ping with nil client must fail")
	}
}
