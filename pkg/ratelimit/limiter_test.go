package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_WithinBurst(t *testing.T) {
	l := New(600) // burst 60

	for i := 0; i < 10; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("Request %d rejected inside burst budget", i)
		}
	}
}

func TestAllow_ExceedingBudgetRejected(t *testing.T) {
	l := New(60) // 1 req/s, burst 6

	allowed := 0
	for i := 0; i < 20; i++ {
		if l.Allow("10.0.0.1") {
			allowed++
		}
	}

	if allowed >= 20 {
		t.Error("Expected some requests to be rejected past the burst budget")
	}
	if allowed == 0 {
		t.Error("Expected the burst budget to allow initial requests")
	}
}

func TestAllow_ClientsIsolated(t *testing.T) {
	l := New(60)

	// Exhaust one client's budget.
	for i := 0; i < 20; i++ {
		l.Allow("10.0.0.1")
	}

	if !l.Allow("10.0.0.2") {
		t.Error("Second client must not be affected by first client's budget")
	}
}

func TestNew_DefaultsOnInvalidRPM(t *testing.T) {
	l := New(0)
	if !l.Allow("10.0.0.1") {
		t.Error("Default limiter must allow an initial request")
	}
}

func TestSweep_EvictsIdleClients(t *testing.T) {
	l := New(60)

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	l.Allow("10.0.0.3")

	// Backdate two clients past the idle TTL, keep one fresh.
	l.mu.Lock()
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * idleTTL)
	l.clients["10.0.0.2"].lastSeen = time.Now().Add(-2 * idleTTL)
	l.sweepLocked(time.Now())
	remaining := len(l.clients)
	_, fresh := l.clients["10.0.0.3"]
	l.mu.Unlock()

	if remaining != 1 {
		t.Errorf("Expected 1 bucket after sweep, got %d", remaining)
	}
	if !fresh {
		t.Error("Active client must survive the sweep")
	}
}

func TestSweep_TriggeredByAllow(t *testing.T) {
	l := New(60)

	l.Allow("10.0.0.1")

	// Push both the bucket and the sweep clock past the TTL: the next
	// Allow from any client must trigger the sweep.
	l.mu.Lock()
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * idleTTL)
	l.lastSweep = time.Now().Add(-2 * idleTTL)
	l.mu.Unlock()

	l.Allow("10.0.0.2")

	l.mu.Lock()
	_, stale := l.clients["10.0.0.1"]
	size := len(l.clients)
	l.mu.Unlock()

	if stale {
		t.Error("Idle bucket must be evicted on the next request")
	}
	if size != 1 {
		t.Errorf("Expected only the requesting client's bucket, got %d", size)
	}
}
