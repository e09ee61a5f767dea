package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitEnforcesBurst(t *testing.T) {
	h := RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), 1, 2)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/visitor/get-visitors", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("statuses = %v, first two should pass the burst", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third status = %d, want 429", statuses[2])
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	h := RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), 1, 1)

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, each client has its own bucket", addr, rec.Code)
		}
	}
}

func TestLimiterPoolReapsStaleBuckets(t *testing.T) {
	pool := newLimiterPool(1, 1)
	start := time.Now()

	pool.get("10.0.0.1", start)
	pool.get("10.0.0.2", start)
	if len(pool.buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(pool.buckets))
	}

	// keep one client active past the TTL window, the other goes stale
	pool.get("10.0.0.1", start.Add(limiterTTL))
	pool.get("10.0.0.3", start.Add(limiterTTL+limiterReapInterval+time.Second))

	if _, ok := pool.buckets["10.0.0.2"]; ok {
		t.Fatal("stale bucket survived the reap")
	}
	if _, ok := pool.buckets["10.0.0.1"]; !ok {
		t.Fatal("active bucket was reaped")
	}
	if len(pool.buckets) != 2 {
		t.Fatalf("buckets = %d, want the active and new clients only", len(pool.buckets))
	}
}
