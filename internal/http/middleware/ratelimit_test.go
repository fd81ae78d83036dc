package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitBySessionID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RateLimit(0.001, 2)

	do := func(session string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/booking/submit", nil)
		req = req.WithContext(WithSessionID(req.Context(), session))
		rec := httptest.NewRecorder()
		mw(handler).ServeHTTP(rec, req)
		return rec.Code
	}

	if do("s1") != http.StatusOK || do("s1") != http.StatusOK {
		t.Fatalf("expected the burst to pass")
	}
	if do("s1") != http.StatusTooManyRequests {
		t.Fatalf("expected the third request to be limited")
	}
	if do("s2") != http.StatusOK {
		t.Fatalf("another session must have its own bucket")
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("first request must pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("second request must be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("a different key must have its own bucket")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1000, 1)
	if !rl.Allow("k") {
		t.Fatalf("first request must pass")
	}
	time.Sleep(5 * time.Millisecond)
	if !rl.Allow("k") {
		t.Fatalf("expected the bucket to refill")
	}
}
