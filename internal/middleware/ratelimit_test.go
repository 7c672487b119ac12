package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 is allowed, the third request is rejected.
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Errorf("first request = %d", code)
	}
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Errorf("second request = %d", code)
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}

	// A different client has its own budget.
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client = %d", code)
	}
}

func TestLimiterCacheReusesLimiter(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	if lc.get("a") != lc.get("a") {
		t.Error("same key must return the same limiter")
	}
	if lc.get("a") == lc.get("b") {
		t.Error("different keys must not share a limiter")
	}
}
