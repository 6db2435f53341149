package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

func TestLimitBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	var lastCode int
	blocked := false
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
		r.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		handler(w, r, nil)
		lastCode = w.Code
		if w.Code == http.StatusTooManyRequests {
			blocked = true
			break
		}
	}

	if !blocked {
		t.Fatalf("expected a 429 within the burst window, last code %d", lastCode)
	}
}

func TestLimitIsPerIP(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	// Exhaust one address.
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
		r.RemoteAddr = "203.0.113.8:1234"
		handler(httptest.NewRecorder(), r, nil)
	}

	// A different address still gets through.
	r := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	r.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("fresh IP should not be limited, got %d", w.Code)
	}
}

func TestSweepKeepsActiveVisitors(t *testing.T) {
	rl := NewRateLimiter()

	rl.getLimiter("203.0.113.10")
	rl.getLimiter("203.0.113.11")

	// Age one visitor past the idle TTL, leave the other fresh.
	rl.mu.Lock()
	rl.visitors["203.0.113.10"].lastSeen = time.Now().Add(-visitorIdleTTL - time.Minute)
	rl.mu.Unlock()

	rl.sweep(time.Now())

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["203.0.113.10"]; ok {
		t.Fatal("idle visitor should have been swept")
	}
	if _, ok := rl.visitors["203.0.113.11"]; !ok {
		t.Fatal("active visitor should survive the sweep")
	}
}

func TestGetLimiterRefreshesLastSeen(t *testing.T) {
	rl := NewRateLimiter()

	rl.getLimiter("203.0.113.12")
	rl.mu.Lock()
	rl.visitors["203.0.113.12"].lastSeen = time.Now().Add(-visitorIdleTTL - time.Minute)
	rl.mu.Unlock()

	// A request from the same address resets the idle clock, so the next
	// sweep keeps its bucket.
	rl.getLimiter("203.0.113.12")
	rl.sweep(time.Now())

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["203.0.113.12"]; !ok {
		t.Fatal("visitor seen just now should not be swept")
	}
}
