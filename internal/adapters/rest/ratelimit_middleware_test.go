package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-search-service/internal/contextkeys"

	"github.com/google/uuid"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func newLimiterWithClock(t *testing.T, cfg RateLimitConfig) (*SessionRateLimiter, *manualClock) {
	t.Helper()
	l := NewSessionRateLimiter(cfg)
	if l == nil {
		t.Fatalf("expected limiter for %+v", cfg)
	}
	clock := &manualClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	return l, clock
}

func TestSessionRateLimiter_PerSessionBudget(t *testing.T) {
	l, clock := newLimiterWithClock(t, RateLimitConfig{Requests: 3, Interval: time.Minute})

	for i := 0; i < 3; i++ {
		if !l.allow("session-a") {
			t.Fatalf("request %d must be allowed", i+1)
		}
	}
	if l.allow("session-a") {
		t.Fatalf("fourth request within the interval must be rejected")
	}
	if !l.allow("session-b") {
		t.Fatalf("another session has its own budget")
	}

	// токен восстанавливается за Interval/Requests
	clock.now = clock.now.Add(20 * time.Second)
	if !l.allow("session-a") {
		t.Fatalf("expected a refilled token")
	}
}

func TestSessionRateLimiter_CollectsIdleSessions(t *testing.T) {
	l, clock := newLimiterWithClock(t, RateLimitConfig{Requests: 1, Interval: time.Minute})

	l.allow("idle")
	clock.now = clock.now.Add(90 * time.Second)
	l.allow("active")

	clock.now = clock.now.Add(60 * time.Second)
	l.allow("active")

	if _, ok := l.limiters["idle"]; ok {
		t.Fatalf("idle limiter must be collected")
	}
	if _, ok := l.limiters["active"]; !ok {
		t.Fatalf("active limiter must be kept")
	}
}

func TestSessionRateLimiter_Middleware(t *testing.T) {
	l, _ := newLimiterWithClock(t, RateLimitConfig{Requests: 2, Interval: time.Hour})
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(sessionID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/x/inquiries", nil)
		req = req.WithContext(contextkeys.ContextWithSessionID(req.Context(), sessionID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	first, second := uuid.New(), uuid.New()
	for i := 0; i < 2; i++ {
		if code := send(first); code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, code)
		}
	}
	if code := send(first); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := send(second); code != http.StatusCreated {
		t.Fatalf("other session must not be limited, got %d", code)
	}
}

func TestSessionRateLimiter_Disabled(t *testing.T) {
	if l := NewSessionRateLimiter(RateLimitConfig{}); l != nil {
		t.Fatalf("expected nil limiter for empty config")
	}

	var l *SessionRateLimiter
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	l.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("nil limiter must pass requests through, got %d", rec.Code)
	}
}
