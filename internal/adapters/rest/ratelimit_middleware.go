package rest

import (
	"net/http"
	"sync"
	"time"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/port"

	"golang.org/x/time/rate"
)

// RateLimitConfig - N запросов за Interval на одну сессию
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

type sessionLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SessionRateLimiter ограничивает частоту запросов token bucket'ом на каждую сессию
type SessionRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*sessionLimiter
	every    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

func NewSessionRateLimiter(cfg RateLimitConfig) *SessionRateLimiter {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return nil
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	return &SessionRateLimiter{
		limiters: make(map[string]*sessionLimiter),
		every:    rate.Every(perRequest),
		burst:    cfg.Requests,
		idleTTL:  2 * cfg.Interval,
		now:      time.Now,
	}
}

func (l *SessionRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.collect(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &sessionLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// collect удаляет лимитеры давно неактивных сессий; вызывается под l.mu
func (l *SessionRateLimiter) collect(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastGC = now
}

// Middleware пропускает все запросы, если лимитер не настроен
func (l *SessionRateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if sessionID, ok := contextkeys.SessionIDFromContext(r.Context()); ok {
			key = sessionID.String()
		}

		if !l.allow(key) {
			contextkeys.LoggerFromContext(r.Context()).Warn("Rate limit exceeded", port.Fields{"http_path": r.URL.Path})
			WriteJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
