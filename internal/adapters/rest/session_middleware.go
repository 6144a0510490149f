package rest

import (
	"net/http"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "rs_session"
	SessionHeader     = "X-Session-ID"
)

// SessionMiddleware определяет сессию браузера по cookie или заголовку X-Session-ID.
// Если сессии нет, создается новая. Cookie без Max-Age живет до закрытия браузера.
func SessionMiddleware(secureCookie bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessionFromRequest(r)
			if !ok {
				sessionID = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID.String(),
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, sessionID.String())

			ctx := contextkeys.ContextWithSessionID(r.Context(), sessionID)
			logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
				"session_id": sessionID.String(),
			})
			ctx = contextkeys.ContextWithLogger(ctx, logger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request) (uuid.UUID, bool) {
	if header := r.Header.Get(SessionHeader); header != "" {
		if id, err := uuid.Parse(header); err == nil {
			return id, true
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
