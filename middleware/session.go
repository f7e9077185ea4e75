package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const SessionContextKey = contextKey("session")

// SessionCookieName is the browser cookie carrying the session id.
const SessionCookieName = "storefront_session"

// SessionMiddleware guarantees every request has a session id, issuing a
// new one via Set-Cookie when the browser sends none. The cart store keys
// on this id. Sessions are anonymous; auth is a separate concern.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		cookie, err := r.Cookie(SessionCookieName)
		if err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID extracts the session id attached by SessionMiddleware.
func SessionID(r *http.Request) (string, bool) {
	sessionID, ok := r.Context().Value(SessionContextKey).(string)
	return sessionID, ok && sessionID != ""
}
