package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/themizzi/swaglabs/internal/services"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session-token"

type contextKey struct{}

// WithUsername returns a copy of ctx carrying the authenticated username
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKey{}, username)
}

// UsernameFromContext returns the authenticated username set by RequireSession
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(contextKey{}).(string)
	return username, ok && username != ""
}

// RequireSession wraps a handler so it only runs for logged-in users.
// Anonymous requests are sent back to the login page.
func RequireSession(auth services.AuthService, logger *zap.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err == nil {
			username, err := auth.SessionUser(cookie.Value)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
				return
			}
		}

		logger.Debug("Rejected anonymous request", zap.String("path", r.URL.Path))
		http.Redirect(w, r, "/?denied="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
	})
}

// setSessionCookie stores the session token in the browser
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
