package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey struct{}

var sessionKey contextKey

// FromContext returns the session stored by RequireUser.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// WithSession is used by handler tests to inject a session directly.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// RequireUser rejects requests without a valid bearer token. The client
// treats 401 as its cue to redirect to the login page.
func (m *Manager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		session, err := m.Parse(tokenString)
		if err != nil {
			log.Warn().Err(err).Msg("auth: rejected bearer token")
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAdmin gates the admin catalog endpoints on the role flag. It must
// run after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !session.IsAdmin() {
			log.Warn().Stringer("user_id", session.UserID).Msg("auth: unauthorized admin access attempt")
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
