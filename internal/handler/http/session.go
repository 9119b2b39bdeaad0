package http

import (
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const sessionCookieName = "cart_session"

// WithSessionCookie guarantees every request carries a cart session id,
// minting a cookie on first contact. The id keys the in-memory cart; it is
// not an authentication credential.
// Values that do not parse as a UUID are discarded and replaced, so a client
// cannot seed arbitrary keys into the cart map.
func WithSessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if _, err := uuid.FromString(cookie.Value); err == nil {
				next.ServeHTTP(w, r)
				return
			}
			stripSessionCookie(r)
		}

		id, err := uuid.NewV4()
		if err != nil {
			log.Error().Err(err).Msg("Failed to generate session id")
			respondWithError(w, http.StatusInternalServerError, "Failed to start session")
			return
		}

		cookie := &http.Cookie{
			Name:     sessionCookieName,
			Value:    id.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		http.SetCookie(w, cookie)
		r.AddCookie(cookie)

		next.ServeHTTP(w, r)
	})
}

// stripSessionCookie removes the cart session cookie from the request so a
// freshly minted one is the only match for r.Cookie.
func stripSessionCookie(r *http.Request) {
	kept := make([]*http.Cookie, 0)
	for _, cookie := range r.Cookies() {
		if cookie.Name != sessionCookieName {
			kept = append(kept, cookie)
		}
	}
	r.Header.Del("Cookie")
	for _, cookie := range kept {
		r.AddCookie(cookie)
	}
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
