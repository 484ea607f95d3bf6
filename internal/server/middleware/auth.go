package middleware

import (
	"net/http"

	"github.com/loamhq/userdir/internal/auth"
)

// RequireAuth returns middleware that authenticates every request with
// the given authenticator. Unauthenticated requests are answered with a
// challenge naming the expected scheme and never reach downstream
// handlers as an authenticated principal.
func RequireAuth(authenticator auth.Authenticator, realm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r)
			if err != nil {
				auth.Challenge(w, realm)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
