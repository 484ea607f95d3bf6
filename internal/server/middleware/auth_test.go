package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamhq/userdir/internal/auth"
)

type stubAuthenticator struct {
	user *auth.User
	err  error
}

func (s *stubAuthenticator) Authenticate(r *http.Request) (*auth.User, error) {
	return s.user, s.err
}

func (s *stubAuthenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func TestRequireAuth(t *testing.T) {
	t.Run("passes authenticated requests with identity attached", func(t *testing.T) {
		var gotUser *auth.User
		handler := RequireAuth(&stubAuthenticator{user: &auth.User{Username: "alice"}}, "userdir")(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = auth.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/users", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotUser)
		assert.Equal(t, "alice", gotUser.Username)
	})

	t.Run("rejects failed authentication with challenge", func(t *testing.T) {
		reached := false
		handler := RequireAuth(&stubAuthenticator{err: errors.New("nope")}, "userdir")(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="userdir"`, rec.Header().Get("WWW-Authenticate"))
		assert.False(t, reached, "handler must not run for unauthenticated requests")
	})
}
