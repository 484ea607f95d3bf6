package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamhq/userdir/internal/auth"
)

// mockAuthenticator returns a fixed identity or error
type mockAuthenticator struct {
	user *auth.User
	err  error
}

func (m *mockAuthenticator) Authenticate(r *http.Request) (*auth.User, error) {
	return m.user, m.err
}

func (m *mockAuthenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func TestGetWhoami(t *testing.T) {
	tests := []struct {
		name         string
		authUser     *auth.User
		authErr      error
		wantStatus   int
		wantUsername string
	}{
		{
			name:         "authenticated user",
			authUser:     &auth.User{Username: "alice"},
			wantStatus:   http.StatusOK,
			wantUsername: "alice",
		},
		{
			name:       "authentication failure",
			authErr:    errors.New("invalid credentials"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWhoamiHandler(&mockAuthenticator{user: tt.authUser, err: tt.authErr}, "userdir", testLogger())

			req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
			rec := httptest.NewRecorder()
			h.GetWhoami(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var resp WhoamiResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantUsername, resp.Username)
			} else {
				assert.Equal(t, `Basic realm="userdir"`, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestGetWhoamiUsesContextIdentity(t *testing.T) {
	// When RequireAuth already ran, the handler must not re-authenticate
	h := NewWhoamiHandler(&mockAuthenticator{err: errors.New("should not be called")}, "userdir", testLogger())

	req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &auth.User{Username: "bob"}))
	rec := httptest.NewRecorder()
	h.GetWhoami(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp WhoamiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bob", resp.Username)
}
