package server

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamhq/userdir/internal/auth"
	"github.com/loamhq/userdir/internal/config"
	"github.com/loamhq/userdir/internal/models"
	"github.com/loamhq/userdir/internal/server/handlers"
	"github.com/loamhq/userdir/internal/store"
)

// newTestServer wires a full router with memory store and basic auth,
// the same way the server command does.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080, Host: "127.0.0.1"},
		Storage: config.StorageConfig{URI: "mem://"},
		Auth:    config.AuthConfig{Type: "basic", Realm: "userdir"},
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
	}

	s := store.NewMemoryStore(models.DefaultSeed(), 0, logger)
	metricsHandler := handlers.NewMetricsHandler(logger)
	authenticator := auth.NewBasicAuth(s, cfg.Auth.Realm, metricsHandler, logger)

	srv := NewServer(cfg, logger, s, authenticator)
	srv.SetMetrics(metricsHandler)

	healthHandler := handlers.NewHealthHandler(s, logger)
	whoamiHandler := handlers.NewWhoamiHandler(authenticator, cfg.Auth.Realm, logger)
	userHandler := handlers.NewUserHandler(s, metricsHandler, logger)

	srv.SetHandlers(HandlerSet{
		Health:     healthHandler.GetHealth,
		Metrics:    metricsHandler.GetMetrics,
		Whoami:     whoamiHandler.GetWhoami,
		ListUsers:  userHandler.ListUsers,
		CreateUser: userHandler.CreateUser,
		GetUser:    userHandler.GetUser,
		UpdateUser: userHandler.UpdateUser,
		DeleteUser: userHandler.DeleteUser,
	})

	return srv.setupRouter()
}

func adminAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:admin"))
}

func TestRouterUnauthenticatedAccess(t *testing.T) {
	router := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health is public", method: "GET", path: "/api/v1/health", wantStatus: http.StatusOK},
		{name: "metrics is public", method: "GET", path: "/api/v1/metrics", wantStatus: http.StatusOK},
		{name: "whoami challenges", method: "GET", path: "/api/v1/whoami", wantStatus: http.StatusUnauthorized},
		{name: "user list challenges", method: "GET", path: "/api/v1/users", wantStatus: http.StatusUnauthorized},
		{name: "user get challenges", method: "GET", path: "/api/v1/users/1", wantStatus: http.StatusUnauthorized},
		{name: "user delete challenges", method: "DELETE", path: "/api/v1/users/1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="userdir"`, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRouterAuthenticatedFlow(t *testing.T) {
	router := newTestServer(t)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.Header.Set("Authorization", adminAuth())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// whoami reports the authenticated identity
	rec := do("GET", "/api/v1/whoami", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var who struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &who))
	assert.Equal(t, "admin", who.Username)

	// create
	rec = do("POST", "/api/v1/users", `{"username":"carol","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(3), created.ID)

	// read back
	rec = do("GET", "/api/v1/users/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// update
	rec = do("PUT", "/api/v1/users/3", `{"username":"carol","password":"rotated"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// delete
	rec = do("DELETE", "/api/v1/users/3", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do("GET", "/api/v1/users/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterReportsAuthMetrics(t *testing.T) {
	router := newTestServer(t)

	// One failed and one successful authentication
	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:wrong")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/api/v1/whoami", nil)
	req.Header.Set("Authorization", adminAuth())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics handlers.MetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))

	// Both auth attempts plus the metrics read itself
	assert.Equal(t, uint64(3), metrics.Total)
	assert.Equal(t, uint64(2), metrics.ByType["credential_validations"])
	assert.Equal(t, uint64(1), metrics.ByStatus["auth_failures"])
}
