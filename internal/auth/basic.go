package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/loamhq/userdir/internal/store"
)

// BasicAuth implements HTTP Basic Authentication backed by the user
// store. The Authorization header must carry "Basic <base64>" where the
// payload decodes to "username:password"; a missing header, a different
// scheme token, broken base64 or a missing colon all fail identically,
// exactly like a wrong password.
type BasicAuth struct {
	store   store.Store
	realm   string
	metrics Metrics
	logger  *slog.Logger
}

// NewBasicAuth creates a new BasicAuth authenticator validating against
// the given store. metrics may be nil.
func NewBasicAuth(s store.Store, realm string, metrics Metrics, logger *slog.Logger) *BasicAuth {
	return &BasicAuth{
		store:   s,
		realm:   realm,
		metrics: metrics,
		logger:  logger,
	}
}

func (a *BasicAuth) countValidation() {
	if a.metrics != nil {
		a.metrics.IncrementValidations()
	}
}

func (a *BasicAuth) countFailure() {
	if a.metrics != nil {
		a.metrics.IncrementAuthFailures()
	}
}

// Authenticate validates HTTP Basic Auth credentials against the store
func (a *BasicAuth) Authenticate(r *http.Request) (*User, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		// Absent or undecodable header; same outcome as bad credentials
		a.countFailure()
		return nil, fmt.Errorf("missing basic auth credentials")
	}

	a.countValidation()
	u, err := a.store.ValidateCredentials(r.Context(), username, password)
	if err != nil {
		a.countFailure()
		if errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("Authentication failed",
				"username", username,
				"source_ip", r.RemoteAddr)
			return nil, fmt.Errorf("invalid credentials")
		}
		a.logger.Error("Credential validation failed",
			"error", err,
			"source_ip", r.RemoteAddr)
		return nil, fmt.Errorf("credential validation unavailable: %w", err)
	}

	a.logger.Debug("Authentication successful",
		"username", u.Username,
		"source_ip", r.RemoteAddr)

	return &User{Username: u.Username}, nil
}

// Middleware returns HTTP Basic Auth middleware. On success the
// identity is attached to the request context; on failure the request
// is answered with a challenge and never reaches the next handler.
func (a *BasicAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.Authenticate(r)
			if err != nil {
				Challenge(w, a.realm)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
