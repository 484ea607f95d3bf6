package auth

import (
	"context"
	"fmt"
	"net/http"
)

// User is the identity context attached to a request after successful
// validation
type User struct {
	Username string
}

// Authenticator defines the authentication interface
type Authenticator interface {
	// Authenticate validates request credentials and returns the identity
	Authenticate(r *http.Request) (*User, error)

	// Middleware returns HTTP middleware for the auth method
	Middleware() func(http.Handler) http.Handler
}

// Metrics is the subset of the metrics surface authentication reports
// into. A nil Metrics disables reporting.
type Metrics interface {
	IncrementValidations()
	IncrementAuthFailures()
}

// Challenge answers a request with 401 and a challenge advertising the
// expected scheme and realm.
func Challenge(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

type contextKey struct{}

// WithUser returns a context carrying the authenticated identity
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext extracts the authenticated identity from the context.
// Returns nil when the request was not authenticated.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(contextKey{}).(*User)
	return u
}
