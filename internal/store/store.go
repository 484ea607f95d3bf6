package store

import (
	"context"
	"errors"

	"github.com/loamhq/userdir/internal/models"
)

var (
	// ErrNotFound is returned when no matching record exists. For
	// ValidateCredentials this is the normal failed-authentication
	// outcome, not an exceptional condition.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists is returned when attempting to create a user
	// with an id that is already taken
	ErrAlreadyExists = errors.New("user already exists")

	// ErrStorageUnavailable is returned when the persistence backend fails
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store defines the interface for user directory operations.
// All operations accept a context because every backend models
// repository access as a potentially suspending call, even when the
// underlying work is in-memory.
type Store interface {
	// ValidateCredentials returns the first user whose username and
	// password both match exactly (case-sensitive). Returns ErrNotFound
	// when no record matches; callers must not be able to distinguish
	// an unknown username from a wrong password.
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)

	// ListUsers returns a snapshot copy of all users, decoupled from
	// later mutation of the store
	ListUsers(ctx context.Context) ([]*models.User, error)

	// GetUser returns the user with the given id, or ErrNotFound
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// CreateUser inserts a new user. When u.ID is zero the store assigns
	// the next identifier; an explicit id is rejected with
	// ErrAlreadyExists if already taken.
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)

	// UpdateUser replaces the username and password of an existing
	// record. The id itself is immutable. Returns ErrNotFound when no
	// record has the given id.
	UpdateUser(ctx context.Context, u *models.User) (*models.User, error)

	// DeleteUser removes the user with the given id, or returns ErrNotFound
	DeleteUser(ctx context.Context, id int64) error

	// Close closes the storage
	Close() error
}
