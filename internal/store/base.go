package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/loamhq/userdir/internal/models"
)

// BaseStore provides shared in-memory CRUD operations for all storage
// backends. It handles locking, duplicate detection, and id assignment.
// Concrete backends (MemoryStore, FileStore, S3Store) embed this and
// provide their own persistence mechanisms.
//
// Every operation passes through a simulated-latency suspension point
// before touching the collection. The delay models asynchronous
// repository access; it honors context cancellation and is disabled by
// configuring a zero latency (the default for tests).
type BaseStore struct {
	mu      sync.RWMutex
	data    *models.Directory
	nextID  int64
	latency time.Duration
	logger  *slog.Logger
}

// NewBaseStore creates a new BaseStore with an empty directory
func NewBaseStore(latency time.Duration, logger *slog.Logger) *BaseStore {
	return &BaseStore{
		data:    models.NewDirectory(),
		nextID:  1,
		latency: latency,
		logger:  logger,
	}
}

// simulateLatency blocks for the configured artificial delay, or until
// the context is cancelled, whichever comes first.
func (b *BaseStore) simulateLatency(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(b.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetData replaces the in-memory directory (used by backends after loading)
func (b *BaseStore) SetData(data *models.Directory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
	b.nextID = nextIDLocked(data)
}

// GetData returns the current directory (used by backends for persistence)
func (b *BaseStore) GetData() *models.Directory {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data
}

// nextIDLocked computes the first identifier above every existing record
func nextIDLocked(data *models.Directory) int64 {
	var max int64
	for id := range data.Users {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// MarshalData serializes the directory to JSON.
// NOTE: Caller must NOT hold the lock - this method acquires its own lock.
// For use within locked contexts, use marshalDataLocked instead.
func (b *BaseStore) MarshalData() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.marshalDataLocked()
}

// marshalDataLocked serializes data without acquiring the lock.
// Caller MUST hold at least a read lock.
func (b *BaseStore) marshalDataLocked() ([]byte, error) {
	return json.MarshalIndent(b.data, "", "  ")
}

// UnmarshalData deserializes JSON data into the directory
func (b *BaseStore) UnmarshalData(jsonData []byte) error {
	var data models.Directory
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return err
	}
	if data.Users == nil {
		data.Users = make(map[int64]*models.User)
	}
	b.SetData(&data)
	return nil
}

// PersistFunc is a callback function that backends implement for
// persistence. It runs while the store holds the write lock; if it
// fails, the in-memory change is rolled back.
type PersistFunc func() error

// ValidateCredentials scans for the first record whose username and
// password both match exactly. Read-only; failed authentication is a
// normal outcome and surfaces as ErrNotFound.
func (b *BaseStore) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	if err := b.simulateLatency(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, u := range b.data.Users {
		if u.Username == username && u.Password == password {
			return u.Clone(), nil
		}
	}

	// Deliberately indistinguishable from an unknown username
	return nil, ErrNotFound
}

// ListUsers returns a snapshot copy of all users. Mutating the returned
// slice or its records must not affect the store, and vice versa.
func (b *BaseStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	if err := b.simulateLatency(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	users := make([]*models.User, 0, len(b.data.Users))
	for _, u := range b.data.Users {
		users = append(users, u.Clone())
	}

	return users, nil
}

// GetUser retrieves a user by id
func (b *BaseStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if err := b.simulateLatency(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	u, exists := b.data.Users[id]
	if !exists {
		return nil, ErrNotFound
	}

	return u.Clone(), nil
}

// CreateUser inserts a new user in memory. A zero id is replaced with
// the next free identifier; an explicit duplicate id is rejected and
// the existing record is left unmodified. The persist callback is
// called after the in-memory operation succeeds; if it fails, the
// change is rolled back.
func (b *BaseStore) CreateUser(ctx context.Context, u *models.User, persist PersistFunc) (*models.User, error) {
	if err := b.simulateLatency(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	stored := u.Clone()
	if stored.ID == 0 {
		stored.ID = b.nextID
	}

	if _, exists := b.data.Users[stored.ID]; exists {
		return nil, ErrAlreadyExists
	}

	b.data.Users[stored.ID] = stored
	if stored.ID >= b.nextID {
		b.nextID = stored.ID + 1
	}

	if persist != nil {
		if err := persist(); err != nil {
			// Rollback in-memory change
			delete(b.data.Users, stored.ID)
			b.logger.Error("Storage write failed",
				"operation", "create_user",
				"user_id", stored.ID,
				"error", err)
			return nil, ErrStorageUnavailable
		}
	}

	b.logger.Info("User created", "user_id", stored.ID, "username", stored.Username)
	return stored.Clone(), nil
}

// UpdateUser replaces the username and password of an existing record.
// The id is immutable once created. The persist callback is called
// after the in-memory operation succeeds.
func (b *BaseStore) UpdateUser(ctx context.Context, u *models.User, persist PersistFunc) (*models.User, error) {
	if err := b.simulateLatency(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	existing, exists := b.data.Users[u.ID]
	if !exists {
		return nil, ErrNotFound
	}

	updated := u.Clone()
	b.data.Users[u.ID] = updated

	if persist != nil {
		if err := persist(); err != nil {
			// Rollback
			b.data.Users[u.ID] = existing
			b.logger.Error("Storage write failed",
				"operation", "update_user",
				"user_id", u.ID,
				"error", err)
			return nil, ErrStorageUnavailable
		}
	}

	b.logger.Info("User updated", "user_id", u.ID, "username", updated.Username)
	return updated.Clone(), nil
}

// DeleteUser removes a user permanently. The persist callback is called
// after the in-memory operation succeeds.
func (b *BaseStore) DeleteUser(ctx context.Context, id int64, persist PersistFunc) error {
	if err := b.simulateLatency(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	existing, exists := b.data.Users[id]
	if !exists {
		return ErrNotFound
	}

	delete(b.data.Users, id)

	if persist != nil {
		if err := persist(); err != nil {
			// Rollback
			b.data.Users[id] = existing
			b.logger.Error("Storage write failed",
				"operation", "delete_user",
				"user_id", id,
				"error", err)
			return ErrStorageUnavailable
		}
	}

	b.logger.Info("User deleted", "user_id", id, "username", existing.Username)
	return nil
}

// Seed inserts the given users into an empty directory. Used by
// backends on first start. Explicit ids are kept; records without an
// id get sequential ones.
func (b *BaseStore) Seed(users []*models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, u := range users {
		stored := u.Clone()
		if stored.ID == 0 {
			stored.ID = b.nextID
		}
		b.data.Users[stored.ID] = stored
		if stored.ID >= b.nextID {
			b.nextID = stored.ID + 1
		}
	}
}

// Len reports the number of records currently held
func (b *BaseStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data.Users)
}
