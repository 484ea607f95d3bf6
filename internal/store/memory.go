package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/loamhq/userdir/internal/models"
)

// MemoryStore implements Store with no persistence at all. Records
// vanish when the process ends. This is the demo backing collection;
// it is also the test double for everything that consumes Store.
type MemoryStore struct {
	*BaseStore
}

// NewMemoryStore creates an in-memory store seeded with the given
// starter accounts. Pass nil to start empty.
func NewMemoryStore(seed []*models.User, latency time.Duration, logger *slog.Logger) *MemoryStore {
	ms := &MemoryStore{
		BaseStore: NewBaseStore(latency, logger),
	}
	if len(seed) > 0 {
		ms.Seed(seed)
	}

	logger.Info("Memory store initialized",
		"user_count", ms.Len(),
		"latency", latency.String())

	return ms
}

// CreateUser inserts a new user (no persistence)
func (ms *MemoryStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return ms.BaseStore.CreateUser(ctx, u, nil)
}

// UpdateUser updates an existing user (no persistence)
func (ms *MemoryStore) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return ms.BaseStore.UpdateUser(ctx, u, nil)
}

// DeleteUser removes a user (no persistence)
func (ms *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	return ms.BaseStore.DeleteUser(ctx, id, nil)
}

// Close closes the storage (no-op for memory storage)
func (ms *MemoryStore) Close() error {
	return nil
}
