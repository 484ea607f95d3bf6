package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/loamhq/userdir/internal/models"
)

// FileStore implements Store using a JSON snapshot on disk. It embeds
// BaseStore for the in-memory CRUD logic and persists the full
// directory after every mutation via persist().
type FileStore struct {
	*BaseStore
	filePath string
}

// NewFileStore creates a file-backed store. The seed is applied only
// when the snapshot file does not exist yet.
func NewFileStore(filePath string, seed []*models.User, latency time.Duration, logger *slog.Logger) (*FileStore, error) {
	fs := &FileStore{
		BaseStore: NewBaseStore(latency, logger),
		filePath:  filePath,
	}

	if err := fs.load(seed); err != nil {
		return nil, fmt.Errorf("failed to load storage: %w", err)
	}

	return fs, nil
}

// load reads the snapshot from disk or creates a freshly seeded one
func (fs *FileStore) load(seed []*models.User) error {
	if _, err := os.Stat(fs.filePath); os.IsNotExist(err) {
		fs.logger.Info("Snapshot file not found, creating seeded directory",
			"file_path", fs.filePath,
			"seed_count", len(seed))

		fs.Seed(seed)

		dir := filepath.Dir(fs.filePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}

		if err := fs.persist(); err != nil {
			return fmt.Errorf("failed to create snapshot file: %w", err)
		}

		return nil
	}

	fileData, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var data models.Directory
	if err := json.Unmarshal(fileData, &data); err != nil {
		return fmt.Errorf("failed to parse snapshot file (invalid JSON syntax): %w", err)
	}
	if data.Users == nil {
		data.Users = make(map[int64]*models.User)
	}

	fs.SetData(&data)
	fs.logger.Info("Snapshot file loaded",
		"file_path", fs.filePath,
		"user_count", fs.Len())

	return nil
}

// persist writes the directory to disk atomically (temp file + rename).
// NOTE: called from within BaseStore while the write lock is held, so
// it must use marshalDataLocked.
func (fs *FileStore) persist() error {
	jsonData, err := fs.marshalDataLocked()
	if err != nil {
		return fmt.Errorf("failed to marshal directory: %w", err)
	}

	dir := filepath.Dir(fs.filePath)
	tempFile, err := os.CreateTemp(dir, ".userdir-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure temp file cleanup on error
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tempFile = nil // Prevent deferred cleanup

	if err := os.Rename(tempPath, fs.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// CreateUser inserts a new user and persists the snapshot
func (fs *FileStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return fs.BaseStore.CreateUser(ctx, u, fs.persist)
}

// UpdateUser updates an existing user and persists the snapshot
func (fs *FileStore) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return fs.BaseStore.UpdateUser(ctx, u, fs.persist)
}

// DeleteUser removes a user and persists the snapshot
func (fs *FileStore) DeleteUser(ctx context.Context, id int64) error {
	return fs.BaseStore.DeleteUser(ctx, id, fs.persist)
}

// Close closes the storage (no-op for file storage)
func (fs *FileStore) Close() error {
	return nil
}
