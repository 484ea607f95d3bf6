package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamhq/userdir/internal/models"
)

func TestFileStoreSeedsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	fs, err := NewFileStore(path, models.DefaultSeed(), 0, testLogger())
	require.NoError(t, err)
	defer fs.Close()

	assert.Equal(t, 2, fs.Len())
	assert.FileExists(t, path)
}

func TestFileStorePersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	fs, err := NewFileStore(path, nil, 0, testLogger())
	require.NoError(t, err)

	created, err := fs.CreateUser(context.Background(), models.NewUser(0, "alice", "s3cret"))
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	// Reopen from the same file with a different seed; the seed must be
	// ignored because the snapshot already exists
	reopened, err := NewFileStore(path, models.DefaultSeed(), 0, testLogger())
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Len())

	u, err := reopened.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "s3cret", u.Password)
}

func TestFileStoreUpdateAndDeletePersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	fs, err := NewFileStore(path, []*models.User{
		models.NewUser(1, "alice", "a"),
		models.NewUser(2, "bob", "b"),
	}, 0, testLogger())
	require.NoError(t, err)

	_, err = fs.UpdateUser(context.Background(), models.NewUser(1, "alice", "rotated"))
	require.NoError(t, err)
	require.NoError(t, fs.DeleteUser(context.Background(), 2))
	require.NoError(t, fs.Close())

	reopened, err := NewFileStore(path, nil, 0, testLogger())
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Len())

	u, err := reopened.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "rotated", u.Password)
}

func TestFileStoreRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStore(path, nil, 0, testLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "users.json")

	fs, err := NewFileStore(path, nil, 0, testLogger())
	require.NoError(t, err)
	defer fs.Close()

	assert.FileExists(t, path)
}
