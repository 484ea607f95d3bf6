package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamhq/userdir/internal/models"
)

func TestNewStoreDispatchesByScheme(t *testing.T) {
	uri, err := ParseStorageURI("mem://")
	require.NoError(t, err)

	s, err := NewStore(uri, "", models.DefaultSeed(), 0, testLogger())
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*MemoryStore)
	assert.True(t, ok)
}

func TestNewStoreFileScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	uri, err := ParseStorageURI("file://" + path)
	require.NoError(t, err)

	s, err := NewStore(uri, "", nil, 0, testLogger())
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*FileStore)
	assert.True(t, ok)
	assert.FileExists(t, path)
}

func TestNewStoreUnknownScheme(t *testing.T) {
	_, err := NewStore(&StorageURI{Scheme: "gopher"}, "", nil, 0, testLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage scheme")
}
