package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamhq/userdir/internal/models"
)

func TestCreateUserRollbackOnPersistFailure(t *testing.T) {
	b := NewBaseStore(0, testLogger())
	b.Seed([]*models.User{models.NewUser(1, "alice", "a")})

	failing := func() error { return assert.AnError }

	_, err := b.CreateUser(context.Background(), models.NewUser(0, "bob", "b"), failing)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 1, b.Len(), "failed create must not leave a record behind")
}

func TestUpdateUserRollbackOnPersistFailure(t *testing.T) {
	b := NewBaseStore(0, testLogger())
	b.Seed([]*models.User{models.NewUser(1, "alice", "old")})

	failing := func() error { return assert.AnError }

	_, err := b.UpdateUser(context.Background(), models.NewUser(1, "alice", "new"), failing)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	u, err := b.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "old", u.Password, "failed update must restore the previous record")
}

func TestDeleteUserRollbackOnPersistFailure(t *testing.T) {
	b := NewBaseStore(0, testLogger())
	b.Seed([]*models.User{models.NewUser(1, "alice", "a")})

	failing := func() error { return assert.AnError }

	err := b.DeleteUser(context.Background(), 1, failing)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	u, err := b.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username, "failed delete must restore the record")
}

func TestPersistCallbackRunsAfterMutation(t *testing.T) {
	b := NewBaseStore(0, testLogger())

	var persisted int
	persist := func() error {
		persisted++
		return nil
	}

	_, err := b.CreateUser(context.Background(), models.NewUser(0, "alice", "a"), persist)
	require.NoError(t, err)

	_, err = b.UpdateUser(context.Background(), models.NewUser(1, "alice", "b"), persist)
	require.NoError(t, err)

	err = b.DeleteUser(context.Background(), 1, persist)
	require.NoError(t, err)

	assert.Equal(t, 3, persisted)
}

func TestSeedSequentialIDs(t *testing.T) {
	b := NewBaseStore(0, testLogger())
	b.Seed([]*models.User{
		models.NewUser(0, "alice", "a"),
		models.NewUser(0, "bob", "b"),
		models.NewUser(9, "carol", "c"),
	})

	assert.Equal(t, 3, b.Len())

	u, err := b.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u, err = b.GetUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)

	// Next auto-assigned id continues above the highest seeded one
	created, err := b.CreateUser(context.Background(), models.NewUser(0, "dave", "d"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	b := NewBaseStore(0, testLogger())
	b.Seed([]*models.User{
		models.NewUser(1, "alice", "a"),
		models.NewUser(2, "bob", "b"),
	})

	data, err := b.MarshalData()
	require.NoError(t, err)

	restored := NewBaseStore(0, testLogger())
	require.NoError(t, restored.UnmarshalData(data))

	assert.Equal(t, 2, restored.Len())

	u, err := restored.GetUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	// Restored store keeps assigning ids above the loaded records
	created, err := restored.CreateUser(context.Background(), models.NewUser(0, "carol", "c"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
}
