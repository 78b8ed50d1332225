package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupManager_CreateListRestore(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := NewTransactionRepository(store, time.UTC)

	require.NoError(t, repo.Save(ctx, "alice", createTestTransactions(3)))

	bm, err := store.NewBackupManager()
	require.NoError(t, err)

	info, err := bm.Create(ctx, "before-cleanup", "manual snapshot")
	require.NoError(t, err)
	assert.Equal(t, "before-cleanup", info.ID)
	assert.Equal(t, 1, info.Keys)
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.Positive(t, info.FileSize)

	_, err = bm.Create(ctx, "before-cleanup", "again")
	assert.ErrorIs(t, err, ErrBackupExists)

	// Mutate the live store.
	_, err = repo.Delete(ctx, "alice", "txn-1")
	require.NoError(t, err)
	require.NoError(t, store.SetItem(ctx, "@gofinances:extra", "x"))

	require.NoError(t, bm.Restore(ctx, "before-cleanup"))

	got, _, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	keys, err := store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{TransactionsKey("alice")}, keys)

	list, err := bm.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "manual snapshot", list[0].Description)
}

func TestBackupManager_AutoPrunes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bm, err := store.NewBackupManager()
	require.NoError(t, err)

	for i := 0; i < maxAutoBackups+2; i++ {
		info, err := bm.Auto(ctx, "delete")
		require.NoError(t, err)
		assert.True(t, info.IsAuto)
		time.Sleep(2 * time.Millisecond)
	}

	list, err := bm.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, maxAutoBackups)
}

func TestBackupManager_InvalidIDs(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bm, err := store.NewBackupManager()
	require.NoError(t, err)

	for _, id := range []string{"../escape", "a/b", `a\b`, "it's", " "} {
		assert.ErrorIs(t, bm.Restore(ctx, id), ErrInvalidBackupID, id)
	}

	assert.ErrorIs(t, bm.Restore(ctx, "missing"), ErrBackupNotFound)
	assert.ErrorIs(t, bm.Delete(ctx, "missing"), ErrBackupNotFound)
}
