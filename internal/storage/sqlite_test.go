package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/gofinances/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage creates a migrated database in a temp directory.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestSQLiteStorage_ItemLifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetItem(ctx, "@gofinances:missing")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SetItem(ctx, "@gofinances:a", "first"))
	value, err := store.GetItem(ctx, "@gofinances:a")
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	require.NoError(t, store.SetItem(ctx, "@gofinances:a", "second"))
	value, err = store.GetItem(ctx, "@gofinances:a")
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	require.NoError(t, store.RemoveItem(ctx, "@gofinances:a"))
	_, err = store.GetItem(ctx, "@gofinances:a")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Removing twice is fine.
	assert.NoError(t, store.RemoveItem(ctx, "@gofinances:a"))
}

func TestSQLiteStorage_Keys(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, key := range []string{
		"@gofinances:transactions_user:bob",
		"@gofinances:transactions_user:alice",
		"@gofinances:user",
		"other_prefix%",
	} {
		require.NoError(t, store.SetItem(ctx, key, "[]"))
	}

	keys, err := store.Keys(ctx, "@gofinances:transactions_user:")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"@gofinances:transactions_user:alice",
		"@gofinances:transactions_user:bob",
	}, keys)

	// LIKE wildcards in the prefix are literal.
	keys, err = store.Keys(ctx, "other_prefix%")
	require.NoError(t, err)
	assert.Equal(t, []string{"other_prefix%"}, keys)

	keys, err = store.Keys(ctx, "@gofinances:_ransactions")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetItem(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyString)

	err = store.SetItem(ctx, string(make([]byte, maxKeyLength+1)), "x")
	assert.ErrorIs(t, err, ErrInvalidKey)

	//nolint:staticcheck // testing nil context handling
	_, err = store.GetItem(nil, "key")
	assert.ErrorIs(t, err, ErrNilContext)

	_, err = NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.SetItem(ctx, "k", "v"))
	var createdAt *string
	require.NoError(t, store.db.QueryRow(`SELECT created_at FROM kv_store WHERE key = 'k'`).Scan(&createdAt))
	assert.NotNil(t, createdAt)
}

func TestMigrate_Persistent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "finances.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SetItem(ctx, "k", "v"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	value, err := reopened.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}
