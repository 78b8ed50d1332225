package ofx

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/gofinances/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatement(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImporter_ParseFiles(t *testing.T) {
	dir := t.TempDir()
	bank := writeStatement(t, dir, "bank.ofx", sampleBankOFX)
	card := writeStatement(t, dir, "card.qfx", sampleCreditCardOFX)
	again := writeStatement(t, dir, "bank-copy.ofx", sampleBankOFX)

	importer := NewImporter(NewParser(Options{}, nil), testutil.SetupTestDB(t).Repo, nil)

	var mu sync.Mutex
	var done []string
	txns, err := importer.ParseFiles(context.Background(), []string{bank, card, again}, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		done = append(done, path)
	})
	require.NoError(t, err)

	assert.Len(t, done, 3)
	// The copy of the bank statement contributes nothing new.
	require.Len(t, txns, 5)
	assert.Equal(t, "ofx-20240305001", txns[0].ID)
	assert.Equal(t, "ofx-CC2024031001", txns[3].ID)
}

func TestImporter_ParseFilesFailure(t *testing.T) {
	dir := t.TempDir()
	bank := writeStatement(t, dir, "bank.ofx", sampleBankOFX)
	broken := writeStatement(t, dir, "broken.ofx", "garbage")

	importer := NewImporter(NewParser(Options{}, nil), testutil.SetupTestDB(t).Repo, nil)

	_, err := importer.ParseFiles(context.Background(), []string{bank, broken}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.ofx")

	_, err = importer.ParseFiles(context.Background(), []string{filepath.Join(dir, "missing.ofx")}, nil)
	assert.Error(t, err)
}

func TestImporter_ImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bank := writeStatement(t, dir, "bank.ofx", sampleBankOFX)

	repo := testutil.SetupTestDB(t).Repo
	importer := NewImporter(NewParser(Options{}, nil), repo, nil)

	txns, err := importer.ParseFiles(ctx, []string{bank}, nil)
	require.NoError(t, err)

	preview, err := importer.Import(ctx, "alice", txns, true)
	require.NoError(t, err)
	assert.Equal(t, Result{Parsed: 3, Added: 3}, preview)

	stored, _, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stored, "dry run must not write")

	first, err := importer.Import(ctx, "alice", txns, false)
	require.NoError(t, err)
	assert.Equal(t, Result{Parsed: 3, Added: 3}, first)

	second, err := importer.Import(ctx, "alice", txns, false)
	require.NoError(t, err)
	assert.Equal(t, Result{Parsed: 3, Duplicates: 3}, second)

	preview, err = importer.Import(ctx, "alice", txns, true)
	require.NoError(t, err)
	assert.Equal(t, Result{Parsed: 3, Duplicates: 3}, preview)
}
