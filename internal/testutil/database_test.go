package testutil

import (
	"testing"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_SeedAndLoad(t *testing.T) {
	db := SetupTestDB(t)
	db.Seed("alice", MarchScenario()...)

	txns := db.MustLoad("alice")
	require.Len(t, txns, 4)
	assert.Equal(t, "Mercado", txns[0].Name)
	assert.Empty(t, db.MustLoad("bob"))
}

func TestTxn(t *testing.T) {
	tx := Txn("x", "Uber", "12.50", model.TypeExpense, "transport", "2024-02-29")
	require.NoError(t, tx.Validate())
	assert.Equal(t, 29, tx.Date.Day())
	assert.Equal(t, 12, tx.Date.Hour())
}
