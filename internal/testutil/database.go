// Package testutil provides a throwaway database and transaction fixtures for
// tests outside the storage package.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB is a migrated database in a temporary directory.
type TestDB struct {
	Store *storage.SQLiteStorage
	Repo  *storage.TransactionRepository
	t     *testing.T
}

// SetupTestDB creates a migrated database whose transaction dates are read
// in UTC. It is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{
		Store: store,
		Repo:  storage.NewTransactionRepository(store, time.UTC),
		t:     t,
	}
}

// Seed stores txns as the user's whole list.
func (db *TestDB) Seed(userID string, txns ...model.Transaction) {
	db.t.Helper()
	if err := db.Repo.Save(context.Background(), userID, txns); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// MustLoad returns the user's readable transactions.
func (db *TestDB) MustLoad(userID string) []model.Transaction {
	db.t.Helper()
	txns, _, err := db.Repo.Load(context.Background(), userID)
	if err != nil {
		db.t.Fatalf("failed to load transactions: %v", err)
	}
	return txns
}

// Txn builds a valid transaction dated at noon UTC on date (YYYY-MM-DD).
func Txn(id, name, amount string, t model.TransactionType, category, date string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		ID:       id,
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Type:     t,
		Category: category,
		Date:     d.Add(12 * time.Hour),
	}
}

// MarchScenario is a small month with two expense categories and one income:
// food 150, transport 30 and salary 200, all in March 2024.
func MarchScenario() []model.Transaction {
	return []model.Transaction{
		Txn("a", "Mercado", "100", model.TypeExpense, "food", "2024-03-05"),
		Txn("b", "Feira", "50", model.TypeExpense, "food", "2024-03-20"),
		Txn("c", "Ônibus", "30", model.TypeExpense, "transport", "2024-03-10"),
		Txn("d", "Salário", "200", model.TypeIncome, "salary", "2024-03-01"),
	}
}
