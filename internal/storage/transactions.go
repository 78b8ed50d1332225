package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
)

// TransactionsKeyPrefix namespaces every user's transaction list.
const TransactionsKeyPrefix = "@gofinances:transactions_user:"

// TransactionsKey returns the store key holding userID's transactions.
func TransactionsKey(userID string) string {
	return TransactionsKeyPrefix + userID
}

// TransactionRepository keeps a user's transactions as one serialized list in
// a key-value store. Read-modify-write cycles are serialized per repository.
type TransactionRepository struct {
	store    service.KeyValueStore
	location *time.Location
	mu       sync.Mutex
}

// NewTransactionRepository wraps store. Loaded dates are converted to loc,
// which decides calendar-month boundaries; nil keeps the stored offset.
func NewTransactionRepository(store service.KeyValueStore, loc *time.Location) *TransactionRepository {
	return &TransactionRepository{
		store:    store,
		location: loc,
	}
}

// Load returns the user's valid transactions and the records it had to skip.
// A user with nothing stored yet gets an empty list.
func (r *TransactionRepository) Load(ctx context.Context, userID string) ([]model.Transaction, []model.SkippedRecord, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, nil, err
	}

	d, err := r.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return d.transactions, d.skipped, nil
}

// Save replaces the user's stored list with txns.
func (r *TransactionRepository) Save(ctx context.Context, userID string, txns []model.Transaction) error {
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save(ctx, userID, txns, decoded{})
}

// Append adds the transactions whose IDs are not stored yet.
func (r *TransactionRepository) Append(ctx context.Context, userID string, txns ...model.Transaction) (int, error) {
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateTransactions(txns); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]struct{}, len(current.transactions)+len(current.skipped))
	for _, tx := range current.transactions {
		existing[tx.ID] = struct{}{}
	}
	for _, s := range current.skipped {
		if s.ID != "" {
			existing[s.ID] = struct{}{}
		}
	}

	merged := current.transactions
	added := 0
	for _, tx := range txns {
		if _, ok := existing[tx.ID]; ok {
			slog.Debug("Skipping transaction already stored", "transaction_id", tx.ID)
			continue
		}
		merged = append(merged, tx)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if err := r.save(ctx, userID, merged, current); err != nil {
		return 0, err
	}
	return added, nil
}

// Delete removes the transaction with the given ID.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	if err := validateString(userID, "userID"); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx, userID)
	if err != nil {
		return false, err
	}

	remaining := aggregate.DeleteTransaction(current.transactions, id)
	if len(remaining) == len(current.transactions) {
		return false, nil
	}

	if err := r.save(ctx, userID, remaining, current); err != nil {
		return false, err
	}
	return true, nil
}

// Users lists the user IDs that have a stored transaction list.
func (r *TransactionRepository) Users(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, TransactionsKeyPrefix)
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, strings.TrimPrefix(k, TransactionsKeyPrefix))
	}
	return users, nil
}

func (r *TransactionRepository) load(ctx context.Context, userID string) (decoded, error) {
	value, err := r.store.GetItem(ctx, TransactionsKey(userID))
	if errors.Is(err, common.ErrNotFound) {
		return decoded{}, nil
	}
	if err != nil {
		return decoded{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	d, err := decodeDocument([]byte(value), r.location)
	if err != nil {
		return decoded{}, fmt.Errorf("failed to load transactions for %s: %w", userID, err)
	}

	for _, s := range d.skipped {
		slog.Warn("Skipping unreadable transaction record",
			"user_id", userID,
			"index", s.Index,
			"transaction_id", s.ID,
			"reason", s.Reason)
	}

	return d, nil
}

// save writes txns, keeping any unreadable records from previous so they are
// not silently dropped by a rewrite.
func (r *TransactionRepository) save(ctx context.Context, userID string, txns []model.Transaction, previous decoded) error {
	if err := validateTransactions(txns); err != nil {
		return err
	}

	data, err := encodeDocument(txns, previous.raw)
	if err != nil {
		return err
	}

	if err := r.store.SetItem(ctx, TransactionsKey(userID), string(data)); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}
