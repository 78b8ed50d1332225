// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/model"
)

// KeyValueStore is the persistence boundary: opaque string values under
// namespaced string keys.
type KeyValueStore interface {
	// GetItem returns common.ErrNotFound when the key is absent.
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// TransactionStore loads and persists a user's transaction list.
type TransactionStore interface {
	// Load returns the valid transactions plus the records that failed to parse.
	Load(ctx context.Context, userID string) ([]model.Transaction, []model.SkippedRecord, error)
	Save(ctx context.Context, userID string, txns []model.Transaction) error
	// Append adds transactions whose IDs are not stored yet and reports how many were added.
	Append(ctx context.Context, userID string, txns ...model.Transaction) (int, error)
	// Delete removes a transaction by ID and reports whether it existed.
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// Categorizer picks a category for a transaction it recognizes.
type Categorizer interface {
	Categorize(txn model.Transaction) (string, bool)
}

// Report is everything an exporter needs for one month.
type Report struct {
	Summary      model.HighlightData
	Expenses     aggregate.Breakdown
	Income       aggregate.Breakdown
	Transactions []model.Transaction
	Period       model.Period
	UserID       string
}

// ReportWriter publishes a monthly report somewhere outside the app.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
