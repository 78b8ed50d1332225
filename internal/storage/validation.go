// Package storage provides the data persistence layer for gofinances.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/gofinances/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidKey  = errors.New("invalid key")
)

const maxKeyLength = 512

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateKey ensures a store key is usable.
func validateKey(key string) error {
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLength)
	}
	return nil
}

// validateTransactions validates every transaction and rejects duplicate IDs.
func validateTransactions(transactions []model.Transaction) error {
	seen := make(map[string]struct{}, len(transactions))
	for i := range transactions {
		txn := &transactions[i]
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
		if _, dup := seen[txn.ID]; dup {
			return fmt.Errorf("transaction at index %d: %w: duplicate ID %s", i, model.ErrInvalidTransaction, txn.ID)
		}
		seen[txn.ID] = struct{}{}
	}
	return nil
}
