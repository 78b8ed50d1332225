package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
// The string values match the persisted wire format.
type TransactionType string

const (
	// TypeIncome is money received (an "entrada").
	TypeIncome TransactionType = "positive"
	// TypeExpense is money spent (a "saída").
	TypeExpense TransactionType = "negative"
)

// Validation errors for transactions.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidType        = errors.New("invalid transaction type")
)

// ParseTransactionType accepts both the wire values and the friendly names
// used on the command line.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "income", "entrada", "up":
		return TypeIncome, nil
	case "negative", "expense", "saida", "saída", "down":
		return TypeExpense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the friendly name of the type.
func (t TransactionType) Label() string {
	switch t {
	case TypeIncome:
		return "income"
	case TypeExpense:
		return "expense"
	default:
		return string(t)
	}
}

// Toggle flips between income and expense.
func (t TransactionType) Toggle() TransactionType {
	if t == TypeIncome {
		return TypeExpense
	}
	return TypeIncome
}

// Transaction is a single recorded income or expense.
// Amount is always a magnitude; Type decides the sign of its contribution.
type Transaction struct {
	Date     time.Time
	Amount   decimal.Decimal
	ID       string
	Name     string
	Category string // Taxonomy key
	Type     TransactionType
}

// NewTransaction creates a transaction with a fresh random ID.
func NewTransaction(name string, amount decimal.Decimal, txnType TransactionType, category string, date time.Time) Transaction {
	return Transaction{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Amount:   amount,
		Type:     txnType,
		Category: category,
		Date:     date,
	}
}

// Validate checks the structural invariants of a transaction.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTransaction)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidTransaction, ErrInvalidType, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidTransaction, t.Amount.String())
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// Signed returns the amount with the sign implied by the type.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
