package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
)

// ErrCorruptData means a stored value is not a transaction list at all.
var ErrCorruptData = fmt.Errorf("corrupt stored data: %w", common.ErrDatabaseCorrupted)

// storedDateLayout mirrors what JavaScript's Date.toJSON produces.
const storedDateLayout = "2006-01-02T15:04:05.000Z07:00"

// transactionRecord is the persisted shape of a transaction.
// Amount is kept raw because older records store it as a number and newer
// ones as a string.
type transactionRecord struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

// decoded is the result of parsing a stored list. Records that failed to
// parse are kept verbatim in raw so a rewrite does not lose them.
type decoded struct {
	transactions []model.Transaction
	skipped      []model.SkippedRecord
	raw          []json.RawMessage
}

// DecodeTransactions parses a stored transaction list. Individual bad records
// are skipped and reported; only a payload that is not a JSON array fails.
// Dates are converted to loc when it is non-nil.
func DecodeTransactions(data []byte, loc *time.Location) ([]model.Transaction, []model.SkippedRecord, error) {
	d, err := decodeDocument(data, loc)
	if err != nil {
		return nil, nil, err
	}
	return d.transactions, d.skipped, nil
}

func decodeDocument(data []byte, loc *time.Location) (decoded, error) {
	var d decoded

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return d, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return d, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	d.transactions = make([]model.Transaction, 0, len(items))
	for i, item := range items {
		tx, id, err := decodeRecord(item, loc)
		if err != nil {
			d.skipped = append(d.skipped, model.SkippedRecord{
				Index:  i,
				ID:     id,
				Reason: err.Error(),
			})
			d.raw = append(d.raw, item)
			continue
		}
		d.transactions = append(d.transactions, tx)
	}

	return d, nil
}

func decodeRecord(item json.RawMessage, loc *time.Location) (model.Transaction, string, error) {
	var rec transactionRecord
	if err := json.Unmarshal(item, &rec); err != nil {
		return model.Transaction{}, "", fmt.Errorf("malformed record: %w", err)
	}

	amount, err := parseAmount(rec.Amount)
	if err != nil {
		return model.Transaction{}, rec.ID, err
	}

	date, err := parseDate(rec.Date)
	if err != nil {
		return model.Transaction{}, rec.ID, err
	}
	if loc != nil {
		date = date.In(loc)
	}

	txType, err := model.ParseTransactionType(rec.Type)
	if err != nil {
		return model.Transaction{}, rec.ID, err
	}

	tx := model.Transaction{
		ID:       rec.ID,
		Type:     txType,
		Name:     rec.Name,
		Amount:   amount,
		Category: rec.Category,
		Date:     date,
	}
	if err := tx.Validate(); err != nil {
		return model.Transaction{}, rec.ID, err
	}
	return tx, rec.ID, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, fmt.Errorf("%w: missing amount", model.ErrInvalidTransaction)
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, fmt.Errorf("%w: amount %s", model.ErrInvalidTransaction, raw)
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: non-numeric amount %q", model.ErrInvalidTransaction, text)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative amount %s", model.ErrInvalidTransaction, text)
	}
	return amount, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", model.ErrInvalidTransaction)
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", model.ErrInvalidTransaction, s)
}

// EncodeTransactions serializes transactions into the stored list format.
func EncodeTransactions(txns []model.Transaction) ([]byte, error) {
	return encodeDocument(txns, nil)
}

// encodeDocument writes txns followed by any preserved raw records.
func encodeDocument(txns []model.Transaction, preserved []json.RawMessage) ([]byte, error) {
	items := make([]json.RawMessage, 0, len(txns)+len(preserved))
	for _, tx := range txns {
		amount, err := json.Marshal(tx.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("failed to encode amount: %w", err)
		}
		item, err := json.Marshal(transactionRecord{
			ID:       tx.ID,
			Type:     string(tx.Type),
			Name:     tx.Name,
			Amount:   amount,
			Category: tx.Category,
			Date:     tx.Date.UTC().Format(storedDateLayout),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction %s: %w", tx.ID, err)
		}
		items = append(items, item)
	}
	items = append(items, preserved...)

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transactions: %w", err)
	}
	return data, nil
}
