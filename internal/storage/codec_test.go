package storage

import (
	"testing"
	"time"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTransactions(t *testing.T) {
	data := []byte(`[
		{"id":"1","type":"negative","name":"Lunch","amount":"100","category":"food","date":"2024-03-05T15:00:00.000Z"},
		{"id":"2","type":"negative","name":"Dinner","amount":50.25,"category":"food","date":"2024-03-20T21:00:00Z"},
		{"id":"3","type":"positive","name":"Salary","amount":" 200 ","category":"salary","date":"2024-03-01"},
		{"id":"4","type":"negative","name":"Bad amount","amount":"abc","category":"food","date":"2024-03-01T00:00:00Z"},
		{"id":"5","type":"negative","name":"Bad date","amount":"10","category":"food","date":"yesterday"},
		{"id":"6","type":"neutral","name":"Bad type","amount":"10","category":"food","date":"2024-03-01T00:00:00Z"},
		{"id":"7","type":"negative","name":"Negative","amount":"-10","category":"food","date":"2024-03-01T00:00:00Z"},
		{"id":"8","type":"negative","name":"","amount":"10","category":"food","date":"2024-03-01T00:00:00Z"},
		{"id":"9","type":"negative","name":"No amount","category":"food","date":"2024-03-01T00:00:00Z"},
		"not an object"
	]`)

	txns, skipped, err := DecodeTransactions(data, time.UTC)
	require.NoError(t, err)

	require.Len(t, txns, 3)
	assert.Equal(t, "1", txns[0].ID)
	assert.Equal(t, model.TypeExpense, txns[0].Type)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "50.25", txns[1].Amount.String())
	assert.Equal(t, model.TypeIncome, txns[2].Type)
	assert.Equal(t, "200", txns[2].Amount.String())

	require.Len(t, skipped, 7)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9}, indexes(skipped))
	assert.Equal(t, "4", skipped[0].ID)
	assert.Contains(t, skipped[0].Reason, "non-numeric amount")
	assert.Contains(t, skipped[1].Reason, "invalid date")
	assert.Contains(t, skipped[2].Reason, "invalid transaction type")
	assert.Contains(t, skipped[3].Reason, "negative amount")
	assert.Contains(t, skipped[4].Reason, "missing name")
	assert.Contains(t, skipped[5].Reason, "missing amount")
	assert.Equal(t, "", skipped[6].ID)
}

func TestDecodeTransactions_EmptyAndCorrupt(t *testing.T) {
	for _, input := range []string{"", "  ", "null", "[]"} {
		txns, skipped, err := DecodeTransactions([]byte(input), nil)
		require.NoError(t, err, "input %q", input)
		assert.Empty(t, txns)
		assert.Empty(t, skipped)
	}

	for _, input := range []string{"{}", `"text"`, "[1,2", "42"} {
		_, _, err := DecodeTransactions([]byte(input), nil)
		assert.ErrorIs(t, err, ErrCorruptData, "input %q", input)
	}
}

func TestDecodeTransactions_Location(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	data := []byte(`[{"id":"1","type":"negative","name":"Late","amount":"10","category":"food","date":"2024-04-01T01:00:00.000Z"}]`)

	txns, _, err := DecodeTransactions(data, saoPaulo)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	// 01:00 UTC on April 1st is still March 31st in São Paulo.
	assert.Equal(t, time.March, txns[0].Date.Month())
	assert.Equal(t, 31, txns[0].Date.Day())
}

func TestEncodeTransactions_RoundTrip(t *testing.T) {
	original := []model.Transaction{
		{
			ID:       "a",
			Type:     model.TypeExpense,
			Name:     "Bus",
			Amount:   decimal.RequireFromString("4.40"),
			Category: "transport",
			Date:     time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC),
		},
	}

	data, err := EncodeTransactions(original)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"a","type":"negative","name":"Bus","amount":"4.4","category":"transport","date":"2024-03-10T08:30:00.000Z"}]`,
		string(data))

	decoded, skipped, err := DecodeTransactions(data, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, decoded, 1)
	assert.True(t, decoded[0].Amount.Equal(original[0].Amount))
	assert.True(t, decoded[0].Date.Equal(original[0].Date))
}

func indexes(skipped []model.SkippedRecord) []int {
	out := make([]int, len(skipped))
	for i, s := range skipped {
		out[i] = s.Index
	}
	return out
}
