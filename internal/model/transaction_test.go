package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input   string
		want    TransactionType
		wantErr bool
	}{
		{input: "positive", want: TypeIncome},
		{input: "income", want: TypeIncome},
		{input: " Income ", want: TypeIncome},
		{input: "negative", want: TypeExpense},
		{input: "expense", want: TypeExpense},
		{input: "saída", want: TypeExpense},
		{input: "transfer", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransactionType_Toggle(t *testing.T) {
	assert.Equal(t, TypeIncome, TypeExpense.Toggle())
	assert.Equal(t, TypeExpense, TypeIncome.Toggle())
}

func TestTransaction_Validate(t *testing.T) {
	valid := func() Transaction {
		return Transaction{
			ID:       "abc",
			Name:     "Lunch",
			Amount:   decimal.RequireFromString("12.50"),
			Type:     TypeExpense,
			Category: "food",
			Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		mutate  func(*Transaction)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "zero amount is allowed", mutate: func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{name: "missing id", mutate: func(tx *Transaction) { tx.ID = " " }, wantErr: true},
		{name: "missing name", mutate: func(tx *Transaction) { tx.Name = "" }, wantErr: true},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "unknown type", mutate: func(tx *Transaction) { tx.Type = "neutral" }, wantErr: true},
		{name: "missing category", mutate: func(tx *Transaction) { tx.Category = "" }, wantErr: true},
		{name: "missing date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransaction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	date := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	a := NewTransaction("  Salary ", decimal.NewFromInt(200), TypeIncome, "salary", date)
	b := NewTransaction("Salary", decimal.NewFromInt(200), TypeIncome, "salary", date)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Salary", a.Name)
	assert.NoError(t, a.Validate())
	assert.True(t, a.Signed().Equal(decimal.NewFromInt(200)))

	b.Type = TypeExpense
	assert.True(t, b.Signed().Equal(decimal.NewFromInt(-200)))
}

func TestPeriod(t *testing.T) {
	p := Period{Year: 2024, Month: time.January}

	assert.Equal(t, Period{Year: 2023, Month: time.December}, p.Prev())
	assert.Equal(t, Period{Year: 2024, Month: time.February}, p.Next())
	assert.Equal(t, p, p.Next().Prev())
	assert.Equal(t, "2024-01", p.String())

	// No bounds: walking far away still produces a valid month.
	far := p
	for i := 0; i < 600; i++ {
		far = far.Prev()
	}
	assert.Equal(t, Period{Year: 1974, Month: time.January}, far)

	assert.True(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-03")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2024, Month: time.March}, p)

	_, err = ParsePeriod("03/2024")
	assert.Error(t, err)
}
