package pattern

import (
	"testing"
	"time"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func txn(name string, amount string, t model.TransactionType) model.Transaction {
	return model.Transaction{
		ID:       "ofx-1",
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Type:     t,
		Category: "purchases",
		Date:     time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
	}
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name      string
		rules     []Rule
		txn       model.Transaction
		wantNames []string
	}{
		{
			name:      "substring match ignores case",
			rules:     []Rule{{Name: "ifood", MerchantPattern: "ifood", Category: "food"}},
			txn:       txn("IFOOD *RESTAURANTE", "45.90", model.TypeExpense),
			wantNames: []string{"ifood"},
		},
		{
			name:      "no match",
			rules:     []Rule{{Name: "uber", MerchantPattern: "uber", Category: "transport"}},
			txn:       txn("Padaria Central", "12", model.TypeExpense),
			wantNames: nil,
		},
		{
			name:      "regex match",
			rules:     []Rule{{Name: "fuel", MerchantPattern: `^posto\s+\w+`, IsRegex: true, Category: "car"}},
			txn:       txn("POSTO IPIRANGA 123", "200", model.TypeExpense),
			wantNames: []string{"fuel"},
		},
		{
			name:      "invalid regex never matches",
			rules:     []Rule{{Name: "broken", MerchantPattern: `posto(`, IsRegex: true, Category: "car"}},
			txn:       txn("posto(", "200", model.TypeExpense),
			wantNames: nil,
		},
		{
			name:      "type filter",
			rules:     []Rule{{Name: "pix in", MerchantPattern: "pix", Type: model.TypeIncome, Category: "salary"}},
			txn:       txn("PIX RECEBIDO", "50", model.TypeExpense),
			wantNames: nil,
		},
		{
			name: "amount less than",
			rules: []Rule{
				{Name: "small", MerchantPattern: "uber", AmountCondition: "lt", AmountValue: floatPtr(30), Category: "transport"},
			},
			txn:       txn("UBER TRIP", "29.99", model.TypeExpense),
			wantNames: []string{"small"},
		},
		{
			name: "amount equal is exact",
			rules: []Rule{
				{Name: "rent", AmountCondition: "eq", AmountValue: floatPtr(1500), Type: model.TypeExpense, Category: "purchases"},
			},
			txn:       txn("TED ALUGUEL", "1500.00", model.TypeExpense),
			wantNames: []string{"rent"},
		},
		{
			name: "amount range",
			rules: []Rule{
				{Name: "mid", MerchantPattern: "mercado", AmountCondition: "range", AmountMin: floatPtr(50), AmountMax: floatPtr(100), Category: "food"},
			},
			txn:       txn("Mercado Extra", "100", model.TypeExpense),
			wantNames: []string{"mid"},
		},
		{
			name: "amount range excludes above max",
			rules: []Rule{
				{Name: "mid", MerchantPattern: "mercado", AmountCondition: "range", AmountMin: floatPtr(50), AmountMax: floatPtr(100), Category: "food"},
			},
			txn:       txn("Mercado Extra", "100.01", model.TypeExpense),
			wantNames: nil,
		},
		{
			name: "disabled rules are skipped",
			rules: []Rule{
				{Name: "off", MerchantPattern: "uber", Category: "transport", Disabled: true},
			},
			txn:       txn("UBER", "10", model.TypeExpense),
			wantNames: nil,
		},
		{
			name: "priority order",
			rules: []Rule{
				{Name: "low", MerchantPattern: "uber", Category: "transport", Priority: 1},
				{Name: "high", MerchantPattern: "uber eats", Category: "food", Priority: 10},
				{Name: "mid", MerchantPattern: "eats", Category: "food", Priority: 5},
			},
			txn:       txn("UBER EATS", "30", model.TypeExpense),
			wantNames: []string{"high", "mid", "low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.rules)
			var got []string
			for _, r := range m.Match(tt.txn) {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.wantNames, got)
		})
	}
}

func TestMatcher_Categorize(t *testing.T) {
	rules := []Rule{
		{Name: "first", MerchantPattern: "netflix", Category: "leisure"},
		{Name: "second", MerchantPattern: "net", Category: "studies"},
	}
	m := NewMatcher(rules)

	category, ok := m.Categorize(txn("NETFLIX.COM", "39.90", model.TypeExpense))
	assert.True(t, ok)
	assert.Equal(t, "leisure", category, "equal priority keeps configured order")

	_, ok = m.Categorize(txn("Farmácia", "20", model.TypeExpense))
	assert.False(t, ok)
}

func TestNewMatcher_DoesNotReorderInput(t *testing.T) {
	rules := []Rule{
		{Name: "a", MerchantPattern: "x", Category: "food", Priority: 1},
		{Name: "b", MerchantPattern: "x", Category: "food", Priority: 2},
	}
	NewMatcher(rules)
	assert.Equal(t, "a", rules[0].Name)
}
