package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/format"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/taxonomy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFixture() (*aggregate.Aggregator, []model.Transaction) {
	agg := aggregate.New(taxonomy.Default(), format.NewBRL(), nil)
	march := func(d int) time.Time { return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC) }
	txns := []model.Transaction{
		{ID: "1", Name: "Salário", Amount: decimal.NewFromInt(5000), Type: model.TypeIncome, Category: "salary", Date: march(1)},
		{ID: "2", Name: "Pizza", Amount: decimal.NewFromInt(50), Type: model.TypeExpense, Category: "food", Date: march(12)},
		{ID: "3", Name: "Mystery", Amount: decimal.NewFromInt(10), Type: model.TypeExpense, Category: "gifts", Date: march(2)},
	}
	return agg, txns
}

func TestRenderSummary(t *testing.T) {
	agg, txns := renderFixture()

	out := RenderSummary(agg.Summary(txns))
	assert.Contains(t, out, "Entradas")
	assert.Contains(t, out, "R$ 5.000,00")
	assert.Contains(t, out, "R$ 60,00")
	assert.Contains(t, out, "R$ 4.940,00")
	assert.Contains(t, out, "01 a 12 de março")
}

func TestRenderBreakdown(t *testing.T) {
	agg, txns := renderFixture()
	period := model.Period{Year: 2024, Month: time.March}

	var buf bytes.Buffer
	require.NoError(t, RenderBreakdown(&buf, agg.CategoryBreakdown(txns, model.TypeExpense, period), agg.Formatter()))
	out := buf.String()
	assert.Contains(t, out, "Saídas por categoria · março, 2024")
	assert.Contains(t, out, "Alimentação")
	assert.Contains(t, out, "83%")
	assert.Contains(t, out, "R$ 60,00")

	buf.Reset()
	empty := agg.CategoryBreakdown(txns, model.TypeExpense, period.Next())
	require.NoError(t, RenderBreakdown(&buf, empty, agg.Formatter()))
	assert.Contains(t, buf.String(), "Não há transações")
}

func TestRenderTransactions(t *testing.T) {
	agg, txns := renderFixture()

	var buf bytes.Buffer
	require.NoError(t, RenderTransactions(&buf, txns, agg.Taxonomy(), agg.Formatter()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Pizza")
	assert.Contains(t, lines[1], "- R$ 50,00")
	assert.Contains(t, lines[1], "12/03/24")
	// Unknown categories show their raw key.
	assert.Contains(t, lines[2], "gifts")
	assert.Contains(t, lines[3], "Salário")
	assert.NotContains(t, lines[3], "- R$")
}

func TestRenderCategories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCategories(&buf, taxonomy.Default()))

	out := buf.String()
	assert.Less(t, strings.Index(out, "purchases"), strings.Index(out, "studies"))
	assert.Contains(t, out, "Transporte")
}
