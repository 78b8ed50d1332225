package aggregate

import (
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the per-category share of one transaction type within a month.
type Breakdown struct {
	Total          decimal.Decimal
	Type           model.TransactionType
	TotalFormatted string
	Categories     []model.CategorySummary
	Diagnostics    Diagnostics
	Period         model.Period
}

// Diagnostics lists data-integrity findings from a breakdown pass.
type Diagnostics struct {
	UnknownCategories []UnknownCategory
}

// UnknownCategory is a transaction whose category key is not in the taxonomy.
type UnknownCategory struct {
	TransactionID string
	Category      string
}

// Empty reports whether the pass found nothing worth reporting.
func (d Diagnostics) Empty() bool {
	return len(d.UnknownCategories) == 0
}

// CategoryBreakdown filters transactions by type and calendar month, sums them
// per taxonomy category and computes each category's rounded percentage of the
// filtered total.
//
// Categories are emitted in taxonomy order and only when their sum is
// positive. Transactions with unknown categories count towards the total but
// never get a row of their own.
func (a *Aggregator) CategoryBreakdown(txns []model.Transaction, filterType model.TransactionType, period model.Period) Breakdown {
	result := Breakdown{
		Period:     period,
		Type:       filterType,
		Total:      decimal.Zero,
		Categories: []model.CategorySummary{},
	}

	sums := make(map[string]decimal.Decimal, a.taxonomy.Len())
	for _, tx := range txns {
		if tx.Type != filterType || !period.Contains(tx.Date) {
			continue
		}
		result.Total = result.Total.Add(tx.Amount)

		if !a.taxonomy.Contains(tx.Category) {
			result.Diagnostics.UnknownCategories = append(result.Diagnostics.UnknownCategories, UnknownCategory{
				TransactionID: tx.ID,
				Category:      tx.Category,
			})
			a.logger.Warn("Transaction references unknown category",
				"transaction_id", tx.ID,
				"category", tx.Category)
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	result.TotalFormatted = a.formatter.Currency(result.Total)

	if !result.Total.IsPositive() {
		return result
	}

	for _, category := range a.taxonomy.Categories() {
		sum, ok := sums[category.Key]
		if !ok || !sum.IsPositive() {
			continue
		}

		percent := int(sum.Mul(hundred).Div(result.Total).Round(0).IntPart())
		result.Categories = append(result.Categories, model.CategorySummary{
			Key:              category.Key,
			Name:             category.Name,
			Color:            category.Color,
			Total:            sum,
			TotalFormatted:   a.formatter.Currency(sum),
			Percent:          percent,
			PercentFormatted: a.formatter.Percent(percent),
		})
	}

	return result
}
