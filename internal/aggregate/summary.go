package aggregate

import (
	"time"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
)

// Summary reduces the full transaction list into income, expense and net
// highlights.
//
// Income and expense report the latest date within their own type. The net
// highlight reports the latest date across every transaction, framed as an
// interval from the start of that month.
func (a *Aggregator) Summary(txns []model.Transaction) model.HighlightData {
	entriesTotal := decimal.Zero
	expensiveTotal := decimal.Zero

	var lastEntry, lastExpense, lastAny time.Time

	for _, tx := range txns {
		switch tx.Type {
		case model.TypeIncome:
			entriesTotal = entriesTotal.Add(tx.Amount)
			lastEntry = latest(lastEntry, tx.Date)
		case model.TypeExpense:
			expensiveTotal = expensiveTotal.Add(tx.Amount)
			lastExpense = latest(lastExpense, tx.Date)
		default:
			a.logger.Warn("Ignoring transaction with unknown type",
				"transaction_id", tx.ID,
				"type", string(tx.Type))
			continue
		}
		lastAny = latest(lastAny, tx.Date)
	}

	net := entriesTotal.Sub(expensiveTotal)
	f := a.formatter

	data := model.HighlightData{
		Entries: model.Highlight{
			Amount:          entriesTotal,
			AmountFormatted: f.Currency(entriesTotal),
			LastTransaction: f.NoTransactions(),
		},
		Expensive: model.Highlight{
			Amount:          expensiveTotal,
			AmountFormatted: f.Currency(expensiveTotal),
			LastTransaction: f.NoTransactions(),
		},
		Total: model.Highlight{
			Amount:          net,
			AmountFormatted: f.Currency(net),
			LastTransaction: f.NoTransactions(),
		},
	}

	if !lastEntry.IsZero() {
		data.Entries.LastTransaction = f.LastEntry(lastEntry)
	}
	if !lastExpense.IsZero() {
		data.Expensive.LastTransaction = f.LastExpense(lastExpense)
	}
	if !lastAny.IsZero() {
		data.Total.LastTransaction = f.Interval(lastAny)
	}

	return data
}

func latest(current, candidate time.Time) time.Time {
	if candidate.After(current) {
		return candidate
	}
	return current
}
