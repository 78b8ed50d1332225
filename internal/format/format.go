// Package format renders money, dates and percentages for display.
//
// The aggregation code only depends on the Formatter interface, so the locale
// can be swapped without touching the arithmetic.
package format

import (
	"time"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
)

// Formatter turns raw values into display strings.
type Formatter interface {
	// Currency renders an amount with symbol and two decimals, preserving sign.
	Currency(amount decimal.Decimal) string
	// Date renders a day and full month name, e.g. "5 de março".
	Date(t time.Time) string
	// ShortDate renders a compact date for listings, e.g. "05/03/24".
	ShortDate(t time.Time) string
	// MonthYear renders a calendar month, e.g. "março, 2024".
	MonthYear(p model.Period) string
	// Percent renders an integer percentage with a trailing "%".
	Percent(p int) string
	// NoTransactions is the sentinel shown when a highlight has no data.
	NoTransactions() string
	// LastEntry describes the most recent income.
	LastEntry(t time.Time) string
	// LastExpense describes the most recent expense.
	LastExpense(t time.Time) string
	// Interval describes the range from the start of the month up to t.
	Interval(t time.Time) string
}
