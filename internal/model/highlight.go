package model

import "github.com/shopspring/decimal"

// Highlight is one of the headline figures: income, expense or net.
type Highlight struct {
	Amount          decimal.Decimal
	AmountFormatted string
	LastTransaction string
}

// HighlightData groups the three headline figures.
type HighlightData struct {
	Entries   Highlight
	Expensive Highlight
	Total     Highlight
}
