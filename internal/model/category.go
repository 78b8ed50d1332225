package model

import "github.com/shopspring/decimal"

// Category is one entry of the category taxonomy.
type Category struct {
	Key   string `json:"key" mapstructure:"key"`
	Name  string `json:"name" mapstructure:"name"`
	Icon  string `json:"icon" mapstructure:"icon"`
	Color string `json:"color" mapstructure:"color"`
}

// CategorySummary is the share of one category within a filtered month.
type CategorySummary struct {
	Total            decimal.Decimal
	Key              string
	Name             string
	Color            string
	TotalFormatted   string
	PercentFormatted string
	Percent          int
}
