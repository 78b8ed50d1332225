package model

// PatternRule assigns a category to imported transactions whose name and
// amount match. Rules are read from the "import_rules" config list.
type PatternRule struct {
	AmountValue *float64 `mapstructure:"amount_value" json:"amount_value,omitempty"`
	AmountMin   *float64 `mapstructure:"amount_min" json:"amount_min,omitempty"`
	AmountMax   *float64 `mapstructure:"amount_max" json:"amount_max,omitempty"`
	// Type limits the rule to income or expense. Empty matches both.
	Type            TransactionType `mapstructure:"type" json:"type,omitempty"`
	Name            string          `mapstructure:"name" json:"name"`
	MerchantPattern string          `mapstructure:"pattern" json:"pattern"`
	AmountCondition string          `mapstructure:"amount_condition" json:"amount_condition"`
	Category        string          `mapstructure:"category" json:"category"`
	Priority        int             `mapstructure:"priority" json:"priority"`
	IsRegex         bool            `mapstructure:"regex" json:"regex"`
	Disabled        bool            `mapstructure:"disabled" json:"disabled"`
}

// AmountConditionType represents the type of amount comparison.
type AmountConditionType string

// Amount condition constants.
const (
	AmountLessThan     AmountConditionType = "lt"
	AmountLessEqual    AmountConditionType = "le"
	AmountEqual        AmountConditionType = "eq"
	AmountGreaterEqual AmountConditionType = "ge"
	AmountGreaterThan  AmountConditionType = "gt"
	AmountRange        AmountConditionType = "range"
	AmountAny          AmountConditionType = "any"
)
