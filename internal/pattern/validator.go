package pattern

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/taxonomy"
)

// ErrInvalidRule is wrapped by every rule validation failure.
var ErrInvalidRule = errors.New("invalid import rule")

// Validate checks every rule against the taxonomy and reports all problems
// at once.
func Validate(rules []Rule, tax *taxonomy.Taxonomy) error {
	var errs []error
	for i, rule := range rules {
		if err := validateRule(rule, tax); err != nil {
			label := rule.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrInvalidRule, label, err))
		}
	}
	return errors.Join(errs...)
}

func validateRule(rule Rule, tax *taxonomy.Taxonomy) error {
	if !tax.Contains(rule.Category) {
		return fmt.Errorf("unknown category %q", rule.Category)
	}
	if rule.Type != "" && !rule.Type.Valid() {
		return fmt.Errorf("unknown type %q", rule.Type)
	}
	if rule.IsRegex {
		if _, err := regexp.Compile(rule.MerchantPattern); err != nil {
			return fmt.Errorf("bad pattern: %w", err)
		}
	}

	switch model.AmountConditionType(rule.AmountCondition) {
	case "", model.AmountAny:
	case model.AmountLessThan, model.AmountLessEqual, model.AmountEqual,
		model.AmountGreaterEqual, model.AmountGreaterThan:
		if rule.AmountValue == nil {
			return fmt.Errorf("amount condition %q needs amount_value", rule.AmountCondition)
		}
	case model.AmountRange:
		if rule.AmountMin == nil && rule.AmountMax == nil {
			return fmt.Errorf("range needs amount_min or amount_max")
		}
		if rule.AmountMin != nil && rule.AmountMax != nil && *rule.AmountMin > *rule.AmountMax {
			return fmt.Errorf("amount_min %.2f is above amount_max %.2f", *rule.AmountMin, *rule.AmountMax)
		}
	default:
		return fmt.Errorf("unknown amount condition %q", rule.AmountCondition)
	}

	if rule.MerchantPattern == "" && rule.Type == "" &&
		(rule.AmountCondition == "" || rule.AmountCondition == string(model.AmountAny)) {
		return fmt.Errorf("rule matches every transaction")
	}
	return nil
}
