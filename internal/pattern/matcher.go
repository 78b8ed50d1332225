// Package pattern categorizes imported transactions with user-defined rules.
package pattern

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
)

// Rule is an alias to the model.PatternRule type for convenience.
type Rule = model.PatternRule

// Matcher evaluates transactions against pattern rules.
type Matcher struct {
	compiledRegex map[int]*regexp.Regexp
	rules         []Rule
}

// NewMatcher creates a matcher over rules, highest priority first. Rules
// with equal priority keep their configured order. Regex rules that do not
// compile never match; run Validate first to report them.
func NewMatcher(rules []Rule) *Matcher {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return b.Priority - a.Priority
	})

	m := &Matcher{
		rules:         sorted,
		compiledRegex: make(map[int]*regexp.Regexp),
	}

	for i, rule := range sorted {
		if rule.IsRegex && rule.MerchantPattern != "" {
			if re, err := regexp.Compile("(?i)" + rule.MerchantPattern); err == nil {
				m.compiledRegex[i] = re
			}
		}
	}

	return m
}

// Match returns every enabled rule that matches txn, highest priority first.
func (m *Matcher) Match(txn model.Transaction) []Rule {
	var matches []Rule
	for i, rule := range m.rules {
		if !rule.Disabled && m.matchesRule(i, txn, rule) {
			matches = append(matches, rule)
		}
	}
	return matches
}

// Categorize returns the category of the first matching rule.
func (m *Matcher) Categorize(txn model.Transaction) (string, bool) {
	for i, rule := range m.rules {
		if !rule.Disabled && m.matchesRule(i, txn, rule) {
			return rule.Category, true
		}
	}
	return "", false
}

func (m *Matcher) matchesRule(idx int, txn model.Transaction, rule Rule) bool {
	if rule.Type != "" && txn.Type != rule.Type {
		return false
	}
	return m.matchesMerchant(idx, txn, rule) && matchesAmount(txn.Amount, rule)
}

// matchesMerchant compares the transaction name. Plain patterns match as a
// case-insensitive substring, since bank descriptions carry extra noise.
func (m *Matcher) matchesMerchant(idx int, txn model.Transaction, rule Rule) bool {
	if rule.MerchantPattern == "" {
		return true
	}

	if rule.IsRegex {
		re, ok := m.compiledRegex[idx]
		return ok && re.MatchString(txn.Name)
	}

	return strings.Contains(strings.ToLower(txn.Name), strings.ToLower(rule.MerchantPattern))
}

func matchesAmount(amount decimal.Decimal, rule Rule) bool {
	value := func() (decimal.Decimal, bool) {
		if rule.AmountValue == nil {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(*rule.AmountValue), true
	}

	switch model.AmountConditionType(rule.AmountCondition) {
	case "", model.AmountAny:
		return true
	case model.AmountLessThan:
		v, ok := value()
		return ok && amount.LessThan(v)
	case model.AmountLessEqual:
		v, ok := value()
		return ok && amount.LessThanOrEqual(v)
	case model.AmountEqual:
		v, ok := value()
		return ok && amount.Equal(v)
	case model.AmountGreaterEqual:
		v, ok := value()
		return ok && amount.GreaterThanOrEqual(v)
	case model.AmountGreaterThan:
		v, ok := value()
		return ok && amount.GreaterThan(v)
	case model.AmountRange:
		if rule.AmountMin != nil && amount.LessThan(decimal.NewFromFloat(*rule.AmountMin)) {
			return false
		}
		if rule.AmountMax != nil && amount.GreaterThan(decimal.NewFromFloat(*rule.AmountMax)) {
			return false
		}
		return true
	}

	return false
}
