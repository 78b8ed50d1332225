// Package taxonomy holds the fixed, ordered list of transaction categories.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/gofinances/internal/model"
)

// Taxonomy errors.
var (
	ErrEmptyTaxonomy = errors.New("taxonomy has no categories")
	ErrDuplicateKey  = errors.New("duplicate category key")
	ErrInvalidEntry  = errors.New("invalid category entry")
)

// Taxonomy is an immutable, ordered set of categories.
// Declaration order is preserved and drives breakdown ordering.
type Taxonomy struct {
	index      map[string]int
	categories []model.Category
}

var defaultCategories = []model.Category{
	{Key: "purchases", Name: "Compras", Icon: "shopping-bag", Color: "#5636D3"},
	{Key: "food", Name: "Alimentação", Icon: "coffee", Color: "#FF872C"},
	{Key: "transport", Name: "Transporte", Icon: "navigation", Color: "#3D8BFD"},
	{Key: "salary", Name: "Salário", Icon: "dollar-sign", Color: "#12A454"},
	{Key: "car", Name: "Carro", Icon: "crosshair", Color: "#E83F5B"},
	{Key: "leisure", Name: "Lazer", Icon: "heart", Color: "#26195C"},
	{Key: "studies", Name: "Estudos", Icon: "book", Color: "#9C001A"},
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := New(defaultCategories)
	if err != nil {
		panic(fmt.Sprintf("taxonomy: invalid default categories: %v", err))
	}
	return t
}

// New builds a taxonomy from the given categories, in order.
func New(categories []model.Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	t := &Taxonomy{
		categories: make([]model.Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for i, c := range categories {
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" {
			return nil, fmt.Errorf("%w: entry %d has no key", ErrInvalidEntry, i)
		}
		if c.Name == "" {
			c.Name = c.Key
		}
		if _, exists := t.index[c.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, c.Key)
		}
		t.index[c.Key] = len(t.categories)
		t.categories = append(t.categories, c)
	}

	return t, nil
}

// Lookup finds a category by key.
func (t *Taxonomy) Lookup(key string) (model.Category, bool) {
	i, ok := t.index[key]
	if !ok {
		return model.Category{}, false
	}
	return t.categories[i], true
}

// Contains reports whether key is part of the taxonomy.
func (t *Taxonomy) Contains(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Categories returns a copy of the categories in declaration order.
func (t *Taxonomy) Categories() []model.Category {
	out := make([]model.Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Keys returns the category keys in declaration order.
func (t *Taxonomy) Keys() []string {
	keys := make([]string, len(t.categories))
	for i, c := range t.categories {
		keys[i] = c.Key
	}
	return keys
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}
