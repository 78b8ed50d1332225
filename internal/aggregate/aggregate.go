// Package aggregate computes headline totals and per-category breakdowns
// from a user's transactions.
//
// All functions here are pure: they take an already-loaded snapshot and
// always return a well-formed result. Bad records are expected to have been
// filtered at the storage boundary; records pointing at unknown categories
// are tolerated and reported through Diagnostics.
package aggregate

import (
	"log/slog"

	"github.com/Veraticus/gofinances/internal/format"
	"github.com/Veraticus/gofinances/internal/taxonomy"
)

// Aggregator holds the read-only collaborators shared by every pass.
type Aggregator struct {
	taxonomy  *taxonomy.Taxonomy
	formatter format.Formatter
	logger    *slog.Logger
}

// New creates an aggregator. A nil logger falls back to slog.Default().
func New(tax *taxonomy.Taxonomy, f format.Formatter, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		taxonomy:  tax,
		formatter: f,
		logger:    logger,
	}
}

// Taxonomy returns the taxonomy the aggregator was built with.
func (a *Aggregator) Taxonomy() *taxonomy.Taxonomy {
	return a.taxonomy
}

// Formatter returns the formatter the aggregator was built with.
func (a *Aggregator) Formatter() format.Formatter {
	return a.formatter
}
