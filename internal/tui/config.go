package tui

import (
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
	"github.com/Veraticus/gofinances/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Store       service.TransactionStore
	Aggregator  *aggregate.Aggregator
	UserID      string
	Period      model.Period
	Type        model.TransactionType
	LoadTimeout time.Duration
	Width       int
	Height      int
	ShowHelp    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig opens on the current month's expenses.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Period:      model.PeriodOf(time.Now()),
		Type:        model.TypeExpense,
		LoadTimeout: 10 * time.Second,
		Width:       80,
		Height:      24,
	}
}

// WithStore sets the transaction store the screen reads from.
func WithStore(store service.TransactionStore) Option {
	return func(c *Config) {
		c.Store = store
	}
}

// WithAggregator sets the aggregator used to build breakdowns.
func WithAggregator(agg *aggregate.Aggregator) Option {
	return func(c *Config) {
		c.Aggregator = agg
	}
}

// WithUser sets whose transactions are shown.
func WithUser(userID string) Option {
	return func(c *Config) {
		c.UserID = userID
	}
}

// WithPeriod sets the month shown first.
func WithPeriod(p model.Period) Option {
	return func(c *Config) {
		c.Period = p
	}
}

// WithType sets the transaction type shown first.
func WithType(t model.TransactionType) Option {
	return func(c *Config) {
		c.Type = t
	}
}

// WithTheme sets the theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithShowHelp expands the help footer.
func WithShowHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
