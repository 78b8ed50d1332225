// Package tui is the interactive monthly breakdown screen.
package tui

import (
	"context"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the breakdown screen state.
type Model struct {
	ctx        context.Context
	lastError  error
	breakdown  aggregate.Breakdown
	theme      themes.Theme
	period     model.Period
	filterType model.TransactionType
	help       help.Model
	bar        progress.Model
	keymap     KeyMap
	config     Config
	width      int
	height     int
	skipped    int
	seq        int
	loading    bool
	loaded     bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp

	return Model{
		ctx:        ctx,
		config:     cfg,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       h,
		bar:        newBar(cfg.Theme, cfg.Type, cfg.Width),
		period:     cfg.Period,
		filterType: cfg.Type,
		width:      cfg.Width,
		height:     cfg.Height,
	}
}

func newBar(theme themes.Theme, t model.TransactionType, width int) progress.Model {
	fill := theme.Expense
	if t == model.TypeIncome {
		fill = theme.Income
	}
	return progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth(width)),
	)
}

// barWidth leaves room for the name, percent and amount columns.
func barWidth(width int) int {
	w := width - 50
	if w < 10 {
		return 10
	}
	if w > 40 {
		return 40
	}
	return w
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadBreakdown(m.seq, m.period, m.filterType)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case breakdownLoadedMsg:
		// A newer request is in flight; this answer is for a month or type
		// the user already moved away from.
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.loaded = true
		m.lastError = msg.err
		if msg.err == nil {
			m.breakdown = msg.breakdown
			m.skipped = msg.skipped
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.PrevMonth):
		m.period = m.period.Prev()
		return m.reload()

	case key.Matches(msg, m.keymap.NextMonth):
		m.period = m.period.Next()
		return m.reload()

	case key.Matches(msg, m.keymap.ToggleType):
		m.filterType = m.filterType.Toggle()
		m.bar = newBar(m.theme, m.filterType, m.width)
		return m.reload()

	case key.Matches(msg, m.keymap.Refresh):
		return m.reload()
	}

	return m, nil
}

// reload issues a new request and supersedes any in flight.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.seq++
	m.loading = true
	return m, m.loadBreakdown(m.seq, m.period, m.filterType)
}
