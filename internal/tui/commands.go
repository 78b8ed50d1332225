package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/gofinances/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// loadBreakdown reads the user's transactions and aggregates the selected
// month and type. The arguments are captured so a later cursor move cannot
// change what this request computes.
func (m Model) loadBreakdown(seq int, period model.Period, filterType model.TransactionType) tea.Cmd {
	store := m.config.Store
	agg := m.config.Aggregator
	userID := m.config.UserID
	timeout := m.config.LoadTimeout
	parent := m.ctx

	return func() tea.Msg {
		if store == nil || agg == nil {
			return breakdownLoadedMsg{seq: seq, err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		txns, skipped, err := store.Load(ctx, userID)
		if err != nil {
			return breakdownLoadedMsg{seq: seq, err: err}
		}

		return breakdownLoadedMsg{
			seq:       seq,
			breakdown: agg.CategoryBreakdown(txns, filterType, period),
			skipped:   len(skipped),
		}
	}
}
