package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/gofinances/internal/format"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const nameWidth = 16

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("💰 gofinances · Resumo por categoria"),
		m.renderMonth(),
		m.renderTabs(),
		m.theme.RoundedBox.Render(m.renderBody()),
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderMonth() string {
	f := m.formatter()
	if f == nil {
		return m.period.String()
	}
	return m.theme.Bold.Render(fmt.Sprintf("<  %s  >", f.MonthYear(m.period)))
}

func (m Model) renderTabs() string {
	tab := func(t model.TransactionType, label string) string {
		if m.filterType == t {
			return m.theme.Selected.Render(label)
		}
		return m.theme.Tab.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tab(model.TypeExpense, "Saídas"),
		tab(model.TypeIncome, "Entradas"),
	)
}

func (m Model) renderBody() string {
	switch {
	case !m.loaded:
		return m.theme.Subtitle.Render("Carregando...")
	case m.lastError != nil:
		return m.theme.StatusError.Render("Erro: " + m.lastError.Error())
	case len(m.breakdown.Categories) == 0:
		msg := "Não há transações"
		if f := m.formatter(); f != nil {
			msg = f.NoTransactions()
		}
		return m.theme.Subtitle.Render(msg)
	}

	var b strings.Builder
	for _, c := range m.breakdown.Categories {
		b.WriteString(m.renderRow(c))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Bold.Render(fmt.Sprintf("Total  %s", m.breakdown.TotalFormatted)))
	return b.String()
}

func (m Model) renderRow(c model.CategorySummary) string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
	name := truncate(c.Name, nameWidth)
	return fmt.Sprintf("%s %-*s %s %5s  %s",
		swatch,
		nameWidth, name,
		m.bar.ViewAs(float64(c.Percent)/100),
		c.PercentFormatted,
		c.TotalFormatted,
	)
}

func (m Model) renderStatus() string {
	var parts []string
	if m.loading {
		parts = append(parts, "atualizando...")
	}
	if m.skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d registro(s) ilegível(is) ignorado(s)", m.skipped))
	}
	if n := len(m.breakdown.Diagnostics.UnknownCategories); n > 0 {
		parts = append(parts, fmt.Sprintf("%d transação(ões) com categoria desconhecida", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return m.theme.StatusInfo.Render(strings.Join(parts, " · "))
}

func (m Model) formatter() format.Formatter {
	if m.config.Aggregator == nil {
		return nil
	}
	return m.config.Aggregator.Formatter()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
