package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/format"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/taxonomy"
	"github.com/charmbracelet/lipgloss"
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2).
	Width(34)

// RenderSummary renders the income, expense and net highlights as cards.
func RenderSummary(data model.HighlightData) string {
	net := cardStyle.BorderForeground(IncomeColor)
	if data.Total.Amount.IsNegative() {
		net = cardStyle.BorderForeground(ExpenseColor)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard(cardStyle.BorderForeground(IncomeColor), IncomeStyle.Render(IncomeIcon)+" Entradas", data.Entries),
		renderCard(cardStyle.BorderForeground(ExpenseColor), ExpenseStyle.Render(ExpenseIcon)+" Saídas", data.Expensive),
		renderCard(net, TotalIcon+" Total", data.Total),
	)
}

func renderCard(style lipgloss.Style, title string, h model.Highlight) string {
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.NewStyle().Bold(true).Render(h.AmountFormatted),
		SubtleStyle.Render(h.LastTransaction),
	))
}

// RenderBreakdown writes the per-category table of a breakdown.
func RenderBreakdown(w io.Writer, b aggregate.Breakdown, f format.Formatter) error {
	label := "Saídas"
	if b.Type == model.TypeIncome {
		label = "Entradas"
	}
	if _, err := fmt.Fprintln(w, FormatTitle(fmt.Sprintf("%s por categoria · %s", label, f.MonthYear(b.Period)))); err != nil {
		return err
	}

	if len(b.Categories) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render(f.NoTransactions()))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		TableHeaderStyle.Render("Categoria"),
		TableHeaderStyle.Render("Valor"),
		TableHeaderStyle.Render("%"))
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		strings.Repeat("-", 14),
		strings.Repeat("-", 14),
		strings.Repeat("-", 4))

	for _, c := range b.Categories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", swatch, c.Name, c.TotalFormatted, c.PercentFormatted)
	}
	fmt.Fprintf(tw, "%s\t%s\t\n", "Total", b.TotalFormatted)

	return tw.Flush()
}

// RenderTransactions writes a listing, newest first. Expense amounts carry a
// leading "- ".
func RenderTransactions(w io.Writer, txns []model.Transaction, tax *taxonomy.Taxonomy, f format.Formatter) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render(f.NoTransactions()))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("Nome"),
		TableHeaderStyle.Render("Valor"),
		TableHeaderStyle.Render("Categoria"),
		TableHeaderStyle.Render("Data"),
		TableHeaderStyle.Render("ID"))

	for _, tx := range aggregate.Newest(txns) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			tx.Name,
			TransactionAmount(tx, f),
			categoryName(tax, tx.Category),
			f.ShortDate(tx.Date),
			SubtleStyle.Render(tx.ID))
	}

	return tw.Flush()
}

// TransactionAmount renders a transaction's amount with the listing sign.
func TransactionAmount(tx model.Transaction, f format.Formatter) string {
	if tx.Type == model.TypeExpense {
		return ExpenseStyle.Render("- " + f.Currency(tx.Amount))
	}
	return IncomeStyle.Render(f.Currency(tx.Amount))
}

// RenderCategories writes the taxonomy in declaration order.
func RenderCategories(w io.Writer, tax *taxonomy.Taxonomy) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		TableHeaderStyle.Render("#"),
		TableHeaderStyle.Render("Key"),
		TableHeaderStyle.Render("Name"))

	for i, c := range tax.Categories() {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
		fmt.Fprintf(tw, "%d\t%s\t%s %s\n", i+1, c.Key, swatch, c.Name)
	}

	return tw.Flush()
}

func categoryName(tax *taxonomy.Taxonomy, key string) string {
	if c, ok := tax.Lookup(key); ok {
		return c.Name
	}
	return key
}
