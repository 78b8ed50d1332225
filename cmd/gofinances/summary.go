package main

import (
	"fmt"

	"github.com/Veraticus/gofinances/internal/cli"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/tui"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and net totals",
		Long: `Show the income, expense and net totals over every recorded transaction,
with the date of the latest entry and expense.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			txns, err := a.load(ctx)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(a.aggregator.Summary(txns)))
			return err
		},
	}
}

func resumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resume",
		Aliases: []string{"breakdown"},
		Short:   "Show the per-category breakdown of a month",
		Long: `Show how one month's expenses (or income) split across categories.

Examples:
  # Current month's expenses
  gofinances resume

  # March 2024 income
  gofinances resume --type income --month 2024-03

  # Browse months interactively
  gofinances resume -i`,
		Args: cobra.NoArgs,
		RunE: runResume,
	}

	cmd.Flags().StringP("type", "t", "expense", "transaction type (expense, income)")
	cmd.Flags().StringP("month", "m", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().BoolP("interactive", "i", false, "browse months in the terminal UI")

	return cmd
}

func runResume(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	typeFlag, _ := cmd.Flags().GetString("type")
	monthFlag, _ := cmd.Flags().GetString("month")
	interactive, _ := cmd.Flags().GetBool("interactive")

	filterType, err := model.ParseTransactionType(typeFlag)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	period, err := currentPeriod(monthFlag, a.location)
	if err != nil {
		return err
	}

	if interactive {
		return tui.Run(ctx,
			tui.WithStore(a.repo),
			tui.WithAggregator(a.aggregator),
			tui.WithUser(a.userID),
			tui.WithPeriod(period),
			tui.WithType(filterType),
		)
	}

	txns, err := a.load(ctx)
	if err != nil {
		return err
	}

	b := a.aggregator.CategoryBreakdown(txns, filterType, period)
	if err := cli.RenderBreakdown(cmd.OutOrStdout(), b, a.aggregator.Formatter()); err != nil {
		return err
	}

	if n := len(b.Diagnostics.UnknownCategories); n > 0 {
		_, err = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(
			fmt.Sprintf("%d transaction(s) with unknown categories count towards the total only", n)))
	}
	return err
}
