package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/gofinances/internal/cli"
	"github.com/Veraticus/gofinances/internal/config"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
	"github.com/Veraticus/gofinances/internal/sheets"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a monthly report to Google Sheets",
		Long: `Write the summary, both category breakdowns and the month's transactions
to a Google Sheets spreadsheet. Run 'gofinances auth sheets' first or configure
a service account.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("month", "m", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	monthFlag, _ := cmd.Flags().GetString("month")

	sheetsCfg, err := config.LoadSheetsConfig()
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

	txns, err := a.load(ctx)
	if err != nil {
		return err
	}

	report := buildReport(a, txns, period)

	var writer service.ReportWriter
	writer, err = sheets.NewWriter(ctx, *sheetsCfg, a.aggregator, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		"Exported "+a.aggregator.Formatter().MonthYear(period)+" to Google Sheets"))
	return err
}

// buildReport assembles the month's report. The summary covers every
// transaction, matching what 'summary' shows.
func buildReport(a *app, txns []model.Transaction, period model.Period) service.Report {
	monthly := make([]model.Transaction, 0, len(txns))
	for _, tx := range txns {
		if period.Contains(tx.Date) {
			monthly = append(monthly, tx)
		}
	}

	return service.Report{
		Summary:      a.aggregator.Summary(txns),
		Expenses:     a.aggregator.CategoryBreakdown(txns, model.TypeExpense, period),
		Income:       a.aggregator.CategoryBreakdown(txns, model.TypeIncome, period),
		Transactions: monthly,
		Period:       period,
		UserID:       a.userID,
	}
}
