package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/cli"
	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List, add and delete transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			monthFlag, _ := cmd.Flags().GetString("month")

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			txns, err := a.load(ctx)
			if err != nil {
				return err
			}

			if monthFlag != "" {
				period, err := model.ParsePeriod(monthFlag)
				if err != nil {
					return err
				}
				filtered := txns[:0:0]
				for _, tx := range txns {
					if period.Contains(tx.Date) {
						filtered = append(filtered, tx)
					}
				}
				txns = filtered
			}

			return cli.RenderTransactions(cmd.OutOrStdout(), txns, a.aggregator.Taxonomy(), a.aggregator.Formatter())
		},
	}

	cmd.Flags().StringP("month", "m", "", "only show transactions of this month (YYYY-MM)")
	return cmd
}

func addTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME AMOUNT",
		Short: "Record a new transaction",
		Long: `Record a new income or expense. Without --category you are asked to pick one.

Examples:
  gofinances transactions add "Mercado" 123.45 --category food
  gofinances transactions add "Salário" 5000 --type income --category salary --date 2024-03-05`,
		Args: cobra.ExactArgs(2),
		RunE: runAddTransaction,
	}

	cmd.Flags().StringP("type", "t", "expense", "transaction type (expense, income)")
	cmd.Flags().StringP("category", "c", "", "category key")
	cmd.Flags().StringP("date", "d", "", "date as YYYY-MM-DD (default: today)")

	return cmd
}

func runAddTransaction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	typeFlag, _ := cmd.Flags().GetString("type")
	categoryFlag, _ := cmd.Flags().GetString("category")
	dateFlag, _ := cmd.Flags().GetString("date")

	txnType, err := model.ParseTransactionType(typeFlag)
	if err != nil {
		return err
	}

	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	date := time.Now().In(a.location)
	if dateFlag != "" {
		d, err := time.ParseInLocation("2006-01-02", dateFlag, a.location)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateFlag, err)
		}
		date = d.Add(12 * time.Hour)
	}

	tax := a.aggregator.Taxonomy()
	category := categoryFlag
	if category == "" {
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		c, err := prompter.SelectCategory(ctx, tax)
		if err != nil {
			return err
		}
		category = c.Key
	} else if !tax.Contains(category) {
		return fmt.Errorf("%w: %q (see 'gofinances categories')", common.ErrUnknownCategory, category)
	}

	tx := model.NewTransaction(args[0], amount, txnType, category, date)
	if err := tx.Validate(); err != nil {
		return err
	}

	if _, err := a.repo.Append(ctx, a.userID, tx); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Debug("Transaction added", "id", tx.ID, "user", a.userID)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s %s (%s)",
		tx.Name, cli.TransactionAmount(tx, a.aggregator.Formatter()), tx.ID)))
	return err
}

// parseAmount accepts "1234.56" or the Brazilian "1.234,56". When a comma is
// present it must be the decimal separator, with dots only grouping thousands.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if i := strings.LastIndex(s, ","); i >= 0 {
		whole, frac := s[:i], s[i+1:]
		if strings.ContainsAny(frac, ".,") || !groupedThousands(whole) {
			return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
		}
		s = strings.ReplaceAll(whole, ".", "") + "." + frac
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be positive", common.ErrInvalidAmount)
	}
	return amount, nil
}

// groupedThousands reports whether s is plain digits or "1.234.567" style groups.
func groupedThousands(s string) bool {
	if strings.Contains(s, ",") {
		return false
	}
	groups := strings.Split(s, ".")
	if len(groups) == 1 {
		return true
	}
	if n := len(groups[0]); n == 0 || n > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

func deleteTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Long: `Delete a transaction by ID. An automatic backup is taken first so the
deletion can be undone with 'gofinances backup restore'.`,
		Args: cobra.ExactArgs(1),
		RunE: runDeleteTransaction,
	}

	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	cmd.Flags().Bool("no-backup", false, "skip the automatic backup")

	return cmd
}

func runDeleteTransaction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	yes, _ := cmd.Flags().GetBool("yes")
	noBackup, _ := cmd.Flags().GetBool("no-backup")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	txns, err := a.load(ctx)
	if err != nil {
		return err
	}

	// DeleteTransaction returns the same list when nothing matches.
	if len(aggregate.DeleteTransaction(txns, id)) == len(txns) {
		return fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
	}

	if !yes {
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete transaction %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
			return err
		}
	}

	if !noBackup {
		bm, err := a.store.NewBackupManager()
		if err != nil {
			return err
		}
		info, err := bm.Auto(ctx, "delete")
		if err != nil {
			return fmt.Errorf("failed to back up before delete: %w", err)
		}
		slog.Info("Created automatic backup", "id", info.ID)
	}

	deleted, err := a.repo.Delete(ctx, a.userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if !deleted {
		return fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+id))
	return err
}
