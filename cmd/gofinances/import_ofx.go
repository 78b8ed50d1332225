package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/gofinances/internal/cli"
	"github.com/Veraticus/gofinances/internal/config"
	"github.com/Veraticus/gofinances/internal/ofx"
	"github.com/Veraticus/gofinances/internal/pattern"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Debits become expenses and credits become income. Lines already imported are
skipped, so the same statement can be imported twice safely. Rules under
import_rules in the config file pick categories by description and amount.

Examples:
  # Import a single statement
  gofinances import-ofx ~/Downloads/extrato_marco.ofx

  # Import many, tagging card purchases as leisure
  gofinances import-ofx ~/Downloads/*.ofx --category leisure`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview the import without saving")
	cmd.Flags().StringP("category", "c", "", "category for debits (default: purchases)")
	cmd.Flags().String("income-category", "", "category for credits (default: salary)")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	expenseCategory, _ := cmd.Flags().GetString("category")
	incomeCategory, _ := cmd.Flags().GetString("income-category")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Nothing was saved.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	tax := a.aggregator.Taxonomy()
	for _, c := range []string{expenseCategory, incomeCategory} {
		if c != "" && !tax.Contains(c) {
			return fmt.Errorf("unknown category %q (see 'gofinances categories')", c)
		}
	}

	rules, err := config.LoadImportRules(tax)
	if err != nil {
		return err
	}

	slog.Info("💰 Importing OFX files", "file_count", len(files), "dry_run", dryRun, "rules", len(rules))

	opts := ofx.Options{
		ExpenseCategory: expenseCategory,
		IncomeCategory:  incomeCategory,
	}
	if len(rules) > 0 {
		opts.Categorizer = pattern.NewMatcher(rules)
	}
	parser := ofx.NewParser(opts, slog.Default())
	importer := ofx.NewImporter(parser, a.repo, slog.Default())

	bar := cli.NewProgress(cmd.ErrOrStderr(), len(files), "Parsing")
	txns, err := importer.ParseFiles(ctx, files, func(string) {
		_ = bar.Add(1)
	})
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	result, err := importer.Import(ctx, a.userID, txns, dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		_, err = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d parsed, %d would be added, %d already stored",
			result.Parsed, result.Added, result.Duplicates)))
		return err
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s), %d already stored",
		result.Added, result.Duplicates)))
	return err
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
