package ofx

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Result summarizes an import run.
type Result struct {
	Parsed     int
	Added      int
	Duplicates int
}

// Importer parses statement files and appends their transactions to a store.
type Importer struct {
	parser      *Parser
	store       service.TransactionStore
	logger      *slog.Logger
	concurrency int
}

// NewImporter creates an importer writing to store.
func NewImporter(parser *Parser, store service.TransactionStore, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		parser:      parser,
		store:       store,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// ParseFiles parses every file concurrently. Results keep file order and
// repeated IDs across files are collapsed to their first occurrence.
// onFileDone, if set, is called once per parsed file.
func (i *Importer) ParseFiles(ctx context.Context, paths []string, onFileDone func(path string)) ([]model.Transaction, error) {
	perFile := make([][]model.Transaction, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for idx, path := range paths {
		idx, path := idx, path
		g.Go(func() error {
			txns, err := i.parseFile(gctx, path)
			if err != nil {
				return err
			}
			perFile[idx] = txns
			if onFileDone != nil {
				onFileDone(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var all []model.Transaction
	for _, txns := range perFile {
		for _, tx := range txns {
			if _, dup := seen[tx.ID]; dup {
				continue
			}
			seen[tx.ID] = struct{}{}
			all = append(all, tx)
		}
	}
	return all, nil
}

func (i *Importer) parseFile(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txns, err := i.parser.ParseFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	i.logger.Debug("Parsed statement", "file", path, "transactions", len(txns))
	return txns, nil
}

// Import stores txns for userID, skipping IDs already present. With dryRun
// nothing is written and Added reports what would have been stored.
func (i *Importer) Import(ctx context.Context, userID string, txns []model.Transaction, dryRun bool) (Result, error) {
	result := Result{Parsed: len(txns)}

	if dryRun {
		existing, skipped, err := i.store.Load(ctx, userID)
		if err != nil {
			return result, err
		}
		known := make(map[string]struct{}, len(existing)+len(skipped))
		for _, tx := range existing {
			known[tx.ID] = struct{}{}
		}
		for _, s := range skipped {
			known[s.ID] = struct{}{}
		}
		for _, tx := range txns {
			if _, ok := known[tx.ID]; !ok {
				result.Added++
			}
		}
		result.Duplicates = result.Parsed - result.Added
		return result, nil
	}

	added, err := i.store.Append(ctx, userID, txns...)
	if err != nil {
		return result, fmt.Errorf("failed to store imported transactions: %w", err)
	}
	result.Added = added
	result.Duplicates = result.Parsed - added

	i.logger.Info("Imported transactions",
		"user_id", userID,
		"parsed", result.Parsed,
		"added", result.Added,
		"duplicates", result.Duplicates)

	return result, nil
}
