package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/config"
	"github.com/Veraticus/gofinances/internal/format"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/storage"
	"github.com/spf13/viper"
)

// app bundles what most commands need.
type app struct {
	store      *storage.SQLiteStorage
	repo       *storage.TransactionRepository
	aggregator *aggregate.Aggregator
	location   *time.Location
	userID     string
}

// openApp opens and migrates the database and builds the aggregator from
// configuration. The caller must call close.
func openApp(ctx context.Context) (*app, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	tax, err := config.LoadTaxonomy()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	return &app{
		store:      store,
		repo:       storage.NewTransactionRepository(store, loc),
		aggregator: aggregate.New(tax, format.NewBRL(), slog.Default()),
		location:   loc,
		userID:     config.UserID(),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// load reads the user's transactions and warns about unreadable records.
func (a *app) load(ctx context.Context) ([]model.Transaction, error) {
	txns, _, err := a.repo.Load(ctx, a.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txns, nil
}

// initStorage opens the database at database.path and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// currentPeriod resolves a --month flag, defaulting to the current month.
func currentPeriod(month string, loc *time.Location) (model.Period, error) {
	if month == "" {
		return model.PeriodOf(time.Now().In(loc)), nil
	}
	return model.ParsePeriod(month)
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "gofinances", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
