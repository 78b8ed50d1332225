package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Veraticus/gofinances/internal/api"
	"github.com/Veraticus/gofinances/internal/config"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve summaries and transactions over HTTP",
		Long: `Start a JSON API for summaries, breakdowns and transactions.

The user is taken from the X-User-ID header, falling back to the configured
user. Listens on api.listen (default 127.0.0.1:8080).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "address to listen on (overrides api.listen)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	apiCfg := config.LoadAPIConfig()
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		apiCfg.Listen = listen
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr: apiCfg.Listen,
		Handler: api.NewRouter(api.Options{
			Store:          a.repo,
			Aggregator:     a.aggregator,
			Logger:         slog.Default(),
			Location:       a.location,
			DefaultUser:    a.userID,
			AllowedOrigins: apiCfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", apiCfg.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("Server exited")
	return nil
}
