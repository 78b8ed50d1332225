// Package api serves summaries, breakdowns and transactions over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures the router.
type Options struct {
	Store          service.TransactionStore
	Aggregator     *aggregate.Aggregator
	Logger         *slog.Logger
	Location       *time.Location
	DefaultUser    string
	AllowedOrigins []string
}

// NewRouter creates and configures the HTTP router.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := NewHandler(opts)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(newCORS(opts.AllowedOrigins).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/summary", h.Summary)
		r.Get("/breakdown", h.Breakdown)
		r.Get("/categories", h.Categories)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})
	})

	return r
}
