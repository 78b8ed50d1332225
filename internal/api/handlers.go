package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler serves the API endpoints.
type Handler struct {
	store       service.TransactionStore
	aggregator  *aggregate.Aggregator
	logger      *slog.Logger
	location    *time.Location
	now         func() time.Time
	defaultUser string
}

// NewHandler creates a Handler from router options.
func NewHandler(opts Options) *Handler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:       opts.Store,
		aggregator:  opts.Aggregator,
		logger:      logger,
		location:    loc,
		now:         time.Now,
		defaultUser: opts.DefaultUser,
	}
}

// HighlightResponse is one headline figure.
type HighlightResponse struct {
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
	LastTransaction string `json:"lastTransaction"`
}

// SummaryResponse carries the three headline figures.
type SummaryResponse struct {
	Entries   HighlightResponse `json:"entries"`
	Expensive HighlightResponse `json:"expensive"`
	Total     HighlightResponse `json:"total"`
	Skipped   int               `json:"skipped"`
}

// CategoryResponse is one breakdown row.
type CategoryResponse struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	Total            string `json:"total"`
	TotalFormatted   string `json:"totalFormatted"`
	PercentFormatted string `json:"percentFormatted"`
	Percent          int    `json:"percent"`
}

// BreakdownResponse is the per-category share of one type in one month.
type BreakdownResponse struct {
	Month             string             `json:"month"`
	MonthFormatted    string             `json:"monthFormatted"`
	Type              string             `json:"type"`
	Total             string             `json:"total"`
	TotalFormatted    string             `json:"totalFormatted"`
	Categories        []CategoryResponse `json:"categories"`
	UnknownCategories []string           `json:"unknownCategories,omitempty"`
}

// TransactionResponse is a stored transaction as returned to clients.
type TransactionResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
	Type            string `json:"type"`
	Category        string `json:"category"`
	CategoryName    string `json:"categoryName"`
	Date            string `json:"date"`
	DateFormatted   string `json:"dateFormatted"`
}

// CreateTransactionRequest is the body of POST /api/transactions.
type CreateTransactionRequest struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	// Date accepts RFC 3339 or YYYY-MM-DD. Empty means now.
	Date string `json:"date"`
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Summary returns the income, expense and net highlights over every
// transaction of the user.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	txns, skipped, ok := h.load(w, r)
	if !ok {
		return
	}

	data := h.aggregator.Summary(txns)
	RespondJSON(w, http.StatusOK, SummaryResponse{
		Entries:   highlightResponse(data.Entries),
		Expensive: highlightResponse(data.Expensive),
		Total:     highlightResponse(data.Total),
		Skipped:   skipped,
	})
}

// Breakdown returns the per-category share for ?type= and ?month=. Both are
// optional and default to expense and the current month.
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	filterType := model.TypeExpense
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := model.ParseTransactionType(raw)
		if err != nil {
			RespondError(w, http.StatusBadRequest, "invalid type", err.Error())
			return
		}
		filterType = t
	}

	period := model.PeriodOf(h.now().In(h.location))
	if raw := r.URL.Query().Get("month"); raw != "" {
		p, err := model.ParsePeriod(raw)
		if err != nil {
			RespondError(w, http.StatusBadRequest, "invalid month", err.Error())
			return
		}
		period = p
	}

	txns, _, ok := h.load(w, r)
	if !ok {
		return
	}

	b := h.aggregator.CategoryBreakdown(txns, filterType, period)
	resp := BreakdownResponse{
		Month:          period.String(),
		MonthFormatted: h.aggregator.Formatter().MonthYear(period),
		Type:           string(filterType),
		Total:          b.Total.StringFixed(2),
		TotalFormatted: b.TotalFormatted,
		Categories:     make([]CategoryResponse, 0, len(b.Categories)),
	}
	for _, c := range b.Categories {
		resp.Categories = append(resp.Categories, CategoryResponse{
			Key:              c.Key,
			Name:             c.Name,
			Color:            c.Color,
			Total:            c.Total.StringFixed(2),
			TotalFormatted:   c.TotalFormatted,
			Percent:          c.Percent,
			PercentFormatted: c.PercentFormatted,
		})
	}
	for _, u := range b.Diagnostics.UnknownCategories {
		resp.UnknownCategories = append(resp.UnknownCategories, u.TransactionID)
	}

	RespondJSON(w, http.StatusOK, resp)
}

// Categories lists the taxonomy in display order.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, h.aggregator.Taxonomy().Categories())
}

// ListTransactions returns the user's transactions, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, _, ok := h.load(w, r)
	if !ok {
		return
	}

	resp := make([]TransactionResponse, 0, len(txns))
	for _, tx := range aggregate.Newest(txns) {
		resp = append(resp, h.transactionResponse(tx))
	}
	RespondJSON(w, http.StatusOK, resp)
}

// CreateTransaction validates and stores a new transaction.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.parseCreate(req)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid transaction", err.Error())
		return
	}

	if _, err := h.store.Append(r.Context(), userID, tx); err != nil {
		h.serverError(w, "failed to save transaction", err)
		return
	}

	h.logger.Info("Transaction created", "user", userID, "transaction_id", tx.ID)
	RespondJSON(w, http.StatusCreated, h.transactionResponse(tx))
}

// DeleteTransaction removes the transaction named in the path.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	deleted, err := h.store.Delete(r.Context(), userID, id)
	if err != nil {
		h.serverError(w, "failed to delete transaction", err)
		return
	}
	if !deleted {
		RespondError(w, http.StatusNotFound, "transaction not found", id)
		return
	}

	h.logger.Info("Transaction deleted", "user", userID, "transaction_id", id)
	RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) parseCreate(req CreateTransactionRequest) (model.Transaction, error) {
	t, err := model.ParseTransactionType(req.Type)
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %q", common.ErrInvalidAmount, req.Amount)
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("%w: must be positive", common.ErrInvalidAmount)
	}

	if !h.aggregator.Taxonomy().Contains(req.Category) {
		return model.Transaction{}, fmt.Errorf("%w: %q", common.ErrUnknownCategory, req.Category)
	}

	date := h.now().In(h.location)
	if req.Date != "" {
		if date, err = parseDate(req.Date, h.location); err != nil {
			return model.Transaction{}, err
		}
	}

	tx := model.NewTransaction(req.Name, amount, t, req.Category, date)
	if err := tx.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		// Noon keeps the day stable across zone conversions.
		return t.Add(12 * time.Hour), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want RFC 3339 or YYYY-MM-DD)", s)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]model.Transaction, int, bool) {
	userID, ok := h.user(w, r)
	if !ok {
		return nil, 0, false
	}

	txns, skipped, err := h.store.Load(r.Context(), userID)
	if err != nil {
		h.serverError(w, "failed to load transactions", err)
		return nil, 0, false
	}
	if len(skipped) > 0 {
		h.logger.Warn("Skipped unreadable transactions", "user", userID, "count", len(skipped))
	}
	return txns, len(skipped), true
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(UserHeader))
	if userID == "" {
		userID = h.defaultUser
	}
	if userID == "" {
		RespondError(w, http.StatusBadRequest, "missing user", UserHeader+" header is required")
		return "", false
	}
	return userID, true
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, "error", err)
	status := http.StatusInternalServerError
	if errors.Is(err, common.ErrDatabaseCorrupted) {
		status = http.StatusServiceUnavailable
	}
	RespondError(w, status, message, nil)
}

func (h *Handler) transactionResponse(tx model.Transaction) TransactionResponse {
	f := h.aggregator.Formatter()
	name := tx.Category
	if c, ok := h.aggregator.Taxonomy().Lookup(tx.Category); ok {
		name = c.Name
	}
	return TransactionResponse{
		ID:              tx.ID,
		Name:            tx.Name,
		Amount:          tx.Amount.StringFixed(2),
		AmountFormatted: f.Currency(tx.Signed()),
		Type:            string(tx.Type),
		Category:        tx.Category,
		CategoryName:    name,
		Date:            tx.Date.Format(time.RFC3339),
		DateFormatted:   f.ShortDate(tx.Date),
	}
}

func highlightResponse(h model.Highlight) HighlightResponse {
	return HighlightResponse{
		Amount:          h.Amount.StringFixed(2),
		AmountFormatted: h.AmountFormatted,
		LastTransaction: h.LastTransaction,
	}
}
