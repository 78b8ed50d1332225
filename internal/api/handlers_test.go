package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/format"
	"github.com/Veraticus/gofinances/internal/storage"
	"github.com/Veraticus/gofinances/internal/taxonomy"
	"github.com/Veraticus/gofinances/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	db      *testutil.TestDB
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	router := NewRouter(Options{
		Store:          db.Repo,
		Aggregator:     aggregate.New(taxonomy.Default(), format.NewBRL(), nil),
		Location:       time.UTC,
		DefaultUser:    "default",
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return &testServer{handler: router, db: db}
}

func (s *testServer) seed(t *testing.T, userID string) {
	t.Helper()
	s.db.Seed(userID, testutil.MarchScenario()...)
}

func (s *testServer) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestSummary(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "alice")

	w := s.do(t, http.MethodGet, "/api/summary", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[SummaryResponse](t, w)
	assert.Equal(t, "R$ 200,00", resp.Entries.AmountFormatted)
	assert.Equal(t, "R$ 180,00", resp.Expensive.AmountFormatted)
	assert.Equal(t, "R$ 20,00", resp.Total.AmountFormatted)
	assert.Equal(t, "20.00", resp.Total.Amount)
	assert.Equal(t, "Última entrada dia 1 de março", resp.Entries.LastTransaction)
	assert.Equal(t, "01 a 20 de março", resp.Total.LastTransaction)
}

func TestSummary_DefaultUserIsEmpty(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "alice")

	w := s.do(t, http.MethodGet, "/api/summary", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[SummaryResponse](t, w)
	assert.Equal(t, "R$ 0,00", resp.Total.AmountFormatted)
	assert.Equal(t, "Não há transações", resp.Total.LastTransaction)
}

func TestBreakdown(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "alice")

	t.Run("expenses in march", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/breakdown?type=expense&month=2024-03", "alice", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[BreakdownResponse](t, w)
		assert.Equal(t, "2024-03", resp.Month)
		assert.Equal(t, "março, 2024", resp.MonthFormatted)
		assert.Equal(t, "negative", resp.Type)
		require.Len(t, resp.Categories, 2)
		assert.Equal(t, "food", resp.Categories[0].Key)
		assert.Equal(t, "150.00", resp.Categories[0].Total)
		assert.Equal(t, "83%", resp.Categories[0].PercentFormatted)
		assert.Equal(t, "transport", resp.Categories[1].Key)
		assert.Equal(t, 17, resp.Categories[1].Percent)
	})

	t.Run("income uses wire name", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/breakdown?type=positive&month=2024-03", "alice", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[BreakdownResponse](t, w)
		require.Len(t, resp.Categories, 1)
		assert.Equal(t, "salary", resp.Categories[0].Key)
	})

	t.Run("empty month", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/breakdown?month=2024-04", "alice", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[BreakdownResponse](t, w)
		assert.Empty(t, resp.Categories)
		assert.Equal(t, "R$ 0,00", resp.TotalFormatted)
	})

	t.Run("bad parameters", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/breakdown?type=sideways", "alice", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/breakdown?month=march", "alice", "").Code)
	})
}

func TestTransactions_ListNewestFirst(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "alice")

	w := s.do(t, http.MethodGet, "/api/transactions", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[[]TransactionResponse](t, w)
	require.Len(t, resp, 4)
	assert.Equal(t, "b", resp[0].ID)
	assert.Equal(t, "d", resp[3].ID)
	assert.Equal(t, "Alimentação", resp[0].CategoryName)
	assert.Equal(t, "-R$ 50,00", resp[0].AmountFormatted)
}

func TestTransactions_Create(t *testing.T) {
	s := setupServer(t)

	body := `{"name":"Cinema","amount":"42.5","type":"expense","category":"leisure","date":"2024-03-15"}`
	w := s.do(t, http.MethodPost, "/api/transactions", "alice", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[TransactionResponse](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "42.50", created.Amount)
	assert.Equal(t, "negative", created.Type)
	assert.Equal(t, "Lazer", created.CategoryName)

	txns := s.db.MustLoad("alice")
	require.Len(t, txns, 1)
	assert.Equal(t, 15, txns[0].Date.Day())
}

func TestTransactions_CreateRejectsInvalid(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"unknown type", `{"name":"x","amount":"1","type":"maybe","category":"food"}`},
		{"bad amount", `{"name":"x","amount":"ten","type":"expense","category":"food"}`},
		{"zero amount", `{"name":"x","amount":"0","type":"expense","category":"food"}`},
		{"rounds to zero", `{"name":"x","amount":"0.004","type":"expense","category":"food"}`},
		{"unknown category", `{"name":"x","amount":"1","type":"expense","category":"pets"}`},
		{"blank name", `{"name":"  ","amount":"1","type":"expense","category":"food"}`},
		{"bad date", `{"name":"x","amount":"1","type":"expense","category":"food","date":"15/03/2024"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/transactions", "alice", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decode[ErrorResponse](t, w)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestTransactions_Delete(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "alice")

	w := s.do(t, http.MethodDelete, "/api/transactions/c", "alice", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, "/api/transactions/c", "alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Another user's list is untouched.
	w = s.do(t, http.MethodDelete, "/api/transactions/a", "bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Len(t, s.db.MustLoad("alice"), 3)
}

func TestCorruptStoreReturns503(t *testing.T) {
	s := setupServer(t)
	require.NoError(t, s.db.Store.SetItem(context.Background(), storage.TransactionsKey("alice"), `"nope"`))

	w := s.do(t, http.MethodGet, "/api/summary", "alice", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
