package handlers

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/testutil"
)

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 110}}
	transactionService := service.NewTransactionService(transactionRepo, cashFlowRepo, accountRepo)
	summaryService := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices)
	return NewTransactionHandler(transactionService, summaryService), db
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	postJSON := func(handler *TransactionHandler, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)
		return w
	}

	t.Run("creates the trade and its cash flows together", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		w := postJSON(handler, `{
			"date": "2026-01-05",
			"accountName": "swing",
			"symbol": "nvda",
			"side": "buy",
			"price": 100,
			"shares": 10,
			"commission": 1
		}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if created.ID == "" {
			t.Error("created transaction has no ID")
		}
		if created.Symbol != "NVDA" {
			t.Errorf("Symbol = %q, want normalized NVDA", created.Symbol)
		}

		// The derived flows land in the same request: trade row plus a
		// separate commission row, summing to -(1000+1).
		flows, err := repository.NewCashFlowRepository(db).ListCashFlows(repository.CashFlowFilter{AccountName: "swing"})
		if err != nil {
			t.Fatalf("ListCashFlows() returned unexpected error: %v", err)
		}
		if len(flows) != 2 {
			t.Fatalf("Expected 2 generated flows, got %d", len(flows))
		}
		var sum float64
		for _, f := range flows {
			sum += f.Amount
			if f.RelatedTransactionID != created.ID {
				t.Errorf("flow %s not linked to the trade", f.ID)
			}
		}
		if math.Abs(sum-(-1001)) > 1e-9 {
			t.Errorf("flow sum = %v, want -1001", sum)
		}
	})

	t.Run("rejects an invalid body", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		w := postJSON(handler, `{"date": "2026-01-05"`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a validation failure", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		w := postJSON(handler, `{
			"date": "2026-01-05",
			"accountName": "swing",
			"symbol": "NVDA",
			"side": "short",
			"price": 100,
			"shares": 10
		}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		// Nothing may be written on a rejected request.
		flows, err := repository.NewCashFlowRepository(db).ListCashFlows(repository.CashFlowFilter{AccountName: "swing"})
		if err != nil {
			t.Fatalf("ListCashFlows() returned unexpected error: %v", err)
		}
		if len(flows) != 0 {
			t.Errorf("Expected no flows after a rejected request, got %d", len(flows))
		}
	})

	t.Run("rejects an unknown account", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		w := postJSON(handler, `{
			"date": "2026-01-05",
			"accountName": "offshore",
			"symbol": "NVDA",
			"side": "buy",
			"price": 100,
			"shares": 10
		}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("filters by account", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 10,
		})
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-06"), AccountName: "long-term", Symbol: "AMD",
			Side: model.SideBuy, Price: 50, Shares: 20,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/transaction?account=swing", nil)
		w := httptest.NewRecorder()
		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var transactions []model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&transactions); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(transactions) != 1 || transactions[0].Symbol != "NVDA" {
			t.Errorf("Expected the one swing trade, got %+v", transactions)
		}
	})
}

func TestSummaryHandler_StockSummaries(t *testing.T) {
	t.Run("returns folded positions with market values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 110}}
		handler := NewSummaryHandler(service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices))

		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 10, Commission: 1,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/summary/stocks?account=swing", nil)
		w := httptest.NewRecorder()
		handler.StockSummaries(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summaries []model.StockSummary
		if err := json.NewDecoder(w.Body).Decode(&summaries); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(summaries))
		}
		if summaries[0].NetShares != 10 {
			t.Errorf("NetShares = %d, want 10", summaries[0].NetShares)
		}
		if math.Abs(summaries[0].MarketValue-1100) > 1e-9 {
			t.Errorf("MarketValue = %v, want 1100 at the quoted price", summaries[0].MarketValue)
		}
	})
}
