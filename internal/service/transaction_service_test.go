package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/testutil"
)

// TestGenerateFlows tests derivation of cash flows from a trade.
//
// WHY: The trade flow and commission flow are written separately so fees
// can be reported in their own statement bucket. A 100-share buy at 2.00
// with a 5.00 commission must produce exactly -200 and -5, netting -205.
func TestGenerateFlows(t *testing.T) {
	t.Run("buy generates negative trade flow plus commission flow", func(t *testing.T) {
		flows := service.GenerateFlows(model.Transaction{
			ID: "tx-1", Date: mustDate("2026-01-05"), AccountName: "swing",
			Symbol: "F", Side: model.SideBuy, Price: 2, Shares: 100, Commission: 5,
		})

		if len(flows) != 2 {
			t.Fatalf("Expected 2 flows, got %d", len(flows))
		}
		if flows[0].FlowType != model.FlowStockBuy || math.Abs(flows[0].Amount-(-200)) > 1e-9 {
			t.Errorf("trade flow = %s %v, want stock_buy -200", flows[0].FlowType, flows[0].Amount)
		}
		if flows[1].FlowType != model.FlowCommission || math.Abs(flows[1].Amount-(-5)) > 1e-9 {
			t.Errorf("commission flow = %s %v, want commission -5", flows[1].FlowType, flows[1].Amount)
		}

		var net float64
		for _, f := range flows {
			net += f.Amount
			if !f.AutoGenerated {
				t.Errorf("flow %s not marked auto-generated", f.FlowType)
			}
			if f.RelatedTransactionID != "tx-1" {
				t.Errorf("flow %s not linked to source trade", f.FlowType)
			}
		}
		if math.Abs(net-(-205)) > 1e-9 {
			t.Errorf("net cash change = %v, want -205", net)
		}
	})

	t.Run("sell generates positive trade flow", func(t *testing.T) {
		flows := service.GenerateFlows(model.Transaction{
			ID: "tx-2", Date: mustDate("2026-01-06"), AccountName: "swing",
			Symbol: "F", Side: model.SideSell, Price: 2, Shares: 100, Commission: 5,
		})

		if flows[0].FlowType != model.FlowStockSell || math.Abs(flows[0].Amount-200) > 1e-9 {
			t.Errorf("trade flow = %s %v, want stock_sell 200", flows[0].FlowType, flows[0].Amount)
		}
	})

	t.Run("zero commission omits the commission flow", func(t *testing.T) {
		flows := service.GenerateFlows(model.Transaction{
			ID: "tx-3", Date: mustDate("2026-01-06"), AccountName: "swing",
			Symbol: "F", Side: model.SideBuy, Price: 2, Shares: 100,
		})

		if len(flows) != 1 {
			t.Errorf("Expected 1 flow, got %d", len(flows))
		}
	})
}

// TestTransactionService_CreateTransaction tests atomic persistence of a
// trade with its generated flows.
//
// WHY: The trade and its cash flows must commit together; a trade without
// flows would silently overstate available cash.
func TestTransactionService_CreateTransaction(t *testing.T) {
	t.Run("persists trade and both flows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		cashFlowRepo := repository.NewCashFlowRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		svc := service.NewTransactionService(transactionRepo, cashFlowRepo, accountRepo)

		created, err := svc.CreateTransaction(model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "nvda",
			Side: model.SideBuy, Price: 2, Shares: 100, Commission: 5,
		})
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if created.Symbol != "NVDA" {
			t.Errorf("Symbol = %q, want normalized NVDA", created.Symbol)
		}

		flows, err := cashFlowRepo.ListByRelatedTransaction(created.ID)
		if err != nil {
			t.Fatalf("ListByRelatedTransaction() returned unexpected error: %v", err)
		}
		if len(flows) != 2 {
			t.Fatalf("Expected 2 linked flows, got %d", len(flows))
		}
	})

	t.Run("rejects unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewTransactionService(
			repository.NewTransactionRepository(db),
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		_, err := svc.CreateTransaction(model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "nonexistent", Symbol: "NVDA",
			Side: model.SideBuy, Price: 2, Shares: 100,
		})
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Errorf("Expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("rejects non-positive shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewTransactionService(
			repository.NewTransactionRepository(db),
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		_, err := svc.CreateTransaction(model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 2, Shares: 0,
		})
		if err == nil {
			t.Error("Expected validation error for zero shares")
		}
	})
}

// TestTransactionService_DeleteTransaction tests that deletion reports but
// keeps derived flows.
//
// WHY: Cash already moved; deleting the flows would rewrite the account's
// cash history. The caller gets the orphaned flows so it can decide.
func TestTransactionService_DeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	svc := service.NewTransactionService(transactionRepo, cashFlowRepo, repository.NewAccountRepository(db))

	created, err := svc.CreateTransaction(model.Transaction{
		Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
		Side: model.SideBuy, Price: 2, Shares: 100, Commission: 5,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
	}

	orphaned, err := svc.DeleteTransaction(created.ID)
	if err != nil {
		t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
	}
	if len(orphaned) != 2 {
		t.Errorf("Expected 2 orphaned flows, got %d", len(orphaned))
	}

	// Flows survive the deletion.
	flows, err := cashFlowRepo.ListByRelatedTransaction(created.ID)
	if err != nil {
		t.Fatalf("ListByRelatedTransaction() returned unexpected error: %v", err)
	}
	if len(flows) != 2 {
		t.Errorf("Expected flows to remain after delete, got %d", len(flows))
	}

	if _, err := svc.GetTransaction(created.ID); !errors.Is(err, apperrors.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound after delete, got %v", err)
	}
}
