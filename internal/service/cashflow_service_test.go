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

// TestCashFlowService_RecordCashFlow tests manual ledger entry.
//
// WHY: Manual entries must never masquerade as derived ones; a deposit
// recorded by hand is realized cash but carries no source record.
func TestCashFlowService_RecordCashFlow(t *testing.T) {
	t.Run("persists a deposit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewCashFlowService(
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		created, err := svc.RecordCashFlow(model.CashFlow{
			Date: mustDate("2026-01-05"), AccountName: "swing",
			FlowType: model.FlowDeposit, Amount: 5000,
		})
		if err != nil {
			t.Fatalf("RecordCashFlow() returned unexpected error: %v", err)
		}
		if created.AutoGenerated {
			t.Error("manual flow marked auto-generated")
		}
		if !created.IsRealized {
			t.Error("manual flow not marked realized")
		}
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewCashFlowService(
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		_, err := svc.RecordCashFlow(model.CashFlow{
			Date: mustDate("2026-01-05"), AccountName: "swing",
			FlowType: model.FlowDeposit, Amount: 0,
		})
		if err == nil {
			t.Error("Expected error for zero amount")
		}
	})

	t.Run("rejects unknown flow type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewCashFlowService(
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		_, err := svc.RecordCashFlow(model.CashFlow{
			Date: mustDate("2026-01-05"), AccountName: "swing",
			FlowType: "bribe", Amount: 100,
		})
		if err == nil {
			t.Error("Expected error for unknown flow type")
		}
	})
}

// TestCashFlowService_Statement tests bucket classification and the
// conservation property.
//
// WHY: A statement whose buckets don't sum to the net change has silently
// dropped or double-counted a flow; that invariant is the whole point of
// the statement.
func TestCashFlowService_Statement(t *testing.T) {
	t.Run("bucket totals sum to net change", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewCashFlowService(
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		testutil.InsertCashFlow(t, db, model.CashFlow{
			Date: mustDate("2026-01-05"), AccountName: "swing",
			FlowType: model.FlowStockBuy, Amount: -10000, Symbol: "NVDA",
		})
		testutil.InsertCashFlow(t, db, model.CashFlow{
			Date: mustDate("2026-01-10"), AccountName: "swing",
			FlowType: model.FlowDividend, Amount: 85, Symbol: "NVDA",
		})
		testutil.InsertCashFlow(t, db, model.CashFlow{
			Date: mustDate("2026-01-15"), AccountName: "swing",
			FlowType: model.FlowDeposit, Amount: 5000,
		})
		testutil.InsertCashFlow(t, db, model.CashFlow{
			Date: mustDate("2026-01-05"), AccountName: "swing",
			FlowType: model.FlowCommission, Amount: -1, Symbol: "NVDA",
		})
		testutil.InsertCashFlow(t, db, model.CashFlow{
			Date: mustDate("2026-01-12"), AccountName: "swing",
			FlowType: model.FlowOptionPremiumIn, Amount: 250, Symbol: "NVDA",
		})

		statement, err := svc.Statement("swing", "2026-01-01", "2026-01-31")
		if err != nil {
			t.Fatalf("Statement() returned unexpected error: %v", err)
		}

		if math.Abs(statement.Investing.Total-(-10000)) > 1e-9 {
			t.Errorf("Investing.Total = %v, want -10000", statement.Investing.Total)
		}
		if math.Abs(statement.Operating.Total-335) > 1e-9 {
			t.Errorf("Operating.Total = %v, want 335 (dividend + option premium)", statement.Operating.Total)
		}
		if math.Abs(statement.Financing.Total-5000) > 1e-9 {
			t.Errorf("Financing.Total = %v, want 5000", statement.Financing.Total)
		}
		if math.Abs(statement.Fees.Total-(-1)) > 1e-9 {
			t.Errorf("Fees.Total = %v, want -1", statement.Fees.Total)
		}

		sum := statement.Operating.Total + statement.Investing.Total +
			statement.Financing.Total + statement.Fees.Total
		if math.Abs(sum-statement.NetChange) > 1e-9 {
			t.Errorf("bucket totals sum to %v, NetChange is %v", sum, statement.NetChange)
		}
	})

	t.Run("flows outside the period are excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewCashFlowService(
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		testutil.InsertCashFlow(t, db, model.CashFlow{
			Date: mustDate("2025-12-31"), AccountName: "swing",
			FlowType: model.FlowDeposit, Amount: 1000,
		})

		statement, err := svc.Statement("swing", "2026-01-01", "2026-01-31")
		if err != nil {
			t.Fatalf("Statement() returned unexpected error: %v", err)
		}
		if statement.NetChange != 0 {
			t.Errorf("NetChange = %v, want 0", statement.NetChange)
		}
	})

	t.Run("rejects inverted date range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewCashFlowService(
			repository.NewCashFlowRepository(db),
			repository.NewAccountRepository(db),
		)

		_, err := svc.Statement("swing", "2026-02-01", "2026-01-01")
		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})
}

// TestCashFlowService_MonthlySummaries tests per-month aggregation order
// and option income tracking.
func TestCashFlowService_MonthlySummaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewCashFlowService(
		repository.NewCashFlowRepository(db),
		repository.NewAccountRepository(db),
	)

	testutil.InsertCashFlow(t, db, model.CashFlow{
		Date: mustDate("2026-02-10"), AccountName: "swing",
		FlowType: model.FlowOptionPremiumIn, Amount: 250, Symbol: "NVDA",
	})
	testutil.InsertCashFlow(t, db, model.CashFlow{
		Date: mustDate("2026-01-05"), AccountName: "swing",
		FlowType: model.FlowDeposit, Amount: 5000,
	})
	testutil.InsertCashFlow(t, db, model.CashFlow{
		Date: mustDate("2026-01-20"), AccountName: "swing",
		FlowType: model.FlowWithdrawal, Amount: -500,
	})

	summaries, err := svc.MonthlySummaries("swing")
	if err != nil {
		t.Fatalf("MonthlySummaries() returned unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(summaries))
	}

	jan := summaries[0]
	if jan.Month != "2026-01" {
		t.Errorf("first month = %q, want 2026-01 (oldest first)", jan.Month)
	}
	if math.Abs(jan.Inflow-5000) > 1e-9 || math.Abs(jan.Outflow-(-500)) > 1e-9 {
		t.Errorf("January inflow/outflow = %v/%v, want 5000/-500", jan.Inflow, jan.Outflow)
	}

	feb := summaries[1]
	if math.Abs(feb.OptionIncome-250) > 1e-9 {
		t.Errorf("February OptionIncome = %v, want 250", feb.OptionIncome)
	}
}
