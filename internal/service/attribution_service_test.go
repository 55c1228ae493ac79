package service_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/testutil"
)

// TestBeta tests the sensitivity estimate and its fallbacks.
//
// WHY: Beta divides by benchmark variance, so a flat benchmark or a
// single-point sample must fall back to 1.0 instead of blowing up. The
// estimator pairs sample covariance with population variance, so a series
// moving at exactly k times the benchmark reports k*n/(n-1), not k.
func TestBeta(t *testing.T) {
	t.Run("single observation defaults to one", func(t *testing.T) {
		if got := service.Beta([]float64{0.01}, []float64{0.01}); got != 1.0 {
			t.Errorf("Beta() = %v, want 1.0", got)
		}
	})

	t.Run("flat benchmark defaults to one", func(t *testing.T) {
		symbol := make([]float64, 12)
		bench := make([]float64, 12)
		for i := range symbol {
			symbol[i] = float64(i) * 0.001
		}
		if got := service.Beta(symbol, bench); got != 1.0 {
			t.Errorf("Beta() = %v, want 1.0 for flat benchmark", got)
		}
	})

	t.Run("symbol moving twice the benchmark", func(t *testing.T) {
		bench := []float64{0.01, -0.02, 0.03, -0.01, 0.02, 0.01, -0.01, 0.02, -0.03, 0.01, 0.02, -0.01}
		symbol := make([]float64, len(bench))
		for i, r := range bench {
			symbol[i] = 2 * r
		}
		got := service.Beta(symbol, bench)
		want := 2 * float64(len(bench)) / float64(len(bench)-1)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Beta() = %v, want %v", got, want)
		}
	})

	t.Run("a handful of observations is enough", func(t *testing.T) {
		bench := []float64{0.01, -0.02, 0.03, -0.01, 0.02}
		symbol := make([]float64, len(bench))
		for i, r := range bench {
			symbol[i] = 2 * r
		}
		got := service.Beta(symbol, bench)
		// 2 * 5/4 with five observations; the short sample must not trip
		// the default.
		if math.Abs(got-2.5) > 1e-9 {
			t.Errorf("Beta() = %v, want 2.5", got)
		}
	})

	t.Run("mismatched lengths trim to the most recent window", func(t *testing.T) {
		bench := []float64{0.01, -0.02, 0.03, -0.01, 0.02}
		symbol := []float64{0.5, -0.5, 0.02, -0.04, 0.06, -0.02, 0.04}
		got := service.Beta(symbol, bench)
		// The symbol's two leading outliers fall outside the shared window,
		// leaving an exact 2x relationship over the trimmed five points.
		if math.Abs(got-2.5) > 1e-9 {
			t.Errorf("Beta() = %v, want 2.5 over the trimmed window", got)
		}
	})
}

// TestAttributionService_Analyze tests attribution over stored return
// series.
//
// WHY: The alpha components are only trustworthy if they reconcile: selection
// plus timing plus strategy plus allocation must equal total alpha.
func TestAttributionService_Analyze(t *testing.T) {
	newFixture := func(t *testing.T) (*service.AttributionService, *sql.DB) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		svc := service.NewAttributionService(
			repository.NewPriceRepository(db),
			optionRepo,
			accountRepo,
			repository.NewSnapshotRepository(db),
			transactionRepo,
			"SPY",
		)
		return svc, db
	}

	t.Run("rejects missing dates", func(t *testing.T) {
		svc, _ := newFixture(t)
		_, err := svc.Analyze(context.Background(), "swing", "", "2026-02-01", "")
		if !errors.Is(err, apperrors.ErrInvalidDate) {
			t.Errorf("Expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		svc, _ := newFixture(t)
		_, err := svc.Analyze(context.Background(), "swing", "2026-02-01", "2026-01-01", "")
		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("rejects unknown account", func(t *testing.T) {
		svc, _ := newFixture(t)
		_, err := svc.Analyze(context.Background(), "offshore", "2026-01-01", "2026-02-01", "")
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Errorf("Expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("no holdings", func(t *testing.T) {
		svc, _ := newFixture(t)
		_, err := svc.Analyze(context.Background(), "swing", "2026-01-01", "2026-02-01", "")
		if !errors.Is(err, apperrors.ErrInsufficientData) {
			t.Errorf("Expected ErrInsufficientData, got %v", err)
		}
	})

	t.Run("sold-out symbols stay in the universe", func(t *testing.T) {
		svc, db := newFixture(t)
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-02"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 10,
		})
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-02"), AccountName: "swing", Symbol: "TSLA",
			Side: model.SideBuy, Price: 200, Shares: 5,
		})
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-09"), AccountName: "swing", Symbol: "TSLA",
			Side: model.SideSell, Price: 210, Shares: 5,
		})

		bench := []float64{0.01, -0.02, 0.03, -0.01, 0.02, 0.01, -0.01, 0.02, -0.03, 0.01, 0.02, -0.01}
		start := mustDate("2026-01-05")
		testutil.InsertBenchmarkReturns(t, db, "SPY", start, bench)
		testutil.InsertDailyReturns(t, db, "NVDA", start, bench)
		testutil.InsertDailyReturns(t, db, "TSLA", start, bench)

		result, err := svc.Analyze(context.Background(), "swing", "2026-01-05", "2026-01-31", "")
		if err != nil {
			t.Fatalf("Analyze() returned unexpected error: %v", err)
		}

		// Attribution explains what the account actually did over the
		// period, so a position closed mid-window still counts.
		if len(result.Breakdown) != 2 {
			t.Fatalf("Expected 2 symbols in breakdown, got %d", len(result.Breakdown))
		}
		found := false
		for _, row := range result.Breakdown {
			if row.Symbol == "TSLA" {
				found = true
			}
		}
		if !found {
			t.Errorf("sold-out TSLA missing from breakdown: %+v", result.Breakdown)
		}
	})

	t.Run("alpha components reconcile", func(t *testing.T) {
		svc, db := newFixture(t)
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-02"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 10,
		})
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-02"), AccountName: "swing", Symbol: "AMD",
			Side: model.SideBuy, Price: 100, Shares: 10,
		})

		bench := []float64{0.01, -0.02, 0.03, -0.01, 0.02, 0.01, -0.01, 0.02, -0.03, 0.01, 0.02, -0.01}
		amplified := make([]float64, len(bench))
		for i, r := range bench {
			amplified[i] = 1.5 * r
		}
		start := mustDate("2026-01-05")
		testutil.InsertBenchmarkReturns(t, db, "SPY", start, bench)
		testutil.InsertDailyReturns(t, db, "NVDA", start, bench)
		testutil.InsertDailyReturns(t, db, "AMD", start, amplified)

		result, err := svc.Analyze(context.Background(), "swing", "2026-01-05", "2026-01-31", "")
		if err != nil {
			t.Fatalf("Analyze() returned unexpected error: %v", err)
		}

		if result.BenchmarkSymbol != "SPY" {
			t.Errorf("BenchmarkSymbol = %q, want default SPY", result.BenchmarkSymbol)
		}
		if len(result.Breakdown) != 2 {
			t.Fatalf("Expected 2 symbols in breakdown, got %d", len(result.Breakdown))
		}
		for _, row := range result.Breakdown {
			if math.Abs(row.Weight-0.5) > 1e-9 {
				t.Errorf("%s Weight = %v, want equal weight 0.5", row.Symbol, row.Weight)
			}
		}

		// The equal-weighted mean series moves at 1.25x the benchmark, and
		// the one portfolio beta comes from regressing that single series.
		wantBeta := 1.25 * float64(len(bench)) / float64(len(bench)-1)
		if math.Abs(result.PortfolioBeta-wantBeta) > 1e-3 {
			t.Errorf("PortfolioBeta = %v, want %v", result.PortfolioBeta, wantBeta)
		}

		componentSum := result.SelectionAlpha + result.TimingAlpha +
			result.StrategyAlpha + result.AllocationAlpha
		if math.Abs(componentSum-result.TotalAlpha) > 1e-9 {
			t.Errorf("alpha components sum to %v, TotalAlpha is %v", componentSum, result.TotalAlpha)
		}
		if math.Abs(result.ExcessReturn-(result.TotalReturn-result.BenchmarkReturn)) > 1e-4 {
			t.Errorf("ExcessReturn = %v, want TotalReturn-BenchmarkReturn", result.ExcessReturn)
		}

		history, err := svc.History("swing", 10)
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("Expected 1 persisted run, got %d", len(history))
		}
	})
}
