package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/testutil"
)

// TestFoldTransactions tests ledger folding into position summaries.
//
// WHY: Every valuation in the system starts from this fold. Commissions
// must be part of the cost basis, sells must release shares, and a closed
// position must carry no average cost.
func TestFoldTransactions(t *testing.T) {
	t.Run("single buy includes commission in cost basis", func(t *testing.T) {
		txs := []model.Transaction{
			{Symbol: "NVDA", Side: model.SideBuy, Price: 100, Shares: 100, Commission: 1, Date: mustDate("2026-01-05")},
		}

		summary := service.FoldTransactions("NVDA", "long-term", txs)

		if summary.NetShares != 100 {
			t.Errorf("NetShares = %d, want 100", summary.NetShares)
		}
		if math.Abs(summary.Invested-10001) > 1e-9 {
			t.Errorf("Invested = %v, want 10001", summary.Invested)
		}
		if math.Abs(summary.AvgCost-100.01) > 1e-9 {
			t.Errorf("AvgCost = %v, want 100.01", summary.AvgCost)
		}
		if math.Abs(summary.NetCashChange-(-10001)) > 1e-9 {
			t.Errorf("NetCashChange = %v, want -10001", summary.NetCashChange)
		}
	})

	t.Run("partial sell reduces shares and recovers cash", func(t *testing.T) {
		txs := []model.Transaction{
			{Symbol: "AAPL", Side: model.SideBuy, Price: 100, Shares: 100, Commission: 1, Date: mustDate("2026-01-05")},
			{Symbol: "AAPL", Side: model.SideSell, Price: 120, Shares: 40, Commission: 1, Date: mustDate("2026-02-05")},
		}

		summary := service.FoldTransactions("AAPL", "long-term", txs)

		if summary.NetShares != 60 {
			t.Errorf("NetShares = %d, want 60", summary.NetShares)
		}
		// -10001 + 4799 = -5202 still invested across 60 shares.
		if math.Abs(summary.NetCashChange-(-5202)) > 1e-9 {
			t.Errorf("NetCashChange = %v, want -5202", summary.NetCashChange)
		}
		if math.Abs(summary.AvgCost-86.70) > 1e-9 {
			t.Errorf("AvgCost = %v, want 86.70", summary.AvgCost)
		}
		if summary.BuyCount != 1 || summary.SellCount != 1 {
			t.Errorf("counts = %d buys, %d sells, want 1 and 1", summary.BuyCount, summary.SellCount)
		}
		if summary.FirstTrade != "2026-01-05" || summary.LastTrade != "2026-02-05" {
			t.Errorf("trade dates = %s..%s", summary.FirstTrade, summary.LastTrade)
		}
	})

	t.Run("fully closed position has no average cost", func(t *testing.T) {
		txs := []model.Transaction{
			{Symbol: "TSLA", Side: model.SideBuy, Price: 200, Shares: 10, Date: mustDate("2026-01-05")},
			{Symbol: "TSLA", Side: model.SideSell, Price: 250, Shares: 10, Date: mustDate("2026-03-05")},
		}

		summary := service.FoldTransactions("TSLA", "swing", txs)

		if summary.NetShares != 0 {
			t.Errorf("NetShares = %d, want 0", summary.NetShares)
		}
		if summary.AvgCost != 0 || summary.Invested != 0 {
			t.Errorf("closed position AvgCost = %v, Invested = %v, want 0, 0", summary.AvgCost, summary.Invested)
		}
		// Net profit of 500 shows as positive cash change.
		if math.Abs(summary.NetCashChange-500) > 1e-9 {
			t.Errorf("NetCashChange = %v, want 500", summary.NetCashChange)
		}
	})

	t.Run("folding is stable across repeated evaluation", func(t *testing.T) {
		txs := []model.Transaction{
			{Symbol: "MSFT", Side: model.SideBuy, Price: 300, Shares: 5, Commission: 0.5, Date: mustDate("2026-01-05")},
		}

		first := service.FoldTransactions("MSFT", "long-term", txs)
		second := service.FoldTransactions("MSFT", "long-term", txs)

		if first != second {
			t.Errorf("repeated fold diverged: %+v vs %+v", first, second)
		}
	})

	t.Run("foreign symbols are ignored", func(t *testing.T) {
		txs := []model.Transaction{
			{Symbol: "NVDA", Side: model.SideBuy, Price: 100, Shares: 100, Date: mustDate("2026-01-05")},
			{Symbol: "AMD", Side: model.SideBuy, Price: 100, Shares: 999, Date: mustDate("2026-01-05")},
		}

		summary := service.FoldTransactions("NVDA", "long-term", txs)
		if summary.NetShares != 100 {
			t.Errorf("NetShares = %d, want 100", summary.NetShares)
		}
	})
}

// TestSummaryService_StockSummaries tests live valuation of held
// positions.
//
// WHY: Unrealized PnL and market value must come from the price resolver
// for symbols still held; fully closed positions must drop out of the
// summary list entirely, and a symbol with no quote must be carried at
// cost basis rather than valued at zero.
func TestSummaryService_StockSummaries(t *testing.T) {
	t.Run("held position is valued at the live quote", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 110}}
		svc := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices)

		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "long-term", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 100, Commission: 1,
		})

		summaries, err := svc.StockSummaries(context.Background(), "long-term")
		if err != nil {
			t.Fatalf("StockSummaries() returned unexpected error: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary, got %d", len(summaries))
		}

		got := summaries[0]
		if math.Abs(got.CurrentPrice-110) > 1e-9 {
			t.Errorf("CurrentPrice = %v, want 110", got.CurrentPrice)
		}
		if math.Abs(got.MarketValue-11000) > 1e-9 {
			t.Errorf("MarketValue = %v, want 11000", got.MarketValue)
		}
		if math.Abs(got.UnrealizedPnL-999) > 1e-9 {
			t.Errorf("UnrealizedPnL = %v, want 999", got.UnrealizedPnL)
		}
		if got.LockedShares != 0 || got.AvailableShares != 100 {
			t.Errorf("LockedShares/AvailableShares = %d/%d, want 0/100", got.LockedShares, got.AvailableShares)
		}
	})

	t.Run("fully closed symbol is omitted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 110, "TSLA": 250}}
		svc := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices)

		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 10,
		})
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "TSLA",
			Side: model.SideBuy, Price: 200, Shares: 10,
		})
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-02-05"), AccountName: "swing", Symbol: "TSLA",
			Side: model.SideSell, Price: 250, Shares: 10,
		})

		summaries, err := svc.StockSummaries(context.Background(), "swing")
		if err != nil {
			t.Fatalf("StockSummaries() returned unexpected error: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary, got %d", len(summaries))
		}
		if summaries[0].Symbol != "NVDA" {
			t.Errorf("remaining summary = %s, want NVDA", summaries[0].Symbol)
		}
	})

	t.Run("open covered calls lock shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 110}}
		svc := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices)

		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 150,
		})
		testutil.InsertOption(t, db, model.OptionTrade{
			AccountName: "swing", Symbol: "NVDA", OptionType: model.OptionSellCall,
			StrikePrice: 120, PremiumPerShare: 2, Contracts: 2, Status: model.OptionStatusOpen,
			OpenDate: mustDate("2026-01-10"), ExpirationDate: mustDate("2026-02-20"),
		})

		summaries, err := svc.StockSummaries(context.Background(), "swing")
		if err != nil {
			t.Fatalf("StockSummaries() returned unexpected error: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary, got %d", len(summaries))
		}

		got := summaries[0]
		if got.LockedShares != 200 {
			t.Errorf("LockedShares = %d, want 200", got.LockedShares)
		}
		// Two contracts against 150 shares: the shortfall shows as negative
		// availability, never clamped to zero.
		if got.AvailableShares != -50 {
			t.Errorf("AvailableShares = %d, want -50", got.AvailableShares)
		}
	})

	t.Run("symbol without a quote is carried at cost basis", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		svc := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, testutil.StaticPrices{})

		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "long-term", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 100, Commission: 1,
		})

		summaries, err := svc.StockSummaries(context.Background(), "long-term")
		if err != nil {
			t.Fatalf("StockSummaries() returned unexpected error: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary, got %d", len(summaries))
		}

		got := summaries[0]
		if math.Abs(got.CurrentPrice-100.01) > 1e-9 {
			t.Errorf("CurrentPrice = %v, want AvgCost 100.01", got.CurrentPrice)
		}
		if math.Abs(got.MarketValue-10001) > 1e-9 {
			t.Errorf("MarketValue = %v, want Invested 10001", got.MarketValue)
		}
		if got.UnrealizedPnL != 0 {
			t.Errorf("UnrealizedPnL = %v, want 0 at cost basis", got.UnrealizedPnL)
		}
	})
}

// TestSummaryService_Weights tests that position weights sum to one.
func TestSummaryService_Weights(t *testing.T) {
	db := testutil.SetupTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 100, "AAPL": 100}}
	svc := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices)

	testutil.InsertTransaction(t, db, model.Transaction{
		Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
		Side: model.SideBuy, Price: 100, Shares: 30,
	})
	testutil.InsertTransaction(t, db, model.Transaction{
		Date: mustDate("2026-01-06"), AccountName: "swing", Symbol: "AAPL",
		Side: model.SideBuy, Price: 100, Shares: 10,
	})

	weights, err := svc.Weights(context.Background(), "swing")
	if err != nil {
		t.Fatalf("Weights() returned unexpected error: %v", err)
	}
	if len(weights) != 2 {
		t.Fatalf("Expected 2 weights, got %d", len(weights))
	}

	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if math.Abs(total-1.0) > 1e-6 {
		t.Errorf("weights sum to %v, want 1.0", total)
	}
}
