package service_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/testutil"
)

func pricePoint(symbol, date string, dailyReturn *float64) model.PricePoint {
	return model.PricePoint{Symbol: symbol, PriceDate: mustDate(date), DailyReturn: dailyReturn}
}

// TestAlignedReturns tests date-intersection alignment of return series.
//
// WHY: Correlating series with mismatched dates compares apples to oranges;
// a symbol's gap day must drop that date for every symbol.
func TestAlignedReturns(t *testing.T) {
	t.Run("keeps only dates every symbol covers", func(t *testing.T) {
		series := map[string][]model.PricePoint{
			"NVDA": {
				pricePoint("NVDA", "2026-01-05", ptr(0.01)),
				pricePoint("NVDA", "2026-01-06", ptr(0.02)),
				pricePoint("NVDA", "2026-01-07", ptr(-0.01)),
			},
			"AAPL": {
				pricePoint("AAPL", "2026-01-05", ptr(0.005)),
				pricePoint("AAPL", "2026-01-07", ptr(0.015)),
			},
		}

		aligned, observations := service.AlignedReturns(series)
		if observations != 2 {
			t.Fatalf("observations = %d, want 2", observations)
		}
		if len(aligned["NVDA"]) != 2 || len(aligned["AAPL"]) != 2 {
			t.Errorf("aligned lengths = %d/%d, want 2/2", len(aligned["NVDA"]), len(aligned["AAPL"]))
		}
		// 2026-01-06 is dropped, so NVDA's second value is the Jan 7 return.
		if math.Abs(aligned["NVDA"][1]-(-0.01)) > 1e-12 {
			t.Errorf("aligned NVDA[1] = %v, want -0.01", aligned["NVDA"][1])
		}
	})

	t.Run("points without a stored return are skipped", func(t *testing.T) {
		series := map[string][]model.PricePoint{
			"NVDA": {
				pricePoint("NVDA", "2026-01-05", nil),
				pricePoint("NVDA", "2026-01-06", ptr(0.02)),
			},
			"AAPL": {
				pricePoint("AAPL", "2026-01-05", ptr(0.005)),
				pricePoint("AAPL", "2026-01-06", ptr(0.01)),
			},
		}

		_, observations := service.AlignedReturns(series)
		if observations != 1 {
			t.Errorf("observations = %d, want 1", observations)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		aligned, observations := service.AlignedReturns(nil)
		if observations != 0 || len(aligned) != 0 {
			t.Errorf("AlignedReturns(nil) = %v, %d, want empty, 0", aligned, observations)
		}
	})
}

// TestBuildMatrix tests the pairwise correlation matrix.
func TestBuildMatrix(t *testing.T) {
	aligned := map[string][]float64{
		"NVDA": {0.01, -0.02, 0.03, -0.01, 0.02},
		"AMD":  {-0.01, 0.02, -0.03, 0.01, -0.02},
	}

	matrix := service.BuildMatrix(aligned)

	if len(matrix.Symbols) != 2 || matrix.Symbols[0] != "AMD" {
		t.Fatalf("Symbols = %v, want sorted [AMD NVDA]", matrix.Symbols)
	}
	for i := range matrix.Symbols {
		if matrix.Values[i][i] != 1 {
			t.Errorf("diagonal [%d][%d] = %v, want 1", i, i, matrix.Values[i][i])
		}
	}
	if matrix.Values[0][1] != matrix.Values[1][0] {
		t.Errorf("matrix not symmetric: %v vs %v", matrix.Values[0][1], matrix.Values[1][0])
	}
	// The series are exact mirrors of each other.
	if math.Abs(matrix.Values[0][1]-(-1)) > 1e-4 {
		t.Errorf("correlation = %v, want -1", matrix.Values[0][1])
	}
}

func equalWeights(symbols ...string) []model.PortfolioWeight {
	weights := make([]model.PortfolioWeight, len(symbols))
	for i, s := range symbols {
		weights[i] = model.PortfolioWeight{Symbol: s, Weight: 1 / float64(len(symbols))}
	}
	return weights
}

func uniformMatrix(corr float64, symbols ...string) model.CorrelationMatrix {
	values := make([][]float64, len(symbols))
	for i := range symbols {
		values[i] = make([]float64, len(symbols))
		for j := range symbols {
			if i == j {
				values[i][j] = 1
			} else {
				values[i][j] = corr
			}
		}
	}
	return model.CorrelationMatrix{Symbols: symbols, Values: values}
}

// TestScoreDiversification tests the composite score bands.
//
// WHY: The four sub-scores have fixed maxima (25/35/20/20) and the rating
// bands drive user-facing messaging; a band shift would silently relabel
// every portfolio.
func TestScoreDiversification(t *testing.T) {
	t.Run("empty portfolio", func(t *testing.T) {
		score := service.ScoreDiversification(nil, model.CorrelationMatrix{}, nil)
		if score.Total != 0 || score.Rating != "no holdings" {
			t.Errorf("score = %v %q, want 0 with rating \"no holdings\"", score.Total, score.Rating)
		}
	})

	t.Run("broad uncorrelated portfolio", func(t *testing.T) {
		symbols := []string{"S01", "S02", "S03", "S04", "S05", "S06", "S07", "S08", "S09", "S10"}
		score := service.ScoreDiversification(equalWeights(symbols...), uniformMatrix(0.2, symbols...), nil)

		// 20 count + 35 correlation + 20 effective-N + 10 sector default.
		if score.Total != 85 {
			t.Errorf("Total = %v, want 85", score.Total)
		}
		if score.Rating != "excellent" {
			t.Errorf("Rating = %q, want excellent", score.Rating)
		}
		// Ten equal holdings at avg correlation 0.2: (1/0.1) x (1-0.2).
		if math.Abs(score.EffectiveN-8) > 1e-9 {
			t.Errorf("EffectiveN = %v, want 8", score.EffectiveN)
		}
		if len(score.Recommendations) != 0 {
			t.Errorf("unexpected recommendations: %v", score.Recommendations)
		}
	})

	t.Run("anti-correlated pair lands in the top correlation band", func(t *testing.T) {
		score := service.ScoreDiversification(
			equalWeights("AMD", "NVDA"), uniformMatrix(-1, "AMD", "NVDA"), nil)

		if score.CorrelationScore != 35 {
			t.Errorf("CorrelationScore = %v, want 35", score.CorrelationScore)
		}
		// Effective-N treats a perfectly inverse pair as one position: the
		// magnitude of the co-movement counts, not its direction.
		if math.Abs(score.EffectiveN-1) > 1e-9 {
			t.Errorf("EffectiveN = %v, want floor of 1", score.EffectiveN)
		}
		// 5 count + 35 correlation + 15 effective-N + 10 sector default.
		if score.Total != 65 || score.Rating != "good" {
			t.Errorf("score = %v %q, want 65 good", score.Total, score.Rating)
		}
	})

	t.Run("concentrated correlated pair", func(t *testing.T) {
		weights := []model.PortfolioWeight{
			{Symbol: "AMD", Weight: 0.9},
			{Symbol: "NVDA", Weight: 0.1},
		}
		score := service.ScoreDiversification(weights, uniformMatrix(0.9, "AMD", "NVDA"), nil)

		// 5 count + 5 correlation + 15 effective-N (floored at 1) + 10 sector.
		if score.Total != 35 || score.Rating != "poor" {
			t.Errorf("score = %v %q, want 35 poor", score.Total, score.Rating)
		}
		if math.Abs(score.EffectiveN-1) > 1e-9 {
			t.Errorf("EffectiveN = %v, want floor of 1", score.EffectiveN)
		}
		if len(score.Recommendations) != 2 {
			t.Errorf("Expected holding-count and correlation recommendations, got %v", score.Recommendations)
		}
	})

	t.Run("sector data replaces the default sub-score", func(t *testing.T) {
		symbols := []string{"AMD", "NVDA", "XOM"}
		spread := service.ScoreDiversification(equalWeights(symbols...), uniformMatrix(0, symbols...),
			map[string]string{"AMD": "tech", "NVDA": "tech", "XOM": "energy"})
		if spread.SectorScore != 10 {
			t.Errorf("SectorScore = %v, want 10 for two sectors", spread.SectorScore)
		}

		single := service.ScoreDiversification(equalWeights(symbols...), uniformMatrix(0, symbols...),
			map[string]string{"AMD": "tech", "NVDA": "tech", "XOM": "tech"})
		if single.SectorScore != 5 {
			t.Errorf("SectorScore = %v, want 5 for one sector", single.SectorScore)
		}
		found := false
		for _, r := range single.Recommendations {
			if strings.Contains(r, "sector") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a sector recommendation, got %v", single.Recommendations)
		}
	})
}

// TestCorrelationService_Analyze tests the full analysis path against the
// database.
func TestCorrelationService_Analyze(t *testing.T) {
	newFixture := func(t *testing.T) (*service.CorrelationService, *sql.DB) {
		db := testutil.SetupTestDB(t)
		transactionRepo := repository.NewTransactionRepository(db)
		optionRepo := repository.NewOptionRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 100, "AMD": 100}}
		summaries := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, prices)
		svc := service.NewCorrelationService(
			repository.NewPriceRepository(db),
			repository.NewSnapshotRepository(db),
			summaries,
			0.7,
			90,
		)
		return svc, db
	}

	t.Run("fewer than two held symbols", func(t *testing.T) {
		svc, db := newFixture(t)
		testutil.InsertTransaction(t, db, model.Transaction{
			Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
			Side: model.SideBuy, Price: 100, Shares: 10,
		})

		_, err := svc.Analyze(context.Background(), "swing", 0)
		if !errors.Is(err, apperrors.ErrInsufficientData) {
			t.Errorf("Expected ErrInsufficientData, got %v", err)
		}
	})

	t.Run("too few aligned observations", func(t *testing.T) {
		svc, db := newFixture(t)
		insertPair(t, db)
		start := time.Now().UTC().AddDate(0, 0, -5)
		testutil.InsertDailyReturns(t, db, "NVDA", start, []float64{0.01, 0.02, -0.01})
		testutil.InsertDailyReturns(t, db, "AMD", start, []float64{0.01, 0.02, -0.01})

		_, err := svc.Analyze(context.Background(), "swing", 0)
		if !errors.Is(err, apperrors.ErrInsufficientData) {
			t.Errorf("Expected ErrInsufficientData, got %v", err)
		}
	})

	t.Run("computes matrix and persists a snapshot", func(t *testing.T) {
		svc, db := newFixture(t)
		insertPair(t, db)

		start := time.Now().UTC().AddDate(0, 0, -30)
		returns := []float64{0.01, -0.02, 0.03, -0.01, 0.02, 0.01, -0.01, 0.02, -0.03, 0.01, 0.02, -0.01}
		mirrored := make([]float64, len(returns))
		for i, r := range returns {
			mirrored[i] = -r
		}
		testutil.InsertDailyReturns(t, db, "NVDA", start, returns)
		testutil.InsertDailyReturns(t, db, "AMD", start, mirrored)

		analysis, err := svc.Analyze(context.Background(), "swing", 0)
		if err != nil {
			t.Fatalf("Analyze() returned unexpected error: %v", err)
		}
		if analysis.Observations != len(returns) {
			t.Errorf("Observations = %d, want %d", analysis.Observations, len(returns))
		}
		if math.Abs(analysis.Stats.Avg-(-1)) > 1e-3 {
			t.Errorf("average correlation = %v, want -1", analysis.Stats.Avg)
		}
		// An inverse pair co-moves as strongly as a parallel one, so the
		// threshold applies to the correlation's magnitude.
		if len(analysis.HighPairs) != 1 {
			t.Fatalf("Expected 1 high pair, got %+v", analysis.HighPairs)
		}
		if math.Abs(analysis.HighPairs[0].Correlation-(-1)) > 1e-3 {
			t.Errorf("high pair correlation = %v, want -1", analysis.HighPairs[0].Correlation)
		}
		if len(analysis.Clusters) != 1 {
			t.Fatalf("Expected 1 cluster, got %+v", analysis.Clusters)
		}
		if len(analysis.Clusters[0].Symbols) != 2 {
			t.Errorf("cluster symbols = %v, want both of the pair", analysis.Clusters[0].Symbols)
		}
		if analysis.Diversification.CorrelationScore != 35 {
			t.Errorf("CorrelationScore = %v, want top band 35", analysis.Diversification.CorrelationScore)
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

func insertPair(t *testing.T, db *sql.DB) {
	t.Helper()
	testutil.InsertTransaction(t, db, model.Transaction{
		Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "NVDA",
		Side: model.SideBuy, Price: 100, Shares: 10,
	})
	testutil.InsertTransaction(t, db, model.Transaction{
		Date: mustDate("2026-01-06"), AccountName: "swing", Symbol: "AMD",
		Side: model.SideBuy, Price: 100, Shares: 10,
	})
}
