package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/pricing"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// HistorySource fetches daily price history from the live provider. The
// pricing service satisfies it.
type HistorySource interface {
	History(ctx context.Context, symbol string, startDate, endDate time.Time) ([]pricing.Indicator, error)
}

// RefreshService backfills daily close history for held symbols and the
// benchmark. Upserts are idempotent, so overlapping refresh runs converge.
type RefreshService struct {
	priceRepo        *repository.PriceRepository
	transactionRepo  *repository.TransactionRepository
	source           HistorySource
	defaultBenchmark string
	lookbackDays     int
}

// NewRefreshService creates a new RefreshService with the provided dependencies.
func NewRefreshService(
	priceRepo *repository.PriceRepository,
	transactionRepo *repository.TransactionRepository,
	source HistorySource,
	defaultBenchmark string,
	lookbackDays int,
) *RefreshService {
	return &RefreshService{
		priceRepo:        priceRepo,
		transactionRepo:  transactionRepo,
		source:           source,
		defaultBenchmark: defaultBenchmark,
		lookbackDays:     lookbackDays,
	}
}

// ToPricePoints converts fetched indicators into storable price points with
// daily returns computed against the previous close.
func ToPricePoints(symbol string, indicators []pricing.Indicator) []model.PricePoint {
	points := make([]model.PricePoint, 0, len(indicators))
	var prevClose float64
	for _, ind := range indicators {
		if ind.PriceClose == 0 {
			continue
		}
		point := model.PricePoint{
			Symbol:     symbol,
			PriceDate:  ind.Date,
			ClosePrice: ind.PriceClose,
		}
		if ind.Volume != 0 {
			volume := ind.Volume
			point.Volume = &volume
		}
		if prevClose > 0 {
			dailyReturn := ind.PriceClose/prevClose - 1
			point.DailyReturn = &dailyReturn
		}
		prevClose = ind.PriceClose
		points = append(points, point)
	}
	return points
}

// RefreshSymbol fetches and stores the last lookbackDays of daily closes for
// one symbol.
func (s *RefreshService) RefreshSymbol(ctx context.Context, symbol string) (int, error) {
	end := nowUTC()
	start := end.AddDate(0, 0, -s.lookbackDays)

	indicators, err := s.source.History(ctx, symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	points := ToPricePoints(symbol, indicators)
	if err := s.priceRepo.UpsertPrices(points); err != nil {
		return 0, err
	}
	return len(points), nil
}

// RefreshBenchmark fetches and stores benchmark history.
func (s *RefreshService) RefreshBenchmark(ctx context.Context, symbol string) (int, error) {
	if symbol == "" {
		symbol = s.defaultBenchmark
	}
	end := nowUTC()
	start := end.AddDate(0, 0, -s.lookbackDays)

	indicators, err := s.source.History(ctx, symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch history for benchmark %s: %w", symbol, err)
	}

	stockPoints := ToPricePoints(symbol, indicators)
	points := make([]model.BenchmarkPrice, 0, len(stockPoints))
	for _, p := range stockPoints {
		points = append(points, model.BenchmarkPrice{
			Symbol:      p.Symbol,
			PriceDate:   p.PriceDate,
			ClosePrice:  p.ClosePrice,
			DailyReturn: p.DailyReturn,
		})
	}
	if err := s.priceRepo.UpsertBenchmarkPrices(points); err != nil {
		return 0, err
	}
	return len(points), nil
}

// RefreshAll refreshes every traded symbol plus the default benchmark.
// Per-symbol failures are logged and skipped so one delisted ticker does not
// abort the run. Returns the number of symbols refreshed successfully.
func (s *RefreshService) RefreshAll(ctx context.Context) (int, error) {
	symbols, err := s.transactionRepo.ListSymbols("")
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, symbol := range symbols {
		if _, err := s.RefreshSymbol(ctx, symbol); err != nil {
			log.Printf("price refresh: %v", err)
			continue
		}
		refreshed++
	}

	if _, err := s.RefreshBenchmark(ctx, s.defaultBenchmark); err != nil {
		log.Printf("price refresh: %v", err)
	}
	return refreshed, nil
}
