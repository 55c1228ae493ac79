package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// Alpha split weights. Selection and timing take fixed shares of total
// alpha, strategy alpha is measured from option income, and allocation
// absorbs the residual so the components always sum to total alpha.
const (
	selectionAlphaShare = 0.4
	timingAlphaShare    = 0.2
)

// AttributionService decomposes an account's excess return over a benchmark
// into a beta contribution and alpha components. The analysis universe is
// every symbol the account has ever transacted, equal-weighted.
type AttributionService struct {
	priceRepo        *repository.PriceRepository
	optionRepo       *repository.OptionRepository
	accountRepo      *repository.AccountRepository
	snapshotRepo     *repository.SnapshotRepository
	transactionRepo  *repository.TransactionRepository
	defaultBenchmark string
}

// NewAttributionService creates a new AttributionService with the provided dependencies.
func NewAttributionService(
	priceRepo *repository.PriceRepository,
	optionRepo *repository.OptionRepository,
	accountRepo *repository.AccountRepository,
	snapshotRepo *repository.SnapshotRepository,
	transactionRepo *repository.TransactionRepository,
	defaultBenchmark string,
) *AttributionService {
	return &AttributionService{
		priceRepo:        priceRepo,
		optionRepo:       optionRepo,
		accountRepo:      accountRepo,
		snapshotRepo:     snapshotRepo,
		transactionRepo:  transactionRepo,
		defaultBenchmark: defaultBenchmark,
	}
}

// Beta estimates sensitivity to benchmark moves from paired daily returns:
// sample covariance over population variance. Series of different lengths
// are trimmed to the shorter one from the front, keeping the most recent
// observations. Fewer than two paired observations, or a flat benchmark,
// default to a beta of 1.
func Beta(symbolReturns, benchmarkReturns []float64) float64 {
	n := len(symbolReturns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return 1.0
	}
	symbolReturns = symbolReturns[len(symbolReturns)-n:]
	benchmarkReturns = benchmarkReturns[len(benchmarkReturns)-n:]

	benchVar := populationVariance(benchmarkReturns)
	if benchVar == 0 {
		return 1.0
	}
	return sampleCovariance(symbolReturns, benchmarkReturns) / benchVar
}

// Analyze runs return attribution for an account between two dates against a
// benchmark (the service default when benchmark is empty). The portfolio's
// daily return is the equal-weighted mean of the symbol returns available on
// each date; that single series is compounded and regressed against the
// benchmark, so one beta describes the whole portfolio.
func (s *AttributionService) Analyze(ctx context.Context, accountName, startDate, endDate, benchmark string) (model.AttributionResult, error) {
	if benchmark == "" {
		benchmark = s.defaultBenchmark
	}
	if startDate == "" || endDate == "" {
		return model.AttributionResult{}, apperrors.ErrInvalidDate
	}
	if startDate > endDate {
		return model.AttributionResult{}, apperrors.ErrInvalidDateRange
	}

	account, err := s.accountRepo.GetAccountByName(accountName)
	if err != nil {
		return model.AttributionResult{}, err
	}
	if account.Name == "" {
		return model.AttributionResult{}, apperrors.ErrAccountNotFound
	}

	symbols, err := s.transactionRepo.ListSymbols(accountName)
	if err != nil {
		return model.AttributionResult{}, err
	}
	if len(symbols) == 0 {
		return model.AttributionResult{}, apperrors.ErrInsufficientData
	}
	sort.Strings(symbols)

	benchPoints, err := s.priceRepo.GetBenchmarkPrices(benchmark, startDate, endDate)
	if err != nil {
		return model.AttributionResult{}, err
	}
	benchByDate := make(map[string]float64)
	benchReturns := make([]float64, 0, len(benchPoints))
	for _, p := range benchPoints {
		// A stored price without a return still anchors the series at zero.
		r := 0.0
		if p.DailyReturn != nil {
			r = *p.DailyReturn
		}
		benchByDate[p.PriceDate.Format("2006-01-02")] = r
		benchReturns = append(benchReturns, r)
	}
	if len(benchReturns) == 0 {
		return model.AttributionResult{}, apperrors.ErrInsufficientData
	}
	benchmarkReturn := cumulativeReturn(benchReturns)

	// Equal weights: each symbol contributes 1/n regardless of size
	equalWeight := 1.0 / float64(len(symbols))

	returnsByDate := make(map[string][]float64)
	breakdown := make([]model.SymbolAttribution, 0, len(symbols))
	for _, symbol := range symbols {
		points, err := s.priceRepo.GetPrices(symbol, startDate, endDate)
		if err != nil {
			return model.AttributionResult{}, err
		}

		var symbolPaired, benchPaired, symbolAll []float64
		for _, p := range points {
			if p.DailyReturn == nil {
				continue
			}
			date := p.PriceDate.Format("2006-01-02")
			returnsByDate[date] = append(returnsByDate[date], *p.DailyReturn)
			symbolAll = append(symbolAll, *p.DailyReturn)
			if br, ok := benchByDate[date]; ok {
				symbolPaired = append(symbolPaired, *p.DailyReturn)
				benchPaired = append(benchPaired, br)
			}
		}

		symbolReturn := cumulativeReturn(symbolAll)
		beta := Beta(symbolPaired, benchPaired)
		expected := beta * benchmarkReturn

		breakdown = append(breakdown, model.SymbolAttribution{
			Symbol:         symbol,
			Weight:         round4(equalWeight),
			Return:         round4(symbolReturn),
			Beta:           round4(beta),
			ExpectedReturn: round4(expected),
			SelectionAlpha: round4(symbolReturn - expected),
			Contribution:   round4(equalWeight * symbolReturn),
			Observations:   len(symbolPaired),
		})
	}

	dates := make([]string, 0, len(returnsByDate))
	for date := range returnsByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	portfolioSeries := make([]float64, 0, len(dates))
	for _, date := range dates {
		values := returnsByDate[date]
		var sum float64
		for _, v := range values {
			sum += v
		}
		portfolioSeries = append(portfolioSeries, sum/float64(len(values)))
	}
	if len(portfolioSeries) == 0 {
		return model.AttributionResult{}, apperrors.ErrInsufficientData
	}

	totalReturn := cumulativeReturn(portfolioSeries)
	portfolioBeta := Beta(portfolioSeries, benchReturns)

	betaContribution := portfolioBeta * benchmarkReturn
	totalAlpha := round4(totalReturn - betaContribution)
	strategyAlpha := round4(s.strategyAlpha(accountName, startDate, endDate, account.TotalCapital))
	selectionAlpha := round4(selectionAlphaShare * totalAlpha)
	timingAlpha := round4(timingAlphaShare * totalAlpha)
	// Allocation absorbs the rounding residue so the components sum exactly
	allocationAlpha := round4(totalAlpha - selectionAlpha - timingAlpha - strategyAlpha)

	result := model.AttributionResult{
		AccountName:      accountName,
		StartDate:        startDate,
		EndDate:          endDate,
		BenchmarkSymbol:  benchmark,
		TotalReturn:      round4(totalReturn),
		BenchmarkReturn:  round4(benchmarkReturn),
		ExcessReturn:     round4(totalReturn - benchmarkReturn),
		PortfolioBeta:    round4(portfolioBeta),
		BetaContribution: round4(betaContribution),
		TotalAlpha:       totalAlpha,
		SelectionAlpha:   selectionAlpha,
		TimingAlpha:      timingAlpha,
		StrategyAlpha:    strategyAlpha,
		AllocationAlpha:  allocationAlpha,
		Breakdown:        breakdown,
		CalculatedAt:     nowUTC(),
	}

	if s.snapshotRepo != nil {
		if err := s.snapshotRepo.SaveAttribution(uuid.New().String(), result); err != nil {
			return model.AttributionResult{}, err
		}
	}
	return result, nil
}

// History returns prior persisted attribution runs for an account.
func (s *AttributionService) History(accountName string, limit int) ([]model.AttributionResult, error) {
	return s.snapshotRepo.ListAttributionSnapshots(accountName, limit)
}

// strategyAlpha measures the return contribution of option income over the
// period: realized option P&L divided by account capital. Errors degrade to
// zero rather than failing the analysis.
func (s *AttributionService) strategyAlpha(accountName, startDate, endDate string, totalCapital float64) float64 {
	if totalCapital <= 0 {
		return 0
	}
	options, err := s.optionRepo.ListOptions(repository.OptionFilter{AccountName: accountName})
	if err != nil {
		return 0
	}
	var realized float64
	for _, o := range options {
		if o.IsOpen() || o.CloseDate == nil {
			continue
		}
		closeDate := o.CloseDate.Format("2006-01-02")
		if closeDate < startDate || closeDate > endDate {
			continue
		}
		realized += o.RealizedPnL()
	}
	return realized / totalCapital
}
