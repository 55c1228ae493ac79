package service

import (
	"context"
	"sort"

	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// PriceResolver supplies current prices for valuation. The pricing service
// satisfies it; tests substitute a fixture.
type PriceResolver interface {
	Price(ctx context.Context, symbol string) (model.Quote, error)
	Prices(ctx context.Context, symbols []string) map[string]model.Quote
}

// SummaryService derives per-symbol position state from the transaction
// ledger. Summaries are computed on demand from the full ledger, so the same
// ledger always folds to the same summary.
type SummaryService struct {
	transactionRepo *repository.TransactionRepository
	optionRepo      *repository.OptionRepository
	accountRepo     *repository.AccountRepository
	prices          PriceResolver
}

// NewSummaryService creates a new SummaryService with the provided dependencies.
func NewSummaryService(
	transactionRepo *repository.TransactionRepository,
	optionRepo *repository.OptionRepository,
	accountRepo *repository.AccountRepository,
	prices PriceResolver,
) *SummaryService {
	return &SummaryService{
		transactionRepo: transactionRepo,
		optionRepo:      optionRepo,
		accountRepo:     accountRepo,
		prices:          prices,
	}
}

// FoldTransactions aggregates a symbol's transactions into its summary.
// Net cash change includes commissions: buys subtract price*shares plus
// commission, sells add price*shares minus commission. Average cost is the
// absolute net cash outlay divided by net shares, so commissions are part of
// the cost basis.
func FoldTransactions(symbol, accountName string, transactions []model.Transaction) model.StockSummary {
	summary := model.StockSummary{Symbol: symbol, AccountName: accountName}

	for _, t := range transactions {
		if t.Symbol != symbol {
			continue
		}
		switch t.Side {
		case model.SideBuy:
			summary.NetShares += t.Shares
			summary.NetCashChange -= t.GrossAmount() + t.Commission
			summary.BuyCount++
		case model.SideSell:
			summary.NetShares -= t.Shares
			summary.NetCashChange += t.GrossAmount() - t.Commission
			summary.SellCount++
		default:
			continue
		}
		dateStr := t.Date.Format("2006-01-02")
		if summary.FirstTrade == "" || dateStr < summary.FirstTrade {
			summary.FirstTrade = dateStr
		}
		if dateStr > summary.LastTrade {
			summary.LastTrade = dateStr
		}
	}

	if summary.NetShares > 0 && summary.NetCashChange < 0 {
		summary.Invested = round(-summary.NetCashChange)
		summary.AvgCost = round(-summary.NetCashChange / float64(summary.NetShares))
	}
	summary.NetCashChange = round(summary.NetCashChange)
	return summary
}

// StockSummaries derives summaries for every symbol currently held in an
// account, with live valuation applied. Symbols whose position has been
// fully closed out are omitted. When no quote is available for a symbol its
// cost basis stands in: current price falls back to average cost and market
// value to the invested amount.
func (s *SummaryService) StockSummaries(ctx context.Context, accountName string) ([]model.StockSummary, error) {
	transactions, err := s.transactionRepo.ListTransactions(repository.TransactionFilter{AccountName: accountName})
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string][]model.Transaction)
	for _, t := range transactions {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)
	}

	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	locked, err := s.lockedSharesBySymbol(accountName)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.StockSummary, 0, len(symbols))
	heldSymbols := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		summary := FoldTransactions(symbol, accountName, bySymbol[symbol])
		if summary.NetShares <= 0 {
			continue
		}
		summary.LockedShares = locked[symbol]
		summary.AvailableShares = summary.NetShares - summary.LockedShares
		summary.CurrentPrice = summary.AvgCost
		summary.MarketValue = summary.Invested
		summaries = append(summaries, summary)
		heldSymbols = append(heldSymbols, symbol)
	}

	if s.prices != nil && len(heldSymbols) > 0 {
		quotes := s.prices.Prices(ctx, heldSymbols)
		for i := range summaries {
			quote, ok := quotes[summaries[i].Symbol]
			if !ok {
				continue
			}
			summaries[i].CurrentPrice = quote.Price
			summaries[i].MarketValue = round(quote.Price * float64(summaries[i].NetShares))
			summaries[i].UnrealizedPnL = round(summaries[i].MarketValue - summaries[i].Invested)
		}
	}
	return summaries, nil
}

// HeldSymbols returns every symbol with a positive net position in any
// account, sorted.
func (s *SummaryService) HeldSymbols(ctx context.Context) ([]string, error) {
	accounts, err := s.accountRepo.ListAccounts()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, account := range accounts {
		summaries, err := s.StockSummaries(ctx, account.Name)
		if err != nil {
			return nil, err
		}
		for _, summary := range summaries {
			seen[summary.Symbol] = struct{}{}
		}
	}
	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// lockedSharesBySymbol sums covered-call collateral over the account's open
// option trades.
func (s *SummaryService) lockedSharesBySymbol(accountName string) (map[string]int, error) {
	options, err := s.optionRepo.ListOptions(repository.OptionFilter{
		AccountName: accountName,
		Status:      model.OptionStatusOpen,
	})
	if err != nil {
		return nil, err
	}
	locked := make(map[string]int)
	for _, o := range options {
		if shares := o.LockedShares(); shares > 0 {
			locked[o.Symbol] += shares
		}
	}
	return locked, nil
}

// SymbolSummary derives the summary for one (symbol, account) pair.
func (s *SummaryService) SymbolSummary(ctx context.Context, accountName, symbol string) (model.StockSummary, error) {
	transactions, err := s.transactionRepo.ListTransactions(repository.TransactionFilter{
		AccountName: accountName,
		Symbol:      symbol,
	})
	if err != nil {
		return model.StockSummary{}, err
	}
	summary := FoldTransactions(symbol, accountName, transactions)

	if summary.NetShares > 0 {
		locked, err := s.lockedSharesBySymbol(accountName)
		if err != nil {
			return model.StockSummary{}, err
		}
		summary.LockedShares = locked[symbol]
		summary.AvailableShares = summary.NetShares - summary.LockedShares
		summary.CurrentPrice = summary.AvgCost
		summary.MarketValue = summary.Invested
		if s.prices != nil {
			if quote, err := s.prices.Price(ctx, symbol); err == nil {
				summary.CurrentPrice = quote.Price
				summary.MarketValue = round(quote.Price * float64(summary.NetShares))
				summary.UnrealizedPnL = round(summary.MarketValue - summary.Invested)
			}
		}
	}
	return summary, nil
}

// OptionSummary aggregates option activity for an account: premium totals,
// realized P&L, win rate, locked collateral, and holding statistics.
func (s *SummaryService) OptionSummary(accountName string) (model.OptionSummary, error) {
	options, err := s.optionRepo.ListOptions(repository.OptionFilter{AccountName: accountName})
	if err != nil {
		return model.OptionSummary{}, err
	}

	summary := model.OptionSummary{AccountName: accountName}
	var holdingDaysTotal int
	now := nowUTC()

	for _, o := range options {
		if o.IsShort() {
			summary.TotalPremiumIn += o.PremiumNotional()
		} else {
			summary.TotalPremiumOut += o.PremiumNotional()
		}
		summary.TotalFees += o.TotalFees()
		summary.LockedCapital += o.LockedCapital()

		if o.IsOpen() {
			summary.OpenCount++
			continue
		}
		summary.ClosedCount++
		pnl := o.RealizedPnL()
		summary.RealizedPnL += pnl
		if pnl >= 0 {
			summary.WinCount++
		} else {
			summary.LossCount++
		}
		holdingDaysTotal += o.HoldingDays(now)
	}

	if summary.ClosedCount > 0 {
		summary.WinRate = round(float64(summary.WinCount) / float64(summary.ClosedCount) * 100)
		summary.AvgHoldingDays = round(float64(holdingDaysTotal) / float64(summary.ClosedCount))
	}
	summary.TotalPremiumIn = round(summary.TotalPremiumIn)
	summary.TotalPremiumOut = round(summary.TotalPremiumOut)
	summary.RealizedPnL = round(summary.RealizedPnL)
	summary.TotalFees = round(summary.TotalFees)
	summary.LockedCapital = round(summary.LockedCapital)
	return summary, nil
}

// Weights returns each held symbol's share of the account's total market
// value. Weights sum to 1 when any position has value.
func (s *SummaryService) Weights(ctx context.Context, accountName string) ([]model.PortfolioWeight, error) {
	summaries, err := s.StockSummaries(ctx, accountName)
	if err != nil {
		return nil, err
	}

	var totalValue float64
	for _, summary := range summaries {
		if summary.NetShares > 0 {
			totalValue += summary.MarketValue
		}
	}

	weights := []model.PortfolioWeight{}
	for _, summary := range summaries {
		if summary.NetShares <= 0 {
			continue
		}
		weight := model.PortfolioWeight{Symbol: summary.Symbol, MarketValue: summary.MarketValue}
		if totalValue > 0 {
			weight.Weight = summary.MarketValue / totalValue
		}
		weights = append(weights, weight)
	}
	return weights, nil
}

// Simulate previews account state after a hypothetical stock trade without
// persisting anything.
func (s *SummaryService) Simulate(ctx context.Context, accountName, symbol, side string, shares int, price float64) (model.SimulationResult, error) {
	account, err := s.accountRepo.GetAccountByName(accountName)
	if err != nil {
		return model.SimulationResult{}, err
	}

	summary, err := s.SymbolSummary(ctx, accountName, symbol)
	if err != nil {
		return model.SimulationResult{}, err
	}

	overviewCash := account.TotalCapital + summary.NetCashChange

	result := model.SimulationResult{
		AccountName:   accountName,
		Symbol:        symbol,
		Side:          side,
		Shares:        shares,
		Price:         price,
		SharesBefore:  summary.NetShares,
		AvgCostBefore: summary.AvgCost,
		CashBefore:    round(overviewCash),
	}
	if account.TotalCapital > 0 {
		result.PositionPctBefore = round(summary.MarketValue / account.TotalCapital * 100)
	}

	tradeValue := price * float64(shares)
	switch side {
	case model.SideBuy:
		result.SharesAfter = summary.NetShares + shares
		result.CashAfter = round(overviewCash - tradeValue)
		newOutlay := -summary.NetCashChange + tradeValue
		result.AvgCostAfter = round(newOutlay / float64(result.SharesAfter))
		if result.CashAfter < 0 {
			result.Warnings = append(result.Warnings, "insufficient cash for trade")
		}
	case model.SideSell:
		result.SharesAfter = summary.NetShares - shares
		result.CashAfter = round(overviewCash + tradeValue)
		result.AvgCostAfter = summary.AvgCost
		if result.SharesAfter < 0 {
			result.Warnings = append(result.Warnings, "selling more shares than held")
		}
	}
	if account.TotalCapital > 0 {
		result.PositionPctAfter = round(price * float64(result.SharesAfter) / account.TotalCapital * 100)
	}
	result.Feasible = len(result.Warnings) == 0
	return result, nil
}
