package service

import (
	"context"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// OverviewService derives the full valuation of an account: position values,
// cash position, locked collateral, and capital utilization.
type OverviewService struct {
	accountRepo  *repository.AccountRepository
	optionRepo   *repository.OptionRepository
	cashFlowRepo *repository.CashFlowRepository
	dividendRepo *repository.DividendRepository
	summaries    *SummaryService
}

// NewOverviewService creates a new OverviewService with the provided dependencies.
func NewOverviewService(
	accountRepo *repository.AccountRepository,
	optionRepo *repository.OptionRepository,
	cashFlowRepo *repository.CashFlowRepository,
	dividendRepo *repository.DividendRepository,
	summaries *SummaryService,
) *OverviewService {
	return &OverviewService{
		accountRepo:  accountRepo,
		optionRepo:   optionRepo,
		cashFlowRepo: cashFlowRepo,
		dividendRepo: dividendRepo,
		summaries:    summaries,
	}
}

// AccountOverview derives the current state of one account. Available cash
// is total capital plus the signed sum of all cash flows, minus collateral
// locked by open cash-secured puts.
func (s *OverviewService) AccountOverview(ctx context.Context, accountName string) (model.AccountOverview, error) {
	account, err := s.accountRepo.GetAccountByName(accountName)
	if err != nil {
		return model.AccountOverview{}, err
	}
	if account.Name == "" {
		return model.AccountOverview{}, apperrors.ErrAccountNotFound
	}

	overview := model.AccountOverview{
		AccountName:        account.Name,
		TotalCapital:       account.TotalCapital,
		CashReserve:        account.CashReserve,
		ConditionalReserve: account.ConditionalReserve,
	}

	summaries, err := s.summaries.StockSummaries(ctx, accountName)
	if err != nil {
		return model.AccountOverview{}, err
	}
	for _, summary := range summaries {
		overview.StockInvested += summary.Invested
		overview.StockMarketValue += summary.MarketValue
		overview.PositionCount++
		overview.Positions = append(overview.Positions, summary)
	}

	openPuts, err := s.optionRepo.ListOptions(repository.OptionFilter{
		AccountName: accountName,
		Status:      model.OptionStatusOpen,
	})
	if err != nil {
		return model.AccountOverview{}, err
	}
	for _, o := range openPuts {
		overview.LockedCash += o.LockedCapital()
	}

	sums, err := s.cashFlowRepo.SumByType(accountName, "", "")
	if err != nil {
		return model.AccountOverview{}, err
	}
	for flowType, total := range sums {
		overview.NetCashFlow += total
		switch flowType {
		case model.FlowOptionPremiumIn, model.FlowOptionPremiumOut, model.FlowOptionClose:
			overview.OptionPremiumNet += total
		case model.FlowInterest, model.FlowDeposit, model.FlowWithdrawal:
			overview.ExternalNetFlow += total
		}
	}

	dividends, err := s.dividendRepo.TotalDividends(accountName)
	if err != nil {
		return model.AccountOverview{}, err
	}
	overview.DividendIncome = round(dividends)

	overview.AvailableCash = round(account.TotalCapital + overview.NetCashFlow - overview.LockedCash)
	if account.TotalCapital > 0 {
		overview.UtilizationPct = round((overview.StockInvested + overview.LockedCash) / account.TotalCapital * 100)
	}

	// Total P&L measures the account against its starting capital adjusted
	// for external flows (deposits, withdrawals, interest); everything else
	// the ledger records is the account's own performance.
	overview.CurrentTotalAssets = round(overview.StockMarketValue + overview.AvailableCash + overview.LockedCash)
	overview.TotalPnL = round(overview.CurrentTotalAssets - account.TotalCapital - overview.ExternalNetFlow)
	if base := account.TotalCapital + overview.ExternalNetFlow; base > 0 {
		overview.PnLRatio = round(overview.TotalPnL / base * 100)
	}

	overview.StockInvested = round(overview.StockInvested)
	overview.StockMarketValue = round(overview.StockMarketValue)
	overview.LockedCash = round(overview.LockedCash)
	overview.NetCashFlow = round(overview.NetCashFlow)
	overview.ExternalNetFlow = round(overview.ExternalNetFlow)
	overview.OptionPremiumNet = round(overview.OptionPremiumNet)
	return overview, nil
}

// AllOverviews derives overviews for every account.
func (s *OverviewService) AllOverviews(ctx context.Context) ([]model.AccountOverview, error) {
	accounts, err := s.accountRepo.ListAccounts()
	if err != nil {
		return nil, err
	}
	overviews := make([]model.AccountOverview, 0, len(accounts))
	for _, account := range accounts {
		overview, err := s.AccountOverview(ctx, account.Name)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}
