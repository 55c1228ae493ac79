package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// noTargetPriority sorts untargeted holdings after every configured target.
const noTargetPriority = 999

// RebalanceService compares current allocations against position targets and
// proposes trades to close the gaps. It also checks positions against their
// configured maximums.
type RebalanceService struct {
	targetRepo  *repository.TargetRepository
	accountRepo *repository.AccountRepository
	summaries   *SummaryService
	overview    *OverviewService
}

// NewRebalanceService creates a new RebalanceService with the provided dependencies.
func NewRebalanceService(
	targetRepo *repository.TargetRepository,
	accountRepo *repository.AccountRepository,
	summaries *SummaryService,
	overview *OverviewService,
) *RebalanceService {
	return &RebalanceService{
		targetRepo:  targetRepo,
		accountRepo: accountRepo,
		summaries:   summaries,
		overview:    overview,
	}
}

// ListTargets retrieves position targets for an account.
func (s *RebalanceService) ListTargets(accountName string) ([]model.PositionTarget, error) {
	return s.targetRepo.ListTargets(accountName)
}

// SetTarget validates and upserts the target for (symbol, account).
func (s *RebalanceService) SetTarget(t model.PositionTarget) error {
	if t.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if t.AccountName == "" {
		return apperrors.ErrInvalidAccount
	}
	if !model.ValidTargetType(t.TargetType) {
		return apperrors.ErrMissingRequiredField
	}
	if t.Priority == 0 {
		t.Priority = 5
	}
	if t.RebalanceThreshold == 0 {
		t.RebalanceThreshold = 10
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Symbol = strings.ToUpper(t.Symbol)

	account, err := s.accountRepo.GetAccountByName(t.AccountName)
	if err != nil {
		return err
	}
	if account.Name == "" {
		return apperrors.ErrAccountNotFound
	}
	return s.targetRepo.UpsertTarget(t)
}

// DeleteTarget removes the target for (symbol, account).
func (s *RebalanceService) DeleteTarget(symbol, accountName string) error {
	affected, err := s.targetRepo.DeleteTarget(symbol, accountName)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrTargetNotFound
	}
	return nil
}

// PlanGap computes one symbol's gap against its target. An action is
// proposed only when the gap exceeds the target's rebalance threshold as a
// percentage of the target value; within the band the action is hold.
func PlanGap(target model.PositionTarget, currentShares int, currentPrice, totalCapital float64) model.PositionGap {
	currentValue := currentPrice * float64(currentShares)
	targetValue := target.TargetValue(totalCapital, currentPrice)

	gap := model.PositionGap{
		Symbol:       target.Symbol,
		Priority:     target.Priority,
		CurrentValue: round(currentValue),
		TargetValue:  round(targetValue),
		GapValue:     round(targetValue - currentValue),
		CurrentPrice: currentPrice,
		Action:       model.ActionHold,
	}
	if totalCapital > 0 {
		gap.CurrentPercent = round(currentValue / totalCapital * 100)
		gap.TargetPercent = round(targetValue / totalCapital * 100)
	}

	if targetValue > 0 {
		gap.GapPercent = round((targetValue - currentValue) / targetValue * 100)
	} else if currentValue > 0 {
		gap.GapPercent = -100
	}

	deviation := math.Abs(gap.GapPercent)
	if deviation > target.RebalanceThreshold && currentPrice > 0 {
		shares := int(math.Round(math.Abs(targetValue-currentValue) / currentPrice))
		if shares > 0 {
			if targetValue > currentValue {
				gap.Action = model.ActionBuy
			} else {
				gap.Action = model.ActionSell
			}
			gap.ActionShares = shares
			gap.ActionValue = round(float64(shares) * currentPrice)
		}
	}

	if target.MaxPercentage != nil && totalCapital > 0 && currentValue/totalCapital*100 > *target.MaxPercentage {
		gap.OverMax = true
	}
	if target.MaxAmount != nil && currentValue > *target.MaxAmount {
		gap.OverMax = true
	}
	if target.MaxShares != nil && currentShares > *target.MaxShares {
		gap.OverMax = true
	}
	return gap
}

// Plan builds the rebalance plan for an account: one gap per target, ordered
// by priority, with aggregate buy and sell totals and projected cash.
func (s *RebalanceService) Plan(ctx context.Context, accountName string) (model.RebalancePlan, error) {
	account, err := s.accountRepo.GetAccountByName(accountName)
	if err != nil {
		return model.RebalancePlan{}, err
	}
	if account.Name == "" {
		return model.RebalancePlan{}, apperrors.ErrAccountNotFound
	}

	targets, err := s.targetRepo.ListTargets(accountName)
	if err != nil {
		return model.RebalancePlan{}, err
	}

	overview, err := s.overview.AccountOverview(ctx, accountName)
	if err != nil {
		return model.RebalancePlan{}, err
	}

	sharesBySymbol := make(map[string]int)
	priceBySymbol := make(map[string]float64)
	avgCostBySymbol := make(map[string]float64)
	for _, position := range overview.Positions {
		sharesBySymbol[position.Symbol] = position.NetShares
		priceBySymbol[position.Symbol] = position.CurrentPrice
		avgCostBySymbol[position.Symbol] = position.AvgCost
	}

	plan := model.RebalancePlan{
		AccountName:   accountName,
		GeneratedAt:   nowUTC(),
		TotalValue:    overview.StockMarketValue,
		AvailableCash: overview.AvailableCash,
	}

	targeted := make(map[string]bool, len(targets))
	for _, target := range targets {
		targeted[target.Symbol] = true
		price := priceBySymbol[target.Symbol]
		if price == 0 && s.summaries.prices != nil {
			if quote, err := s.summaries.prices.Price(ctx, target.Symbol); err == nil {
				price = quote.Price
			}
		}
		if price == 0 {
			// No quote anywhere: the position's cost basis still prices
			// the gap and the share conversion.
			price = avgCostBySymbol[target.Symbol]
		}
		gap := PlanGap(target, sharesBySymbol[target.Symbol], price, account.TotalCapital)
		switch gap.Action {
		case model.ActionBuy:
			plan.TotalBuyValue += gap.ActionValue
		case model.ActionSell:
			plan.TotalSellValue += gap.ActionValue
		}
		plan.Positions = append(plan.Positions, gap)
	}

	// Held symbols without a target still appear in the plan so nothing
	// drops out of the view.
	for _, position := range overview.Positions {
		if targeted[position.Symbol] {
			continue
		}
		gap := model.PositionGap{
			Symbol:       position.Symbol,
			Priority:     noTargetPriority,
			CurrentValue: round(position.MarketValue),
			CurrentPrice: position.CurrentPrice,
			Action:       model.ActionNoTarget,
		}
		if account.TotalCapital > 0 {
			gap.CurrentPercent = round(position.MarketValue / account.TotalCapital * 100)
		}
		plan.Positions = append(plan.Positions, gap)
	}

	sort.SliceStable(plan.Positions, func(a, b int) bool {
		return plan.Positions[a].Priority < plan.Positions[b].Priority
	})

	plan.TotalBuyValue = round(plan.TotalBuyValue)
	plan.TotalSellValue = round(plan.TotalSellValue)
	plan.CashAfterPlan = round(plan.AvailableCash - plan.TotalBuyValue + plan.TotalSellValue)
	return plan, nil
}

// CheckLimits reports, for every target with a configured maximum, whether
// the current position breaches it.
func (s *RebalanceService) CheckLimits(ctx context.Context, accountName string) ([]model.PositionLimitCheck, error) {
	account, err := s.accountRepo.GetAccountByName(accountName)
	if err != nil {
		return nil, err
	}
	if account.Name == "" {
		return nil, apperrors.ErrAccountNotFound
	}

	targets, err := s.targetRepo.ListTargets(accountName)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaries.StockSummaries(ctx, accountName)
	if err != nil {
		return nil, err
	}
	summaryBySymbol := make(map[string]model.StockSummary)
	for _, summary := range summaries {
		summaryBySymbol[summary.Symbol] = summary
	}

	checks := []model.PositionLimitCheck{}
	for _, target := range targets {
		if target.MaxPercentage == nil && target.MaxAmount == nil && target.MaxShares == nil {
			continue
		}
		summary := summaryBySymbol[target.Symbol]
		check := model.PositionLimitCheck{
			Symbol:        target.Symbol,
			AccountName:   accountName,
			CurrentShares: summary.NetShares,
			CurrentValue:  summary.MarketValue,
		}
		if account.TotalCapital > 0 {
			check.CurrentPct = round(summary.MarketValue / account.TotalCapital * 100)
		}
		if target.MaxPercentage != nil && check.CurrentPct > *target.MaxPercentage {
			check.Breaches = append(check.Breaches, "max percentage exceeded")
		}
		if target.MaxAmount != nil && summary.MarketValue > *target.MaxAmount {
			check.Breaches = append(check.Breaches, "max amount exceeded")
		}
		if target.MaxShares != nil && summary.NetShares > *target.MaxShares {
			check.Breaches = append(check.Breaches, "max shares exceeded")
		}
		check.WithinLimits = len(check.Breaches) == 0
		checks = append(checks, check)
	}
	return checks, nil
}
