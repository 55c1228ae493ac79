package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// CashFlowService handles manual cash ledger entries and statement
// derivation. Flows are classified into operating, investing, financing,
// and fees buckets by type.
type CashFlowService struct {
	cashFlowRepo *repository.CashFlowRepository
	accountRepo  *repository.AccountRepository
}

// NewCashFlowService creates a new CashFlowService with the provided dependencies.
func NewCashFlowService(
	cashFlowRepo *repository.CashFlowRepository,
	accountRepo *repository.AccountRepository,
) *CashFlowService {
	return &CashFlowService{
		cashFlowRepo: cashFlowRepo,
		accountRepo:  accountRepo,
	}
}

// ListCashFlows retrieves cash flows matching the filter.
func (s *CashFlowService) ListCashFlows(f repository.CashFlowFilter) ([]model.CashFlow, error) {
	return s.cashFlowRepo.ListCashFlows(f)
}

// GetCashFlow retrieves one cash flow by ID.
func (s *CashFlowService) GetCashFlow(id string) (model.CashFlow, error) {
	c, err := s.cashFlowRepo.GetCashFlow(id)
	if err != nil {
		return model.CashFlow{}, err
	}
	if c.ID == "" {
		return model.CashFlow{}, apperrors.ErrCashFlowNotFound
	}
	return c, nil
}

// RecordCashFlow validates and persists a manually entered flow (deposit,
// withdrawal, interest, or a correction). Auto-generated flow types with a
// source record are written by their owning service, not here.
func (s *CashFlowService) RecordCashFlow(c model.CashFlow) (model.CashFlow, error) {
	if c.AccountName == "" {
		return model.CashFlow{}, apperrors.ErrInvalidAccount
	}
	if !model.ValidFlowType(c.FlowType) {
		return model.CashFlow{}, fmt.Errorf("%w: flow type %q", apperrors.ErrMissingRequiredField, c.FlowType)
	}
	if c.Date.IsZero() {
		return model.CashFlow{}, apperrors.ErrInvalidDate
	}
	if c.Amount == 0 {
		return model.CashFlow{}, fmt.Errorf("%w: amount", apperrors.ErrMissingRequiredField)
	}

	account, err := s.accountRepo.GetAccountByName(c.AccountName)
	if err != nil {
		return model.CashFlow{}, err
	}
	if account.Name == "" {
		return model.CashFlow{}, apperrors.ErrAccountNotFound
	}

	c.ID = uuid.New().String()
	c.Symbol = strings.ToUpper(c.Symbol)
	c.AutoGenerated = false
	c.IsRealized = true
	if err := s.cashFlowRepo.CreateCashFlow(c); err != nil {
		return model.CashFlow{}, err
	}
	return c, nil
}

// UpdateCashFlow rewrites a manual flow's fields.
func (s *CashFlowService) UpdateCashFlow(c model.CashFlow) error {
	if !model.ValidFlowType(c.FlowType) {
		return fmt.Errorf("%w: flow type %q", apperrors.ErrMissingRequiredField, c.FlowType)
	}
	affected, err := s.cashFlowRepo.UpdateCashFlow(c)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrCashFlowNotFound
	}
	return nil
}

// DeleteCashFlow removes a flow by ID.
func (s *CashFlowService) DeleteCashFlow(id string) error {
	affected, err := s.cashFlowRepo.DeleteCashFlow(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrCashFlowNotFound
	}
	return nil
}

// Statement groups an account's flows over a period into statement buckets.
// Every flow lands in exactly one bucket, so the bucket totals sum to the
// net change.
func (s *CashFlowService) Statement(accountName, startDate, endDate string) (model.CashFlowStatement, error) {
	if startDate != "" && endDate != "" && startDate > endDate {
		return model.CashFlowStatement{}, apperrors.ErrInvalidDateRange
	}

	flows, err := s.cashFlowRepo.ListCashFlows(repository.CashFlowFilter{
		AccountName: accountName,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return model.CashFlowStatement{}, err
	}

	statement := model.CashFlowStatement{
		AccountName: accountName,
		StartDate:   startDate,
		EndDate:     endDate,
		ByType:      make(map[string]float64),
	}

	for _, flow := range flows {
		statement.ByType[flow.FlowType] = round(statement.ByType[flow.FlowType] + flow.Amount)
		statement.NetChange += flow.Amount

		switch flow.Bucket() {
		case model.BucketOperating:
			statement.Operating.Total += flow.Amount
			statement.Operating.Flows = append(statement.Operating.Flows, flow)
		case model.BucketInvesting:
			statement.Investing.Total += flow.Amount
			statement.Investing.Flows = append(statement.Investing.Flows, flow)
		case model.BucketFinancing:
			statement.Financing.Total += flow.Amount
			statement.Financing.Flows = append(statement.Financing.Flows, flow)
		case model.BucketFees:
			statement.Fees.Total += flow.Amount
			statement.Fees.Flows = append(statement.Fees.Flows, flow)
		}
	}

	statement.Operating.Total = round(statement.Operating.Total)
	statement.Investing.Total = round(statement.Investing.Total)
	statement.Financing.Total = round(statement.Financing.Total)
	statement.Fees.Total = round(statement.Fees.Total)
	statement.NetChange = round(statement.NetChange)
	return statement, nil
}

// MonthlySummaries aggregates an account's flows per calendar month, oldest
// first.
func (s *CashFlowService) MonthlySummaries(accountName string) ([]model.MonthlyFlowSummary, error) {
	flows, err := s.cashFlowRepo.ListCashFlows(repository.CashFlowFilter{AccountName: accountName})
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*model.MonthlyFlowSummary)
	for _, flow := range flows {
		month := flow.Date.Format("2006-01")
		summary, ok := byMonth[month]
		if !ok {
			summary = &model.MonthlyFlowSummary{Month: month}
			byMonth[month] = summary
		}
		if flow.Amount >= 0 {
			summary.Inflow += flow.Amount
		} else {
			summary.Outflow += flow.Amount
		}
		summary.NetChange += flow.Amount
		switch flow.FlowType {
		case model.FlowOptionPremiumIn, model.FlowOptionPremiumOut, model.FlowOptionClose:
			summary.OptionIncome += flow.Amount
		case model.FlowDividend:
			summary.DividendTotal += flow.Amount
		}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	summaries := make([]model.MonthlyFlowSummary, 0, len(months))
	for _, month := range months {
		summary := byMonth[month]
		summary.Inflow = round(summary.Inflow)
		summary.Outflow = round(summary.Outflow)
		summary.NetChange = round(summary.NetChange)
		summary.OptionIncome = round(summary.OptionIncome)
		summary.DividendTotal = round(summary.DividendTotal)
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}
