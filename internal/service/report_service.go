package service

import (
	"fmt"
	"time"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// ReportService assembles the monthly activity report for an account.
type ReportService struct {
	transactionRepo *repository.TransactionRepository
	optionRepo      *repository.OptionRepository
	cashFlowRepo    *repository.CashFlowRepository
	cashFlows       *CashFlowService
}

// NewReportService creates a new ReportService with the provided dependencies.
func NewReportService(
	transactionRepo *repository.TransactionRepository,
	optionRepo *repository.OptionRepository,
	cashFlowRepo *repository.CashFlowRepository,
	cashFlows *CashFlowService,
) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		optionRepo:      optionRepo,
		cashFlowRepo:    cashFlowRepo,
		cashFlows:       cashFlows,
	}
}

// MonthlyReport aggregates one calendar month's trading activity, option
// results, income, and cash movement. month is "2006-01".
func (s *ReportService) MonthlyReport(accountName, month string) (model.MonthlyReport, error) {
	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("%w: month must be YYYY-MM", apperrors.ErrInvalidDate)
	}
	startDate := monthStart.Format("2006-01-02")
	endDate := monthStart.AddDate(0, 1, -1).Format("2006-01-02")

	report := model.MonthlyReport{
		AccountName: accountName,
		Month:       month,
		GeneratedAt: nowUTC(),
		FlowsByType: make(map[string]float64),
	}

	transactions, err := s.transactionRepo.ListTransactions(repository.TransactionFilter{
		AccountName: accountName,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return model.MonthlyReport{}, err
	}
	report.Transactions = len(transactions)

	options, err := s.optionRepo.ListOptions(repository.OptionFilter{AccountName: accountName})
	if err != nil {
		return model.MonthlyReport{}, err
	}
	for _, o := range options {
		openDate := o.OpenDate.Format("2006-01-02")
		if openDate >= startDate && openDate <= endDate {
			report.OptionsOpened++
		}
		if o.CloseDate != nil {
			closeDate := o.CloseDate.Format("2006-01-02")
			if closeDate >= startDate && closeDate <= endDate {
				report.OptionsClosed++
				report.RealizedOption += o.RealizedPnL()
			}
		}
	}
	report.RealizedOption = round(report.RealizedOption)

	sums, err := s.cashFlowRepo.SumByType(accountName, startDate, endDate)
	if err != nil {
		return model.MonthlyReport{}, err
	}
	for flowType, total := range sums {
		report.FlowsByType[flowType] = round(total)
		report.NetCashChange += total
		if flowType == model.FlowDividend {
			report.DividendIncome += total
		}
	}
	report.NetCashChange = round(report.NetCashChange)
	report.DividendIncome = round(report.DividendIncome)

	monthly, err := s.cashFlows.MonthlySummaries(accountName)
	if err != nil {
		return model.MonthlyReport{}, err
	}
	report.MonthlyFlows = monthly
	return report, nil
}
