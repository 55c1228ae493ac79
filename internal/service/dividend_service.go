package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// DividendService handles dividend record business logic. Recording a
// dividend also writes its income cash flow atomically.
type DividendService struct {
	dividendRepo *repository.DividendRepository
	cashFlowRepo *repository.CashFlowRepository
	accountRepo  *repository.AccountRepository
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	dividendRepo *repository.DividendRepository,
	cashFlowRepo *repository.CashFlowRepository,
	accountRepo *repository.AccountRepository,
) *DividendService {
	return &DividendService{
		dividendRepo: dividendRepo,
		cashFlowRepo: cashFlowRepo,
		accountRepo:  accountRepo,
	}
}

// ListDividends retrieves dividends for an account and optional symbol.
func (s *DividendService) ListDividends(accountName, symbol string) ([]model.Dividend, error) {
	return s.dividendRepo.ListDividends(accountName, symbol)
}

// GetDividend retrieves one dividend by ID.
func (s *DividendService) GetDividend(id string) (model.Dividend, error) {
	d, err := s.dividendRepo.GetDividend(id)
	if err != nil {
		return model.Dividend{}, err
	}
	if d.ID == "" {
		return model.Dividend{}, apperrors.ErrDividendNotFound
	}
	return d, nil
}

// RecordDividend validates and persists a dividend with its net-of-tax
// income cash flow. The flow date is the payment date when known, otherwise
// the ex-dividend date.
func (s *DividendService) RecordDividend(d model.Dividend) (model.Dividend, error) {
	if d.Symbol == "" {
		return model.Dividend{}, apperrors.ErrInvalidSymbol
	}
	if d.AccountName == "" {
		return model.Dividend{}, apperrors.ErrInvalidAccount
	}
	if d.DividendPerShare <= 0 {
		return model.Dividend{}, fmt.Errorf("%w: dividend per share", apperrors.ErrNegativeAmount)
	}
	if d.SharesHeld <= 0 {
		return model.Dividend{}, fmt.Errorf("%w: shares held", apperrors.ErrNegativeAmount)
	}
	if d.TaxWithheld < 0 {
		return model.Dividend{}, fmt.Errorf("%w: tax withheld", apperrors.ErrNegativeAmount)
	}
	if d.ExDividendDate.IsZero() {
		return model.Dividend{}, apperrors.ErrInvalidDate
	}

	account, err := s.accountRepo.GetAccountByName(d.AccountName)
	if err != nil {
		return model.Dividend{}, err
	}
	if account.Name == "" {
		return model.Dividend{}, apperrors.ErrAccountNotFound
	}

	d.ID = uuid.New().String()
	d.Symbol = strings.ToUpper(d.Symbol)
	if d.TotalDividend == 0 {
		d.TotalDividend = round(d.DividendPerShare * float64(d.SharesHeld))
	}

	flowDate := d.ExDividendDate
	if d.PaymentDate != nil {
		flowDate = *d.PaymentDate
	}

	tx, err := s.dividendRepo.BeginTx()
	if err != nil {
		return model.Dividend{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.dividendRepo.CreateDividend(tx, d); err != nil {
		return model.Dividend{}, err
	}

	flow := model.CashFlow{
		ID:            uuid.New().String(),
		Date:          flowDate,
		AccountName:   d.AccountName,
		FlowType:      model.FlowDividend,
		Amount:        d.NetAmount(),
		Symbol:        d.Symbol,
		IsRealized:    true,
		Description:   fmt.Sprintf("dividend %s %.4f x %d", d.Symbol, d.DividendPerShare, d.SharesHeld),
		AutoGenerated: true,
	}
	if err := s.cashFlowRepo.CreateCashFlowTx(tx, flow); err != nil {
		return model.Dividend{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Dividend{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return d, nil
}

// DeleteDividend removes a dividend record. Its cash flow is left in place.
func (s *DividendService) DeleteDividend(id string) error {
	affected, err := s.dividendRepo.DeleteDividend(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrDividendNotFound
	}
	return nil
}
