package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// TransactionService handles stock transaction business logic. Creating a
// transaction also writes its cash flow rows in the same database
// transaction: one trade flow for price times shares, and one commission
// flow when a commission was paid.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	cashFlowRepo    *repository.CashFlowRepository
	accountRepo     *repository.AccountRepository
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	cashFlowRepo *repository.CashFlowRepository,
	accountRepo *repository.AccountRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		cashFlowRepo:    cashFlowRepo,
		accountRepo:     accountRepo,
	}
}

// ListTransactions retrieves transactions matching the filter.
func (s *TransactionService) ListTransactions(f repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.ListTransactions(f)
}

// GetTransaction retrieves one transaction by ID.
func (s *TransactionService) GetTransaction(id string) (model.Transaction, error) {
	t, err := s.transactionRepo.GetTransaction(id)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.ID == "" {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return t, nil
}

// GenerateFlows derives the cash flow rows a transaction produces. The trade
// flow carries price times shares with the trade's sign; the commission is
// always a separate negative flow, so a 100-share buy at 2.00 with a 5.00
// commission generates -200 and -5.
func GenerateFlows(t model.Transaction) []model.CashFlow {
	flowType := model.FlowStockBuy
	if t.Side == model.SideSell {
		flowType = model.FlowStockSell
	}

	flows := []model.CashFlow{{
		ID:                   uuid.New().String(),
		Date:                 t.Date,
		AccountName:          t.AccountName,
		FlowType:             flowType,
		Amount:               t.CashImpact(),
		Symbol:               t.Symbol,
		RelatedTransactionID: t.ID,
		IsRealized:           true,
		Description:          fmt.Sprintf("%s %d %s @ %.2f", t.Side, t.Shares, t.Symbol, t.Price),
		AutoGenerated:        true,
	}}

	if t.Commission > 0 {
		flows = append(flows, model.CashFlow{
			ID:                   uuid.New().String(),
			Date:                 t.Date,
			AccountName:          t.AccountName,
			FlowType:             model.FlowCommission,
			Amount:               -t.Commission,
			Symbol:               t.Symbol,
			RelatedTransactionID: t.ID,
			IsRealized:           true,
			Description:          fmt.Sprintf("commission for %s %s", t.Side, t.Symbol),
			AutoGenerated:        true,
		})
	}
	return flows
}

// CreateTransaction validates and persists a transaction together with its
// generated cash flows, atomically.
func (s *TransactionService) CreateTransaction(t model.Transaction) (model.Transaction, error) {
	if err := s.validate(t); err != nil {
		return model.Transaction{}, err
	}

	t.ID = uuid.New().String()
	t.Symbol = strings.ToUpper(t.Symbol)

	tx, err := s.transactionRepo.BeginTx()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.transactionRepo.CreateTransaction(tx, t); err != nil {
		return model.Transaction{}, err
	}
	for _, flow := range GenerateFlows(t) {
		if err := s.cashFlowRepo.CreateCashFlowTx(tx, flow); err != nil {
			return model.Transaction{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// PreviewImpact reports the cash flows a transaction would generate without
// persisting anything.
func (s *TransactionService) PreviewImpact(t model.Transaction) (model.TransactionImpact, error) {
	if err := s.validate(t); err != nil {
		return model.TransactionImpact{}, err
	}
	t.Symbol = strings.ToUpper(t.Symbol)

	flows := GenerateFlows(t)
	impact := model.TransactionImpact{TradeFlow: flows[0]}
	impact.NetCashChange = flows[0].Amount
	if len(flows) > 1 {
		impact.CommissionFlow = &flows[1]
		impact.NetCashChange += flows[1].Amount
	}
	impact.NetCashChange = round(impact.NetCashChange)
	return impact, nil
}

// UpdateTransaction rewrites a transaction's fields. Its previously
// generated cash flows are not rewritten; corrections to the cash ledger are
// explicit.
func (s *TransactionService) UpdateTransaction(t model.Transaction) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.Symbol = strings.ToUpper(t.Symbol)
	affected, err := s.transactionRepo.UpdateTransaction(t)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction. Related cash flows are reported,
// not deleted, so the caller can reconcile the cash ledger explicitly.
func (s *TransactionService) DeleteTransaction(id string) ([]model.CashFlow, error) {
	related, err := s.cashFlowRepo.ListByRelatedTransaction(id)
	if err != nil {
		return nil, err
	}
	affected, err := s.transactionRepo.DeleteTransaction(id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.ErrTransactionNotFound
	}
	return related, nil
}

// ListSymbols returns the distinct symbols traded in an account.
func (s *TransactionService) ListSymbols(accountName string) ([]string, error) {
	return s.transactionRepo.ListSymbols(accountName)
}

func (s *TransactionService) validate(t model.Transaction) error {
	if t.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if t.AccountName == "" {
		return apperrors.ErrInvalidAccount
	}
	if t.Side != model.SideBuy && t.Side != model.SideSell {
		return fmt.Errorf("%w: side must be buy or sell", apperrors.ErrMissingRequiredField)
	}
	if t.Shares <= 0 {
		return fmt.Errorf("%w: shares", apperrors.ErrNegativeAmount)
	}
	if t.Price <= 0 {
		return fmt.Errorf("%w: price", apperrors.ErrNegativeAmount)
	}
	if t.Commission < 0 {
		return fmt.Errorf("%w: commission", apperrors.ErrNegativeAmount)
	}
	if t.Date.IsZero() {
		return apperrors.ErrInvalidDate
	}

	account, err := s.accountRepo.GetAccountByName(t.AccountName)
	if err != nil {
		return err
	}
	if account.Name == "" {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
