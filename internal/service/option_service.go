package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// OptionService handles option trade business logic. Opening a trade writes
// its premium cash flow, and closing writes the close flow, each atomically
// with the lifecycle change.
type OptionService struct {
	optionRepo   *repository.OptionRepository
	cashFlowRepo *repository.CashFlowRepository
	accountRepo  *repository.AccountRepository
}

// NewOptionService creates a new OptionService with the provided dependencies.
func NewOptionService(
	optionRepo *repository.OptionRepository,
	cashFlowRepo *repository.CashFlowRepository,
	accountRepo *repository.AccountRepository,
) *OptionService {
	return &OptionService{
		optionRepo:   optionRepo,
		cashFlowRepo: cashFlowRepo,
		accountRepo:  accountRepo,
	}
}

// ListOptions retrieves option trades matching the filter.
func (s *OptionService) ListOptions(f repository.OptionFilter) ([]model.OptionTrade, error) {
	return s.optionRepo.ListOptions(f)
}

// GetOption retrieves one option trade by ID.
func (s *OptionService) GetOption(id string) (model.OptionTrade, error) {
	o, err := s.optionRepo.GetOption(id)
	if err != nil {
		return model.OptionTrade{}, err
	}
	if o.ID == "" {
		return model.OptionTrade{}, apperrors.ErrOptionNotFound
	}
	return o, nil
}

// OpenOption validates and persists a new trade together with its premium
// cash flow: premium in for short positions, premium out for long ones. The
// opening fee is a separate commission flow.
func (s *OptionService) OpenOption(o model.OptionTrade) (model.OptionTrade, error) {
	if err := s.validate(o); err != nil {
		return model.OptionTrade{}, err
	}

	o.ID = uuid.New().String()
	o.Symbol = strings.ToUpper(o.Symbol)
	o.Status = model.OptionStatusOpen
	o.CloseDate = nil
	o.ClosePricePerShare = nil
	o.ClosingFee = 0

	tx, err := s.optionRepo.BeginTx()
	if err != nil {
		return model.OptionTrade{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.optionRepo.CreateOption(tx, o); err != nil {
		return model.OptionTrade{}, err
	}

	flowType := model.FlowOptionPremiumIn
	amount := o.PremiumNotional()
	if !o.IsShort() {
		flowType = model.FlowOptionPremiumOut
		amount = -amount
	}
	premiumFlow := model.CashFlow{
		ID:              uuid.New().String(),
		Date:            o.OpenDate,
		AccountName:     o.AccountName,
		FlowType:        flowType,
		Amount:          amount,
		Symbol:          o.Symbol,
		RelatedOptionID: o.ID,
		IsRealized:      true,
		Description:     fmt.Sprintf("%s %dx %s %.2f exp %s", o.OptionType, o.Contracts, o.Symbol, o.StrikePrice, o.ExpirationDate.Format("2006-01-02")),
		AutoGenerated:   true,
	}
	if err := s.cashFlowRepo.CreateCashFlowTx(tx, premiumFlow); err != nil {
		return model.OptionTrade{}, err
	}

	if o.OpeningFee > 0 {
		feeFlow := model.CashFlow{
			ID:              uuid.New().String(),
			Date:            o.OpenDate,
			AccountName:     o.AccountName,
			FlowType:        model.FlowCommission,
			Amount:          -o.OpeningFee,
			Symbol:          o.Symbol,
			RelatedOptionID: o.ID,
			IsRealized:      true,
			Description:     fmt.Sprintf("opening fee for %s %s", o.OptionType, o.Symbol),
			AutoGenerated:   true,
		}
		if err := s.cashFlowRepo.CreateCashFlowTx(tx, feeFlow); err != nil {
			return model.OptionTrade{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.OptionTrade{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, nil
}

// CloseRequest carries the terminal state for an open trade. ClosePrice is
// nil for expirations and assignments, where no closing payment changes hands.
type CloseRequest struct {
	Status     string
	CloseDate  time.Time
	ClosePrice *float64
	ClosingFee float64
}

// CloseOption transitions an open trade to a terminal status exactly once
// and writes the closing cash flow. Closing a short position pays to buy the
// option back; closing a long one receives the proceeds. Expired and
// assigned trades move no closing cash.
func (s *OptionService) CloseOption(id string, req CloseRequest) (model.OptionTrade, error) {
	switch req.Status {
	case model.OptionStatusClosed, model.OptionStatusAssigned, model.OptionStatusExpired:
	default:
		return model.OptionTrade{}, fmt.Errorf("%w: status must be closed, assigned, or expired", apperrors.ErrMissingRequiredField)
	}
	if req.CloseDate.IsZero() {
		return model.OptionTrade{}, apperrors.ErrInvalidDate
	}
	if req.ClosingFee < 0 {
		return model.OptionTrade{}, fmt.Errorf("%w: closing fee", apperrors.ErrNegativeAmount)
	}
	if req.ClosePrice != nil && *req.ClosePrice < 0 {
		return model.OptionTrade{}, fmt.Errorf("%w: close price", apperrors.ErrNegativeAmount)
	}

	o, err := s.GetOption(id)
	if err != nil {
		return model.OptionTrade{}, err
	}
	if !o.IsOpen() {
		return model.OptionTrade{}, apperrors.ErrOptionAlreadyClosed
	}

	closeDate := req.CloseDate
	o.Status = req.Status
	o.CloseDate = &closeDate
	o.ClosePricePerShare = req.ClosePrice
	o.ClosingFee = req.ClosingFee

	tx, err := s.optionRepo.BeginTx()
	if err != nil {
		return model.OptionTrade{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	affected, err := s.optionRepo.CloseOption(tx, o)
	if err != nil {
		return model.OptionTrade{}, err
	}
	if affected == 0 {
		// Lost the race with another close
		return model.OptionTrade{}, apperrors.ErrOptionAlreadyClosed
	}

	if closeAmount := o.CloseNotional(); closeAmount != 0 {
		amount := closeAmount
		if o.IsShort() {
			amount = -amount
		}
		closeFlow := model.CashFlow{
			ID:              uuid.New().String(),
			Date:            closeDate,
			AccountName:     o.AccountName,
			FlowType:        model.FlowOptionClose,
			Amount:          amount,
			Symbol:          o.Symbol,
			RelatedOptionID: o.ID,
			IsRealized:      true,
			Description:     fmt.Sprintf("%s %s %dx %s", req.Status, o.OptionType, o.Contracts, o.Symbol),
			AutoGenerated:   true,
		}
		if err := s.cashFlowRepo.CreateCashFlowTx(tx, closeFlow); err != nil {
			return model.OptionTrade{}, err
		}
	}

	if o.ClosingFee > 0 {
		feeFlow := model.CashFlow{
			ID:              uuid.New().String(),
			Date:            closeDate,
			AccountName:     o.AccountName,
			FlowType:        model.FlowCommission,
			Amount:          -o.ClosingFee,
			Symbol:          o.Symbol,
			RelatedOptionID: o.ID,
			IsRealized:      true,
			Description:     fmt.Sprintf("closing fee for %s %s", o.OptionType, o.Symbol),
			AutoGenerated:   true,
		}
		if err := s.cashFlowRepo.CreateCashFlowTx(tx, feeFlow); err != nil {
			return model.OptionTrade{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.OptionTrade{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, nil
}

// UpdateOption rewrites a trade's descriptive fields. Lifecycle transitions
// go through CloseOption.
func (s *OptionService) UpdateOption(o model.OptionTrade) error {
	if err := s.validate(o); err != nil {
		return err
	}
	o.Symbol = strings.ToUpper(o.Symbol)
	affected, err := s.optionRepo.UpdateOption(o)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrOptionNotFound
	}
	return nil
}

// DeleteOption removes a trade. Related cash flows are left in place.
func (s *OptionService) DeleteOption(id string) error {
	affected, err := s.optionRepo.DeleteOption(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrOptionNotFound
	}
	return nil
}

// ExpiringSoon lists open trades expiring within the given number of days.
func (s *OptionService) ExpiringSoon(days int) ([]model.OptionTrade, error) {
	options, err := s.optionRepo.ListOptions(repository.OptionFilter{Status: model.OptionStatusOpen})
	if err != nil {
		return nil, err
	}
	now := nowUTC()
	expiring := []model.OptionTrade{}
	for _, o := range options {
		dte := o.DaysToExpiration(now)
		if dte >= 0 && dte <= days {
			expiring = append(expiring, o)
		}
	}
	return expiring, nil
}

func (s *OptionService) validate(o model.OptionTrade) error {
	if o.Symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	if o.AccountName == "" {
		return apperrors.ErrInvalidAccount
	}
	switch o.OptionType {
	case model.OptionSellCall, model.OptionSellPut, model.OptionBuyCall, model.OptionBuyPut:
	default:
		return fmt.Errorf("%w: option type", apperrors.ErrMissingRequiredField)
	}
	if o.StrikePrice <= 0 {
		return fmt.Errorf("%w: strike price", apperrors.ErrNegativeAmount)
	}
	if o.PremiumPerShare < 0 {
		return fmt.Errorf("%w: premium", apperrors.ErrNegativeAmount)
	}
	if o.Contracts <= 0 {
		return fmt.Errorf("%w: contracts", apperrors.ErrNegativeAmount)
	}
	if o.OpenDate.IsZero() || o.ExpirationDate.IsZero() {
		return apperrors.ErrInvalidDate
	}
	if o.ExpirationDate.Before(o.OpenDate) {
		return apperrors.ErrInvalidDateRange
	}

	account, err := s.accountRepo.GetAccountByName(o.AccountName)
	if err != nil {
		return err
	}
	if account.Name == "" {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
