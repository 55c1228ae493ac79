package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// AccountService manages the capital configuration of trading accounts.
type AccountService struct {
	accountRepo *repository.AccountRepository
}

// NewAccountService creates a new AccountService with the provided repository dependency.
func NewAccountService(accountRepo *repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// ListAccounts returns all configured accounts.
func (s *AccountService) ListAccounts() ([]model.Account, error) {
	return s.accountRepo.ListAccounts()
}

// GetAccount returns one account by name.
func (s *AccountService) GetAccount(name string) (model.Account, error) {
	account, err := s.accountRepo.GetAccountByName(name)
	if err != nil {
		return model.Account{}, err
	}
	if account.ID == "" {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	return account, nil
}

// CreateAccount registers a new trading account.
func (s *AccountService) CreateAccount(a model.Account) (model.Account, error) {
	if a.TotalCapital <= 0 {
		return model.Account{}, fmt.Errorf("totalCapital must be positive")
	}
	existing, err := s.accountRepo.GetAccountByName(a.Name)
	if err != nil {
		return model.Account{}, err
	}
	if existing.ID != "" {
		return model.Account{}, fmt.Errorf("account %q already exists", a.Name)
	}

	a.ID = uuid.New().String()
	if err := s.accountRepo.CreateAccount(a); err != nil {
		return model.Account{}, err
	}
	return s.accountRepo.GetAccountByName(a.Name)
}

// UpdateAccountCapital applies the non-nil fields of the patch to the named
// account's capital settings.
type AccountPatch struct {
	TotalCapital       *float64
	CashReserve        *float64
	ConditionalReserve *float64
	TargetPositionMin  *float64
	TargetPositionMax  *float64
}

// UpdateAccount applies a capital settings patch to the named account and
// returns the updated record.
func (s *AccountService) UpdateAccount(name string, patch AccountPatch) (model.Account, error) {
	account, err := s.GetAccount(name)
	if err != nil {
		return model.Account{}, err
	}

	if patch.TotalCapital != nil {
		account.TotalCapital = *patch.TotalCapital
	}
	if patch.CashReserve != nil {
		account.CashReserve = *patch.CashReserve
	}
	if patch.ConditionalReserve != nil {
		account.ConditionalReserve = *patch.ConditionalReserve
	}
	if patch.TargetPositionMin != nil {
		account.TargetPositionMin = *patch.TargetPositionMin
	}
	if patch.TargetPositionMax != nil {
		account.TargetPositionMax = *patch.TargetPositionMax
	}

	if account.TotalCapital <= 0 {
		return model.Account{}, fmt.Errorf("totalCapital must be positive")
	}
	if account.TargetPositionMin > account.TargetPositionMax {
		return model.Account{}, fmt.Errorf("targetPositionMin cannot exceed targetPositionMax")
	}

	rows, err := s.accountRepo.UpdateAccount(account)
	if err != nil {
		return model.Account{}, err
	}
	if rows == 0 {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	return s.GetAccount(name)
}
