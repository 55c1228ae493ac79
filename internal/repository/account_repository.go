package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `
	id, name, total_capital, cash_reserve, conditional_reserve,
	target_position_min, target_position_max, created_at, updated_at
`

func scanAccount(scan func(dest ...any) error) (model.Account, error) {
	var a model.Account
	var createdAtStr, updatedAtStr sql.NullString
	var posMin, posMax sql.NullFloat64

	err := scan(
		&a.ID,
		&a.Name,
		&a.TotalCapital,
		&a.CashReserve,
		&a.ConditionalReserve,
		&posMin,
		&posMax,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.Account{}, err
	}
	if posMin.Valid {
		a.TargetPositionMin = posMin.Float64
	}
	if posMax.Valid {
		a.TargetPositionMax = posMax.Float64
	}
	if createdAtStr.Valid {
		a.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	if updatedAtStr.Valid {
		a.UpdatedAt, _ = ParseTime(updatedAtStr.String)
	}
	return a, nil
}

// ListAccounts retrieves all accounts ordered by name.
func (s *AccountRepository) ListAccounts() ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT ` + accountColumns + ` FROM account ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}
	return accounts, nil
}

// GetAccountByName retrieves one account by its unique name.
// Returns a zero-value Account and nil error when no row matches.
func (s *AccountRepository) GetAccountByName(name string) (model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountColumns+` FROM account WHERE name = ?`, name)
	a, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return model.Account{}, nil
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to scan account table results: %w", err)
	}
	return a, nil
}

// CreateAccount inserts a new account.
func (s *AccountRepository) CreateAccount(a model.Account) error {
	_, err := s.db.Exec(`
		INSERT INTO account (id, name, total_capital, cash_reserve, conditional_reserve, target_position_min, target_position_max)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.TotalCapital, a.CashReserve, a.ConditionalReserve, a.TargetPositionMin, a.TargetPositionMax,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateAccount updates an account's capital and reserve settings by name.
// Returns the number of affected rows so callers can detect a missing account.
func (s *AccountRepository) UpdateAccount(a model.Account) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE account
		SET total_capital = ?, cash_reserve = ?, conditional_reserve = ?,
		    target_position_min = ?, target_position_max = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?`,
		a.TotalCapital, a.CashReserve, a.ConditionalReserve, a.TargetPositionMin, a.TargetPositionMax, a.Name,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update account: %w", err)
	}
	return res.RowsAffected()
}
