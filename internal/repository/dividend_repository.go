package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// DividendRepository provides data access methods for the dividend table.
type DividendRepository struct {
	db *sql.DB
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

const dividendColumns = `
	id, symbol, account_name, ex_dividend_date, payment_date,
	dividend_per_share, shares_held, total_dividend, tax_withheld, notes, created_at
`

func scanDividend(scan func(dest ...any) error) (model.Dividend, error) {
	var d model.Dividend
	var exDateStr string
	var paymentDateStr, notes, createdAtStr sql.NullString

	err := scan(
		&d.ID,
		&d.Symbol,
		&d.AccountName,
		&exDateStr,
		&paymentDateStr,
		&d.DividendPerShare,
		&d.SharesHeld,
		&d.TotalDividend,
		&d.TaxWithheld,
		&notes,
		&createdAtStr,
	)
	if err != nil {
		return model.Dividend{}, err
	}
	d.ExDividendDate, err = ParseTime(exDateStr)
	if err != nil || d.ExDividendDate.IsZero() {
		return model.Dividend{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if paymentDateStr.Valid {
		paymentDate, err := ParseTime(paymentDateStr.String)
		if err != nil {
			return model.Dividend{}, fmt.Errorf("failed to parse date: %w", err)
		}
		d.PaymentDate = &paymentDate
	}
	if notes.Valid {
		d.Notes = notes.String
	}
	if createdAtStr.Valid {
		d.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	return d, nil
}

// ListDividends retrieves dividends, optionally filtered by account and
// symbol, newest ex-dividend date first.
func (s *DividendRepository) ListDividends(accountName, symbol string) ([]model.Dividend, error) {
	query := `SELECT ` + dividendColumns + ` FROM dividend WHERE 1=1`
	var args []any
	if accountName != "" {
		query += ` AND account_name = ?`
		args = append(args, accountName)
	}
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY ex_dividend_date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend table: %w", err)
	}
	defer rows.Close()

	dividends := []model.Dividend{}
	for rows.Next() {
		d, err := scanDividend(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend table results: %w", err)
		}
		dividends = append(dividends, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend table: %w", err)
	}
	return dividends, nil
}

// GetDividend retrieves one dividend by ID.
// Returns a zero-value Dividend and nil error when no row matches.
func (s *DividendRepository) GetDividend(id string) (model.Dividend, error) {
	row := s.db.QueryRow(`SELECT `+dividendColumns+` FROM dividend WHERE id = ?`, id)
	d, err := scanDividend(row.Scan)
	if err == sql.ErrNoRows {
		return model.Dividend{}, nil
	}
	if err != nil {
		return model.Dividend{}, fmt.Errorf("failed to scan dividend table results: %w", err)
	}
	return d, nil
}

// CreateDividend inserts a dividend within the caller's transaction scope so
// the record and its income cash flow commit together.
func (s *DividendRepository) CreateDividend(tx *sql.Tx, d model.Dividend) error {
	var paymentDate any
	if d.PaymentDate != nil {
		paymentDate = DateOnly(*d.PaymentDate)
	}
	_, err := tx.Exec(`
		INSERT INTO dividend (
			id, symbol, account_name, ex_dividend_date, payment_date,
			dividend_per_share, shares_held, total_dividend, tax_withheld, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Symbol, d.AccountName, DateOnly(d.ExDividendDate), paymentDate,
		d.DividendPerShare, d.SharesHeld, d.TotalDividend, d.TaxWithheld, d.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dividend: %w", err)
	}
	return nil
}

// DeleteDividend removes a dividend by ID.
func (s *DividendRepository) DeleteDividend(id string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM dividend WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete dividend: %w", err)
	}
	return res.RowsAffected()
}

// TotalDividends returns the summed net dividend income for an account.
func (s *DividendRepository) TotalDividends(accountName string) (float64, error) {
	query := `SELECT COALESCE(SUM(total_dividend - tax_withheld), 0) FROM dividend`
	var args []any
	if accountName != "" {
		query += ` WHERE account_name = ?`
		args = append(args, accountName)
	}
	var total float64
	if err := s.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query dividend table: %w", err)
	}
	return total, nil
}

// BeginTx starts a write transaction on the underlying database.
func (s *DividendRepository) BeginTx() (*sql.Tx, error) {
	return s.db.Begin()
}
