package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// TransactionFilter narrows ListTransactions. Zero-value fields are ignored.
type TransactionFilter struct {
	AccountName string
	Symbol      string
	StartDate   string // "2006-01-02", inclusive
	EndDate     string // "2006-01-02", inclusive
}

// TransactionRepository provides data access methods for the stock_transaction table.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, date, account_name, symbol, side, price, shares, commission, notes, created_at
`

func scanTransaction(scan func(dest ...any) error) (model.Transaction, error) {
	var t model.Transaction
	var dateStr string
	var createdAtStr, notes sql.NullString

	err := scan(
		&t.ID,
		&dateStr,
		&t.AccountName,
		&t.Symbol,
		&t.Side,
		&t.Price,
		&t.Shares,
		&t.Commission,
		&notes,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if notes.Valid {
		t.Notes = notes.String
	}
	if createdAtStr.Valid {
		t.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	return t, nil
}

// ListTransactions retrieves transactions matching the filter, sorted by date
// ascending so ledger folds replay in order.
func (s *TransactionRepository) ListTransactions(f TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transaction WHERE 1=1`
	var args []any

	if f.AccountName != "" {
		query += ` AND account_name = ?`
		args = append(args, f.AccountName)
	}
	if f.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, f.Symbol)
	}
	if f.StartDate != "" {
		query += ` AND date >= ?`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += ` AND date <= ?`
		args = append(args, f.EndDate)
	}
	query += ` ORDER BY date ASC, created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock_transaction table results: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}
	return transactions, nil
}

// GetTransaction retrieves one transaction by ID.
// Returns a zero-value Transaction and nil error when no row matches.
func (s *TransactionRepository) GetTransaction(id string) (model.Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM stock_transaction WHERE id = ?`, id)
	t, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return model.Transaction{}, nil
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan stock_transaction table results: %w", err)
	}
	return t, nil
}

// CreateTransaction inserts a transaction within the caller's transaction
// scope so the insert and its generated cash flows commit together.
func (s *TransactionRepository) CreateTransaction(tx *sql.Tx, t model.Transaction) error {
	return s.insertTransaction(tx, t)
}

func (s *TransactionRepository) insertTransaction(e dbtx, t model.Transaction) error {
	_, err := e.Exec(`
		INSERT INTO stock_transaction (id, date, account_name, symbol, side, price, shares, commission, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, DateOnly(t.Date), t.AccountName, t.Symbol, t.Side, t.Price, t.Shares, t.Commission, t.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock_transaction: %w", err)
	}
	return nil
}

// UpdateTransaction rewrites the mutable fields of a transaction by ID.
func (s *TransactionRepository) UpdateTransaction(t model.Transaction) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE stock_transaction
		SET date = ?, account_name = ?, symbol = ?, side = ?, price = ?, shares = ?, commission = ?, notes = ?
		WHERE id = ?`,
		DateOnly(t.Date), t.AccountName, t.Symbol, t.Side, t.Price, t.Shares, t.Commission, t.Notes, t.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update stock_transaction: %w", err)
	}
	return res.RowsAffected()
}

// DeleteTransaction removes a transaction by ID. Cash flows that reference it
// are left in place; the ledgers are reconciled explicitly, not by cascade.
func (s *TransactionRepository) DeleteTransaction(id string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM stock_transaction WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stock_transaction: %w", err)
	}
	return res.RowsAffected()
}

// ListSymbols returns the distinct symbols traded in an account (all
// accounts when accountName is empty).
func (s *TransactionRepository) ListSymbols(accountName string) ([]string, error) {
	query := `SELECT DISTINCT symbol FROM stock_transaction`
	var args []any
	if accountName != "" {
		query += ` WHERE account_name = ?`
		args = append(args, accountName)
	}
	query += ` ORDER BY symbol ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan stock_transaction table results: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}
	return symbols, nil
}

// BeginTx starts a write transaction on the underlying database.
func (s *TransactionRepository) BeginTx() (*sql.Tx, error) {
	return s.db.Begin()
}
