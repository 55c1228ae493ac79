package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// CashFlowFilter narrows ListCashFlows. Zero-value fields are ignored.
type CashFlowFilter struct {
	AccountName string
	FlowType    string
	Symbol      string
	StartDate   string // "2006-01-02", inclusive
	EndDate     string // "2006-01-02", inclusive
}

// CashFlowRepository provides data access methods for the cash_flow table.
type CashFlowRepository struct {
	db *sql.DB
}

// NewCashFlowRepository creates a new CashFlowRepository with the provided database connection.
func NewCashFlowRepository(db *sql.DB) *CashFlowRepository {
	return &CashFlowRepository{db: db}
}

const cashFlowColumns = `
	id, date, account_name, flow_type, amount, symbol,
	related_transaction_id, related_option_id, is_realized,
	description, notes, auto_generated, created_at
`

func scanCashFlow(scan func(dest ...any) error) (model.CashFlow, error) {
	var c model.CashFlow
	var dateStr string
	var symbol, relatedTx, relatedOpt, description, notes, createdAtStr sql.NullString

	err := scan(
		&c.ID,
		&dateStr,
		&c.AccountName,
		&c.FlowType,
		&c.Amount,
		&symbol,
		&relatedTx,
		&relatedOpt,
		&c.IsRealized,
		&description,
		&notes,
		&c.AutoGenerated,
		&createdAtStr,
	)
	if err != nil {
		return model.CashFlow{}, err
	}
	c.Date, err = ParseTime(dateStr)
	if err != nil || c.Date.IsZero() {
		return model.CashFlow{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if symbol.Valid {
		c.Symbol = symbol.String
	}
	if relatedTx.Valid {
		c.RelatedTransactionID = relatedTx.String
	}
	if relatedOpt.Valid {
		c.RelatedOptionID = relatedOpt.String
	}
	if description.Valid {
		c.Description = description.String
	}
	if notes.Valid {
		c.Notes = notes.String
	}
	if createdAtStr.Valid {
		c.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	return c, nil
}

// ListCashFlows retrieves cash flows matching the filter, sorted by date ascending.
func (s *CashFlowRepository) ListCashFlows(f CashFlowFilter) ([]model.CashFlow, error) {
	query := `SELECT ` + cashFlowColumns + ` FROM cash_flow WHERE 1=1`
	var args []any

	if f.AccountName != "" {
		query += ` AND account_name = ?`
		args = append(args, f.AccountName)
	}
	if f.FlowType != "" {
		query += ` AND flow_type = ?`
		args = append(args, f.FlowType)
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
		return nil, fmt.Errorf("failed to query cash_flow table: %w", err)
	}
	defer rows.Close()

	flows := []model.CashFlow{}
	for rows.Next() {
		c, err := scanCashFlow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_flow table results: %w", err)
		}
		flows = append(flows, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_flow table: %w", err)
	}
	return flows, nil
}

// GetCashFlow retrieves one cash flow by ID.
// Returns a zero-value CashFlow and nil error when no row matches.
func (s *CashFlowRepository) GetCashFlow(id string) (model.CashFlow, error) {
	row := s.db.QueryRow(`SELECT `+cashFlowColumns+` FROM cash_flow WHERE id = ?`, id)
	c, err := scanCashFlow(row.Scan)
	if err == sql.ErrNoRows {
		return model.CashFlow{}, nil
	}
	if err != nil {
		return model.CashFlow{}, fmt.Errorf("failed to scan cash_flow table results: %w", err)
	}
	return c, nil
}

// CreateCashFlow inserts a manually entered cash flow.
func (s *CashFlowRepository) CreateCashFlow(c model.CashFlow) error {
	return s.insertCashFlow(s.db, c)
}

// CreateCashFlowTx inserts an auto-generated cash flow within the caller's
// transaction scope, alongside the ledger record it traces to.
func (s *CashFlowRepository) CreateCashFlowTx(tx *sql.Tx, c model.CashFlow) error {
	return s.insertCashFlow(tx, c)
}

func (s *CashFlowRepository) insertCashFlow(e dbtx, c model.CashFlow) error {
	_, err := e.Exec(`
		INSERT INTO cash_flow (
			id, date, account_name, flow_type, amount, symbol,
			related_transaction_id, related_option_id, is_realized,
			description, notes, auto_generated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, DateOnly(c.Date), c.AccountName, c.FlowType, c.Amount,
		nullIfEmpty(c.Symbol), nullIfEmpty(c.RelatedTransactionID), nullIfEmpty(c.RelatedOptionID),
		c.IsRealized, c.Description, c.Notes, c.AutoGenerated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash_flow: %w", err)
	}
	return nil
}

// UpdateCashFlow rewrites the mutable fields of a cash flow by ID.
func (s *CashFlowRepository) UpdateCashFlow(c model.CashFlow) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE cash_flow
		SET date = ?, account_name = ?, flow_type = ?, amount = ?, symbol = ?,
		    is_realized = ?, description = ?, notes = ?
		WHERE id = ?`,
		DateOnly(c.Date), c.AccountName, c.FlowType, c.Amount, nullIfEmpty(c.Symbol),
		c.IsRealized, c.Description, c.Notes, c.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update cash_flow: %w", err)
	}
	return res.RowsAffected()
}

// DeleteCashFlow removes a cash flow by ID.
func (s *CashFlowRepository) DeleteCashFlow(id string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM cash_flow WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cash_flow: %w", err)
	}
	return res.RowsAffected()
}

// SumByType aggregates flow amounts per type for an account over a period.
func (s *CashFlowRepository) SumByType(accountName, startDate, endDate string) (map[string]float64, error) {
	query := `SELECT flow_type, COALESCE(SUM(amount), 0) FROM cash_flow WHERE 1=1`
	var args []any
	if accountName != "" {
		query += ` AND account_name = ?`
		args = append(args, accountName)
	}
	if startDate != "" {
		query += ` AND date >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND date <= ?`
		args = append(args, endDate)
	}
	query += ` GROUP BY flow_type`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_flow table: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var flowType string
		var total float64
		if err := rows.Scan(&flowType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan cash_flow table results: %w", err)
		}
		sums[flowType] = total
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_flow table: %w", err)
	}
	return sums, nil
}

// ListByRelatedTransaction returns the auto-generated flows tracing to one
// stock transaction.
func (s *CashFlowRepository) ListByRelatedTransaction(transactionID string) ([]model.CashFlow, error) {
	rows, err := s.db.Query(
		`SELECT `+cashFlowColumns+` FROM cash_flow WHERE related_transaction_id = ? ORDER BY created_at ASC`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_flow table: %w", err)
	}
	defer rows.Close()

	flows := []model.CashFlow{}
	for rows.Next() {
		c, err := scanCashFlow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_flow table results: %w", err)
		}
		flows = append(flows, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_flow table: %w", err)
	}
	return flows, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
