package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// OptionFilter narrows ListOptions. Zero-value fields are ignored.
type OptionFilter struct {
	AccountName string
	Symbol      string
	Status      string
}

// OptionRepository provides data access methods for the option_trade table.
type OptionRepository struct {
	db *sql.DB
}

// NewOptionRepository creates a new OptionRepository with the provided database connection.
func NewOptionRepository(db *sql.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

const optionColumns = `
	id, account_name, symbol, option_type, strike_price, expiration_date,
	premium_per_share, contracts, open_date, close_date, close_price_per_share,
	opening_fee, closing_fee, status, notes, created_at
`

func scanOption(scan func(dest ...any) error) (model.OptionTrade, error) {
	var o model.OptionTrade
	var expirationStr, openStr string
	var closeDateStr, notes, createdAtStr sql.NullString
	var closePrice sql.NullFloat64

	err := scan(
		&o.ID,
		&o.AccountName,
		&o.Symbol,
		&o.OptionType,
		&o.StrikePrice,
		&expirationStr,
		&o.PremiumPerShare,
		&o.Contracts,
		&openStr,
		&closeDateStr,
		&closePrice,
		&o.OpeningFee,
		&o.ClosingFee,
		&o.Status,
		&notes,
		&createdAtStr,
	)
	if err != nil {
		return model.OptionTrade{}, err
	}
	o.ExpirationDate, err = ParseTime(expirationStr)
	if err != nil || o.ExpirationDate.IsZero() {
		return model.OptionTrade{}, fmt.Errorf("failed to parse date: %w", err)
	}
	o.OpenDate, err = ParseTime(openStr)
	if err != nil || o.OpenDate.IsZero() {
		return model.OptionTrade{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if closeDateStr.Valid {
		closeDate, err := ParseTime(closeDateStr.String)
		if err != nil {
			return model.OptionTrade{}, fmt.Errorf("failed to parse date: %w", err)
		}
		o.CloseDate = &closeDate
	}
	if closePrice.Valid {
		price := closePrice.Float64
		o.ClosePricePerShare = &price
	}
	if notes.Valid {
		o.Notes = notes.String
	}
	if createdAtStr.Valid {
		o.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	return o, nil
}

// ListOptions retrieves option trades matching the filter, newest open date first.
func (s *OptionRepository) ListOptions(f OptionFilter) ([]model.OptionTrade, error) {
	query := `SELECT ` + optionColumns + ` FROM option_trade WHERE 1=1`
	var args []any

	if f.AccountName != "" {
		query += ` AND account_name = ?`
		args = append(args, f.AccountName)
	}
	if f.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, f.Symbol)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY open_date DESC, created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query option_trade table: %w", err)
	}
	defer rows.Close()

	options := []model.OptionTrade{}
	for rows.Next() {
		o, err := scanOption(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan option_trade table results: %w", err)
		}
		options = append(options, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating option_trade table: %w", err)
	}
	return options, nil
}

// GetOption retrieves one option trade by ID.
// Returns a zero-value OptionTrade and nil error when no row matches.
func (s *OptionRepository) GetOption(id string) (model.OptionTrade, error) {
	row := s.db.QueryRow(`SELECT `+optionColumns+` FROM option_trade WHERE id = ?`, id)
	o, err := scanOption(row.Scan)
	if err == sql.ErrNoRows {
		return model.OptionTrade{}, nil
	}
	if err != nil {
		return model.OptionTrade{}, fmt.Errorf("failed to scan option_trade table results: %w", err)
	}
	return o, nil
}

// CreateOption inserts an option trade within the caller's transaction scope
// so the insert and its premium cash flow commit together.
func (s *OptionRepository) CreateOption(tx *sql.Tx, o model.OptionTrade) error {
	_, err := tx.Exec(`
		INSERT INTO option_trade (
			id, account_name, symbol, option_type, strike_price, expiration_date,
			premium_per_share, contracts, open_date, opening_fee, closing_fee, status, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.AccountName, o.Symbol, o.OptionType, o.StrikePrice, DateOnly(o.ExpirationDate),
		o.PremiumPerShare, o.Contracts, DateOnly(o.OpenDate), o.OpeningFee, o.ClosingFee, o.Status, o.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert option_trade: %w", err)
	}
	return nil
}

// CloseOption transitions an open trade to a terminal status within the
// caller's transaction scope. The WHERE status guard makes the transition
// happen at most once even under concurrent closes.
func (s *OptionRepository) CloseOption(tx *sql.Tx, o model.OptionTrade) (int64, error) {
	var closeDate, closePrice any
	if o.CloseDate != nil {
		closeDate = DateOnly(*o.CloseDate)
	}
	if o.ClosePricePerShare != nil {
		closePrice = *o.ClosePricePerShare
	}
	res, err := tx.Exec(`
		UPDATE option_trade
		SET status = ?, close_date = ?, close_price_per_share = ?, closing_fee = ?
		WHERE id = ? AND status = ?`,
		o.Status, closeDate, closePrice, o.ClosingFee, o.ID, model.OptionStatusOpen,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to close option_trade: %w", err)
	}
	return res.RowsAffected()
}

// UpdateOption rewrites the mutable descriptive fields of a trade by ID.
// Lifecycle fields go through CloseOption only.
func (s *OptionRepository) UpdateOption(o model.OptionTrade) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE option_trade
		SET account_name = ?, symbol = ?, option_type = ?, strike_price = ?, expiration_date = ?,
		    premium_per_share = ?, contracts = ?, open_date = ?, opening_fee = ?, notes = ?
		WHERE id = ?`,
		o.AccountName, o.Symbol, o.OptionType, o.StrikePrice, DateOnly(o.ExpirationDate),
		o.PremiumPerShare, o.Contracts, DateOnly(o.OpenDate), o.OpeningFee, o.Notes, o.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update option_trade: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOption removes an option trade by ID.
func (s *OptionRepository) DeleteOption(id string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM option_trade WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete option_trade: %w", err)
	}
	return res.RowsAffected()
}

// BeginTx starts a write transaction on the underlying database.
func (s *OptionRepository) BeginTx() (*sql.Tx, error) {
	return s.db.Begin()
}
