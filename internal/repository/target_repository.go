package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// TargetRepository provides data access methods for the position_target table.
type TargetRepository struct {
	db *sql.DB
}

// NewTargetRepository creates a new TargetRepository with the provided database connection.
func NewTargetRepository(db *sql.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

const targetColumns = `
	id, symbol, account_name, target_type, target_percentage, target_amount,
	target_shares, max_percentage, max_amount, max_shares, priority,
	rebalance_threshold, notes, created_at, updated_at
`

func scanTarget(scan func(dest ...any) error) (model.PositionTarget, error) {
	var t model.PositionTarget
	var targetPct, targetAmt, maxPct, maxAmt sql.NullFloat64
	var targetShares, maxShares sql.NullInt64
	var notes, createdAtStr, updatedAtStr sql.NullString

	err := scan(
		&t.ID,
		&t.Symbol,
		&t.AccountName,
		&t.TargetType,
		&targetPct,
		&targetAmt,
		&targetShares,
		&maxPct,
		&maxAmt,
		&maxShares,
		&t.Priority,
		&t.RebalanceThreshold,
		&notes,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.PositionTarget{}, err
	}
	if targetPct.Valid {
		v := targetPct.Float64
		t.TargetPercentage = &v
	}
	if targetAmt.Valid {
		v := targetAmt.Float64
		t.TargetAmount = &v
	}
	if targetShares.Valid {
		v := int(targetShares.Int64)
		t.TargetShares = &v
	}
	if maxPct.Valid {
		v := maxPct.Float64
		t.MaxPercentage = &v
	}
	if maxAmt.Valid {
		v := maxAmt.Float64
		t.MaxAmount = &v
	}
	if maxShares.Valid {
		v := int(maxShares.Int64)
		t.MaxShares = &v
	}
	if notes.Valid {
		t.Notes = notes.String
	}
	if createdAtStr.Valid {
		t.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	if updatedAtStr.Valid {
		t.UpdatedAt, _ = ParseTime(updatedAtStr.String)
	}
	return t, nil
}

// ListTargets retrieves position targets, optionally filtered by account,
// ordered by priority then symbol.
func (s *TargetRepository) ListTargets(accountName string) ([]model.PositionTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM position_target`
	var args []any
	if accountName != "" {
		query += ` WHERE account_name = ?`
		args = append(args, accountName)
	}
	query += ` ORDER BY priority ASC, symbol ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query position_target table: %w", err)
	}
	defer rows.Close()

	targets := []model.PositionTarget{}
	for rows.Next() {
		t, err := scanTarget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position_target table results: %w", err)
		}
		targets = append(targets, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position_target table: %w", err)
	}
	return targets, nil
}

// GetTarget retrieves one position target by (symbol, account).
// Returns a zero-value PositionTarget and nil error when no row matches.
func (s *TargetRepository) GetTarget(symbol, accountName string) (model.PositionTarget, error) {
	row := s.db.QueryRow(
		`SELECT `+targetColumns+` FROM position_target WHERE symbol = ? AND account_name = ?`,
		symbol, accountName,
	)
	t, err := scanTarget(row.Scan)
	if err == sql.ErrNoRows {
		return model.PositionTarget{}, nil
	}
	if err != nil {
		return model.PositionTarget{}, fmt.Errorf("failed to scan position_target table results: %w", err)
	}
	return t, nil
}

// UpsertTarget inserts or replaces the target for (symbol, account). The
// unique constraint gives set-target upsert semantics.
func (s *TargetRepository) UpsertTarget(t model.PositionTarget) error {
	_, err := s.db.Exec(`
		INSERT INTO position_target (
			id, symbol, account_name, target_type, target_percentage, target_amount,
			target_shares, max_percentage, max_amount, max_shares, priority,
			rebalance_threshold, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, account_name) DO UPDATE SET
			target_type = excluded.target_type,
			target_percentage = excluded.target_percentage,
			target_amount = excluded.target_amount,
			target_shares = excluded.target_shares,
			max_percentage = excluded.max_percentage,
			max_amount = excluded.max_amount,
			max_shares = excluded.max_shares,
			priority = excluded.priority,
			rebalance_threshold = excluded.rebalance_threshold,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP`,
		t.ID, t.Symbol, t.AccountName, t.TargetType,
		nullFloat(t.TargetPercentage), nullFloat(t.TargetAmount), nullInt(t.TargetShares),
		nullFloat(t.MaxPercentage), nullFloat(t.MaxAmount), nullInt(t.MaxShares),
		t.Priority, t.RebalanceThreshold, t.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position_target: %w", err)
	}
	return nil
}

// DeleteTarget removes the target for (symbol, account).
func (s *TargetRepository) DeleteTarget(symbol, accountName string) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM position_target WHERE symbol = ? AND account_name = ?`,
		symbol, accountName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete position_target: %w", err)
	}
	return res.RowsAffected()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
