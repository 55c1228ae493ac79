package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jchenq/portfolio-desk/internal/model"
)

// PriceRepository provides data access methods for the stock_price_history,
// benchmark_price, and manual_price tables.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// UpsertPrices inserts or replaces daily closes for a symbol. The unique
// (symbol, price_date) constraint makes refresh runs idempotent.
func (s *PriceRepository) UpsertPrices(points []model.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin price upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stock_price_history (id, symbol, price_date, close_price, daily_return, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, price_date) DO UPDATE SET
			close_price = excluded.close_price,
			daily_return = excluded.daily_return,
			volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("failed to prepare price upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		var dailyReturn, volume any
		if p.DailyReturn != nil {
			dailyReturn = *p.DailyReturn
		}
		if p.Volume != nil {
			volume = *p.Volume
		}
		if _, err := stmt.Exec(id, p.Symbol, DateOnly(p.PriceDate), p.ClosePrice, dailyReturn, volume); err != nil {
			return fmt.Errorf("failed to upsert stock_price_history: %w", err)
		}
	}
	return tx.Commit()
}

// GetPrices retrieves daily closes for a symbol within a date range, oldest first.
func (s *PriceRepository) GetPrices(symbol, startDate, endDate string) ([]model.PricePoint, error) {
	query := `
		SELECT id, symbol, price_date, close_price, daily_return, volume
		FROM stock_price_history
		WHERE symbol = ?`
	args := []any{symbol}
	if startDate != "" {
		query += ` AND price_date >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND price_date <= ?`
		args = append(args, endDate)
	}
	query += ` ORDER BY price_date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_price_history table: %w", err)
	}
	defer rows.Close()

	points := []model.PricePoint{}
	for rows.Next() {
		var p model.PricePoint
		var dateStr string
		var dailyReturn sql.NullFloat64
		var volume sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Symbol, &dateStr, &p.ClosePrice, &dailyReturn, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan stock_price_history table results: %w", err)
		}
		p.PriceDate, err = ParseTime(dateStr)
		if err != nil || p.PriceDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if dailyReturn.Valid {
			v := dailyReturn.Float64
			p.DailyReturn = &v
		}
		if volume.Valid {
			v := volume.Int64
			p.Volume = &v
		}
		points = append(points, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_price_history table: %w", err)
	}
	return points, nil
}

// LatestPrice returns the most recent stored close for a symbol.
// Returns (0, nil) when no history exists.
func (s *PriceRepository) LatestPrice(symbol string) (float64, error) {
	var price float64
	err := s.db.QueryRow(`
		SELECT close_price FROM stock_price_history
		WHERE symbol = ? ORDER BY price_date DESC LIMIT 1`, symbol,
	).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query stock_price_history table: %w", err)
	}
	return price, nil
}

// UpsertBenchmarkPrices inserts or replaces daily closes for a benchmark index.
func (s *PriceRepository) UpsertBenchmarkPrices(points []model.BenchmarkPrice) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin benchmark upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO benchmark_price (id, symbol, price_date, close_price, daily_return)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (symbol, price_date) DO UPDATE SET
			close_price = excluded.close_price,
			daily_return = excluded.daily_return`)
	if err != nil {
		return fmt.Errorf("failed to prepare benchmark upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		var dailyReturn any
		if p.DailyReturn != nil {
			dailyReturn = *p.DailyReturn
		}
		if _, err := stmt.Exec(id, p.Symbol, DateOnly(p.PriceDate), p.ClosePrice, dailyReturn); err != nil {
			return fmt.Errorf("failed to upsert benchmark_price: %w", err)
		}
	}
	return tx.Commit()
}

// GetBenchmarkPrices retrieves daily closes for a benchmark within a date range, oldest first.
func (s *PriceRepository) GetBenchmarkPrices(symbol, startDate, endDate string) ([]model.BenchmarkPrice, error) {
	query := `
		SELECT id, symbol, price_date, close_price, daily_return
		FROM benchmark_price
		WHERE symbol = ?`
	args := []any{symbol}
	if startDate != "" {
		query += ` AND price_date >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND price_date <= ?`
		args = append(args, endDate)
	}
	query += ` ORDER BY price_date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark_price table: %w", err)
	}
	defer rows.Close()

	points := []model.BenchmarkPrice{}
	for rows.Next() {
		var p model.BenchmarkPrice
		var dateStr string
		var dailyReturn sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Symbol, &dateStr, &p.ClosePrice, &dailyReturn); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark_price table results: %w", err)
		}
		p.PriceDate, err = ParseTime(dateStr)
		if err != nil || p.PriceDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if dailyReturn.Valid {
			v := dailyReturn.Float64
			p.DailyReturn = &v
		}
		points = append(points, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benchmark_price table: %w", err)
	}
	return points, nil
}

// SetManualPrice stores a manual price override for a symbol. Manual prices
// take precedence over live sources until cleared.
func (s *PriceRepository) SetManualPrice(symbol string, price float64) error {
	_, err := s.db.Exec(`
		INSERT INTO manual_price (symbol, price, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (symbol) DO UPDATE SET price = excluded.price, updated_at = CURRENT_TIMESTAMP`,
		symbol, price,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert manual_price: %w", err)
	}
	return nil
}

// GetManualPrice returns the manual override for a symbol.
// Returns (0, false, nil) when no override exists.
func (s *PriceRepository) GetManualPrice(symbol string) (float64, bool, error) {
	var price float64
	err := s.db.QueryRow(`SELECT price FROM manual_price WHERE symbol = ?`, symbol).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query manual_price table: %w", err)
	}
	return price, true, nil
}

// ClearManualPrice removes the manual override for a symbol.
func (s *PriceRepository) ClearManualPrice(symbol string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM manual_price WHERE symbol = ?`, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to delete manual_price: %w", err)
	}
	return res.RowsAffected()
}
