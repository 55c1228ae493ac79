package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// SnapshotRepository persists correlation and attribution analysis results
// so historical runs can be compared without recomputation.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveCorrelation stores one correlation analysis run.
func (s *SnapshotRepository) SaveCorrelation(id string, a model.CorrelationAnalysis) error {
	matrixJSON, err := json.Marshal(a.Matrix)
	if err != nil {
		return fmt.Errorf("failed to encode correlation matrix: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO correlation_snapshot (
			id, account_name, calculation_date, lookback_days, matrix_json,
			max_correlation, min_correlation, avg_correlation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nullIfEmpty(a.AccountName), DateOnly(a.CalculationDate), a.LookbackDays,
		string(matrixJSON), a.Stats.Max, a.Stats.Min, a.Stats.Avg,
	)
	if err != nil {
		return fmt.Errorf("failed to insert correlation_snapshot: %w", err)
	}
	return nil
}

// ListCorrelationSnapshots returns prior runs for an account, newest first.
func (s *SnapshotRepository) ListCorrelationSnapshots(accountName string, limit int) ([]model.CorrelationAnalysis, error) {
	query := `
		SELECT account_name, calculation_date, lookback_days, matrix_json,
		       max_correlation, min_correlation, avg_correlation
		FROM correlation_snapshot WHERE 1=1`
	var args []any
	if accountName != "" {
		query += ` AND account_name = ?`
		args = append(args, accountName)
	}
	query += ` ORDER BY calculation_date DESC, created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query correlation_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.CorrelationAnalysis{}
	for rows.Next() {
		var a model.CorrelationAnalysis
		var account, matrixJSON sql.NullString
		var dateStr string
		if err := rows.Scan(&account, &dateStr, &a.LookbackDays, &matrixJSON,
			&a.Stats.Max, &a.Stats.Min, &a.Stats.Avg); err != nil {
			return nil, fmt.Errorf("failed to scan correlation_snapshot table results: %w", err)
		}
		if account.Valid {
			a.AccountName = account.String
		}
		a.CalculationDate, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if matrixJSON.Valid && matrixJSON.String != "" {
			if err := json.Unmarshal([]byte(matrixJSON.String), &a.Matrix); err != nil {
				return nil, fmt.Errorf("failed to decode correlation matrix: %w", err)
			}
		}
		snapshots = append(snapshots, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating correlation_snapshot table: %w", err)
	}
	return snapshots, nil
}

// SaveAttribution stores one attribution analysis run.
func (s *SnapshotRepository) SaveAttribution(id string, r model.AttributionResult) error {
	breakdownJSON, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode attribution breakdown: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO attribution_snapshot (
			id, account_name, start_date, end_date, benchmark_symbol,
			total_return, benchmark_return, excess_return, portfolio_beta,
			beta_contribution, total_alpha, selection_alpha, timing_alpha,
			strategy_alpha, allocation_alpha, breakdown_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.AccountName, r.StartDate, r.EndDate, r.BenchmarkSymbol,
		r.TotalReturn, r.BenchmarkReturn, r.ExcessReturn, r.PortfolioBeta,
		r.BetaContribution, r.TotalAlpha, r.SelectionAlpha, r.TimingAlpha,
		r.StrategyAlpha, r.AllocationAlpha, string(breakdownJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert attribution_snapshot: %w", err)
	}
	return nil
}

// ListAttributionSnapshots returns prior runs for an account, newest first.
func (s *SnapshotRepository) ListAttributionSnapshots(accountName string, limit int) ([]model.AttributionResult, error) {
	query := `
		SELECT account_name, start_date, end_date, benchmark_symbol,
		       total_return, benchmark_return, excess_return, portfolio_beta,
		       beta_contribution, total_alpha, selection_alpha, timing_alpha,
		       strategy_alpha, allocation_alpha, breakdown_json, created_at
		FROM attribution_snapshot WHERE 1=1`
	var args []any
	if accountName != "" {
		query += ` AND account_name = ?`
		args = append(args, accountName)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attribution_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.AttributionResult{}
	for rows.Next() {
		var r model.AttributionResult
		var breakdownJSON, createdAtStr sql.NullString
		if err := rows.Scan(&r.AccountName, &r.StartDate, &r.EndDate, &r.BenchmarkSymbol,
			&r.TotalReturn, &r.BenchmarkReturn, &r.ExcessReturn, &r.PortfolioBeta,
			&r.BetaContribution, &r.TotalAlpha, &r.SelectionAlpha, &r.TimingAlpha,
			&r.StrategyAlpha, &r.AllocationAlpha, &breakdownJSON, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan attribution_snapshot table results: %w", err)
		}
		if breakdownJSON.Valid && breakdownJSON.String != "" {
			if err := json.Unmarshal([]byte(breakdownJSON.String), &r.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to decode attribution breakdown: %w", err)
			}
		}
		if createdAtStr.Valid {
			r.CalculatedAt, _ = ParseTime(createdAtStr.String)
		}
		snapshots = append(snapshots, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attribution_snapshot table: %w", err)
	}
	return snapshots, nil
}
