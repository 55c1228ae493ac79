package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// AlertRepository provides data access methods for the price_alert table.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new AlertRepository with the provided database connection.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `
	id, symbol, alert_type, target_price, current_price, notification_method,
	email_address, planned_action, planned_shares, planned_notes, status,
	triggered_at, triggered_price, created_at
`

func scanAlert(scan func(dest ...any) error) (model.PriceAlert, error) {
	var a model.PriceAlert
	var currentPrice, triggeredPrice sql.NullFloat64
	var plannedShares sql.NullInt64
	var email, action, plannedNotes, triggeredAtStr, createdAtStr sql.NullString

	err := scan(
		&a.ID,
		&a.Symbol,
		&a.AlertType,
		&a.TargetPrice,
		&currentPrice,
		&a.NotificationMethod,
		&email,
		&action,
		&plannedShares,
		&plannedNotes,
		&a.Status,
		&triggeredAtStr,
		&triggeredPrice,
		&createdAtStr,
	)
	if err != nil {
		return model.PriceAlert{}, err
	}
	if currentPrice.Valid {
		v := currentPrice.Float64
		a.CurrentPrice = &v
	}
	if email.Valid {
		a.EmailAddress = email.String
	}
	if action.Valid {
		a.PlannedAction = action.String
	}
	if plannedShares.Valid {
		v := int(plannedShares.Int64)
		a.PlannedShares = &v
	}
	if plannedNotes.Valid {
		a.PlannedNotes = plannedNotes.String
	}
	if triggeredAtStr.Valid {
		triggeredAt, err := ParseTime(triggeredAtStr.String)
		if err != nil {
			return model.PriceAlert{}, fmt.Errorf("failed to parse date: %w", err)
		}
		a.TriggeredAt = &triggeredAt
	}
	if triggeredPrice.Valid {
		v := triggeredPrice.Float64
		a.TriggeredPrice = &v
	}
	if createdAtStr.Valid {
		a.CreatedAt, _ = ParseTime(createdAtStr.String)
	}
	return a, nil
}

// ListAlerts retrieves price alerts, optionally filtered by status and symbol.
func (s *AlertRepository) ListAlerts(status, symbol string) ([]model.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alert WHERE 1=1`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_alert table: %w", err)
	}
	defer rows.Close()

	alerts := []model.PriceAlert{}
	for rows.Next() {
		a, err := scanAlert(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price_alert table results: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_alert table: %w", err)
	}
	return alerts, nil
}

// GetAlert retrieves one price alert by ID.
// Returns a zero-value PriceAlert and nil error when no row matches.
func (s *AlertRepository) GetAlert(id string) (model.PriceAlert, error) {
	row := s.db.QueryRow(`SELECT `+alertColumns+` FROM price_alert WHERE id = ?`, id)
	a, err := scanAlert(row.Scan)
	if err == sql.ErrNoRows {
		return model.PriceAlert{}, nil
	}
	if err != nil {
		return model.PriceAlert{}, fmt.Errorf("failed to scan price_alert table results: %w", err)
	}
	return a, nil
}

// CreateAlert inserts a new price alert.
func (s *AlertRepository) CreateAlert(a model.PriceAlert) error {
	_, err := s.db.Exec(`
		INSERT INTO price_alert (
			id, symbol, alert_type, target_price, notification_method,
			email_address, planned_action, planned_shares, planned_notes, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Symbol, a.AlertType, a.TargetPrice, a.NotificationMethod,
		a.EmailAddress, a.PlannedAction, nullInt(a.PlannedShares), a.PlannedNotes, a.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price_alert: %w", err)
	}
	return nil
}

// UpdateAlertStatus sets the status of an alert (enable, disable).
func (s *AlertRepository) UpdateAlertStatus(id, status string) (int64, error) {
	res, err := s.db.Exec(`UPDATE price_alert SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update price_alert: %w", err)
	}
	return res.RowsAffected()
}

// UpdateCurrentPrice records the latest observed price on an alert.
func (s *AlertRepository) UpdateCurrentPrice(id string, price float64) error {
	_, err := s.db.Exec(`UPDATE price_alert SET current_price = ? WHERE id = ?`, price, id)
	if err != nil {
		return fmt.Errorf("failed to update price_alert: %w", err)
	}
	return nil
}

// MarkTriggered transitions an active alert to triggered with the firing
// price. The WHERE status guard makes the transition happen at most once.
func (s *AlertRepository) MarkTriggered(id string, price float64, at time.Time) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE price_alert
		SET status = ?, triggered_at = ?, triggered_price = ?, current_price = ?
		WHERE id = ? AND status = ?`,
		model.AlertStatusTriggered, at.UTC().Format(time.RFC3339), price, price, id, model.AlertStatusActive,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update price_alert: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAlert removes a price alert by ID.
func (s *AlertRepository) DeleteAlert(id string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM price_alert WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete price_alert: %w", err)
	}
	return res.RowsAffected()
}

// CountActive returns the number of active alerts. The monitor uses this to
// size its polling interval.
func (s *AlertRepository) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM price_alert WHERE status = ?`, model.AlertStatusActive,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query price_alert table: %w", err)
	}
	return count, nil
}
