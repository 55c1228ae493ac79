package repository

import (
	"database/sql"
	"fmt"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// SettingsRepository provides data access methods for the price_source_setting table.
// API keys are stored as fernet tokens; this layer never sees plaintext.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// ListSettings retrieves all provider settings without key material.
func (s *SettingsRepository) ListSettings() ([]model.PriceSourceSetting, error) {
	rows, err := s.db.Query(`
		SELECT id, provider, api_key_encrypted IS NOT NULL AND api_key_encrypted != '', enabled, updated_at
		FROM price_source_setting ORDER BY provider ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_source_setting table: %w", err)
	}
	defer rows.Close()

	settings := []model.PriceSourceSetting{}
	for rows.Next() {
		var setting model.PriceSourceSetting
		var updatedAtStr sql.NullString
		if err := rows.Scan(&setting.ID, &setting.Provider, &setting.HasAPIKey, &setting.Enabled, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan price_source_setting table results: %w", err)
		}
		if updatedAtStr.Valid {
			setting.UpdatedAt, _ = ParseTime(updatedAtStr.String)
		}
		settings = append(settings, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_source_setting table: %w", err)
	}
	return settings, nil
}

// GetEncryptedKey returns the stored fernet token for a provider.
// Returns ("", nil) when the provider has no stored key.
func (s *SettingsRepository) GetEncryptedKey(provider string) (string, error) {
	var token sql.NullString
	err := s.db.QueryRow(
		`SELECT api_key_encrypted FROM price_source_setting WHERE provider = ?`, provider,
	).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query price_source_setting table: %w", err)
	}
	return token.String, nil
}

// UpsertKey stores the encrypted API key for a provider.
func (s *SettingsRepository) UpsertKey(id, provider, encryptedKey string) error {
	_, err := s.db.Exec(`
		INSERT INTO price_source_setting (id, provider, api_key_encrypted, enabled, updated_at)
		VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (provider) DO UPDATE SET
			api_key_encrypted = excluded.api_key_encrypted,
			updated_at = CURRENT_TIMESTAMP`,
		id, provider, encryptedKey,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert price_source_setting: %w", err)
	}
	return nil
}

// SetEnabled toggles a provider on or off.
func (s *SettingsRepository) SetEnabled(provider string, enabled bool) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE price_source_setting SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE provider = ?`,
		enabled, provider,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update price_source_setting: %w", err)
	}
	return res.RowsAffected()
}
