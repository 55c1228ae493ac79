package service

import (
	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/pricing"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// SettingsService manages price provider settings. API keys are encrypted
// with the fernet keyring before storage and only decrypted server-side for
// outbound provider calls.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	keyring      *pricing.Keyring
}

// NewSettingsService creates a new SettingsService with the provided dependencies.
func NewSettingsService(settingsRepo *repository.SettingsRepository, keyring *pricing.Keyring) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		keyring:      keyring,
	}
}

// ListSettings retrieves provider settings without key material.
func (s *SettingsService) ListSettings() ([]model.PriceSourceSetting, error) {
	return s.settingsRepo.ListSettings()
}

// StoreAPIKey encrypts and stores a provider API key.
func (s *SettingsService) StoreAPIKey(provider, apiKey string) error {
	if provider == "" || apiKey == "" {
		return apperrors.ErrMissingRequiredField
	}
	token, err := s.keyring.Encrypt(apiKey)
	if err != nil {
		return err
	}
	return s.settingsRepo.UpsertKey(uuid.New().String(), provider, token)
}

// APIKey decrypts and returns the stored key for a provider. Returns an
// empty string when no key is stored.
func (s *SettingsService) APIKey(provider string) (string, error) {
	token, err := s.settingsRepo.GetEncryptedKey(provider)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}
	return s.keyring.Decrypt(token)
}

// SetEnabled toggles a provider on or off.
func (s *SettingsService) SetEnabled(provider string, enabled bool) error {
	affected, err := s.settingsRepo.SetEnabled(provider, enabled)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrDataInconsistency
	}
	return nil
}
