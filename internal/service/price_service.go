package service

import (
	"fmt"
	"strings"

	"github.com/jchenq/portfolio-desk/internal/pricing"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// PriceService manages manual price overrides. A manual price takes
// precedence over cached and live quotes until it is cleared.
type PriceService struct {
	priceRepo *repository.PriceRepository
	cache     *pricing.Service
}

// NewPriceService creates a new PriceService with the provided dependencies.
func NewPriceService(priceRepo *repository.PriceRepository, cache *pricing.Service) *PriceService {
	return &PriceService{priceRepo: priceRepo, cache: cache}
}

// SetManualPrice pins a symbol to a fixed price and drops any cached quote
// so the override is visible immediately.
func (s *PriceService) SetManualPrice(symbol string, price float64) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if err := s.priceRepo.SetManualPrice(symbol, price); err != nil {
		return err
	}
	s.cache.Invalidate(symbol)
	return nil
}

// ClearManualPrice removes a manual override, returning the symbol to live
// quoting.
func (s *PriceService) ClearManualPrice(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if _, err := s.priceRepo.ClearManualPrice(symbol); err != nil {
		return err
	}
	s.cache.Invalidate(symbol)
	return nil
}
