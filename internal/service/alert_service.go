package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/notify"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// HeldSymbolSource supplies the symbols currently held across accounts, so
// the monitor tracks the whole portfolio even where no alert is set.
type HeldSymbolSource interface {
	HeldSymbols(ctx context.Context) ([]string, error)
}

// AlertService manages price alerts and evaluates them against live prices.
// The background monitor calls CheckAll on its polling interval.
type AlertService struct {
	alertRepo *repository.AlertRepository
	prices    PriceResolver
	holdings  HeldSymbolSource
	notifier  notify.Notifier
}

// NewAlertService creates a new AlertService with the provided dependencies.
func NewAlertService(
	alertRepo *repository.AlertRepository,
	prices PriceResolver,
	holdings HeldSymbolSource,
	notifier notify.Notifier,
) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		prices:    prices,
		holdings:  holdings,
		notifier:  notifier,
	}
}

// ListAlerts retrieves alerts, optionally filtered by status and symbol.
func (s *AlertService) ListAlerts(status, symbol string) ([]model.PriceAlert, error) {
	return s.alertRepo.ListAlerts(status, symbol)
}

// GetAlert retrieves one alert by ID.
func (s *AlertService) GetAlert(id string) (model.PriceAlert, error) {
	a, err := s.alertRepo.GetAlert(id)
	if err != nil {
		return model.PriceAlert{}, err
	}
	if a.ID == "" {
		return model.PriceAlert{}, apperrors.ErrAlertNotFound
	}
	return a, nil
}

// CreateAlert validates and persists a new active alert.
func (s *AlertService) CreateAlert(a model.PriceAlert) (model.PriceAlert, error) {
	if a.Symbol == "" {
		return model.PriceAlert{}, apperrors.ErrInvalidSymbol
	}
	if !model.ValidAlertType(a.AlertType) {
		return model.PriceAlert{}, fmt.Errorf("%w: alert type %q", apperrors.ErrMissingRequiredField, a.AlertType)
	}
	if a.TargetPrice <= 0 {
		return model.PriceAlert{}, fmt.Errorf("%w: target price", apperrors.ErrNegativeAmount)
	}
	if a.NotificationMethod == "" {
		a.NotificationMethod = model.NotifyLog
	}
	if a.NotificationMethod == model.NotifyEmail && a.EmailAddress == "" {
		return model.PriceAlert{}, fmt.Errorf("%w: email address", apperrors.ErrMissingRequiredField)
	}

	a.ID = uuid.New().String()
	a.Symbol = strings.ToUpper(a.Symbol)
	a.Status = model.AlertStatusActive
	if err := s.alertRepo.CreateAlert(a); err != nil {
		return model.PriceAlert{}, err
	}
	return a, nil
}

// SetStatus enables or disables an alert. Triggered alerts can be
// re-activated to rearm them.
func (s *AlertService) SetStatus(id, status string) error {
	switch status {
	case model.AlertStatusActive, model.AlertStatusDisabled:
	default:
		return fmt.Errorf("%w: status must be active or disabled", apperrors.ErrMissingRequiredField)
	}
	affected, err := s.alertRepo.UpdateAlertStatus(id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

// DeleteAlert removes an alert by ID.
func (s *AlertService) DeleteAlert(id string) error {
	affected, err := s.alertRepo.DeleteAlert(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

// CountActive returns the number of active alerts.
func (s *AlertService) CountActive() (int, error) {
	return s.alertRepo.CountActive()
}

// MonitoredSymbols returns the union of symbols carrying an active alert and
// symbols currently held in any account, sorted.
func (s *AlertService) MonitoredSymbols(ctx context.Context) ([]string, error) {
	alerts, err := s.alertRepo.ListAlerts(model.AlertStatusActive, "")
	if err != nil {
		return nil, err
	}

	symbolSet := make(map[string]struct{})
	for _, a := range alerts {
		symbolSet[a.Symbol] = struct{}{}
	}
	if s.holdings != nil {
		held, err := s.holdings.HeldSymbols(ctx)
		if err != nil {
			return nil, err
		}
		for _, symbol := range held {
			symbolSet[symbol] = struct{}{}
		}
	}

	symbols := make([]string, 0, len(symbolSet))
	for symbol := range symbolSet {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// CheckAll quotes every monitored symbol, evaluates every active alert, and
// fires those whose condition holds. Held symbols are quoted even without an
// alert so the price cache stays warm for the whole portfolio. The triggered
// transition is guarded in the database, so an alert notifies at most once
// per arming. Returns the number of alerts that fired.
func (s *AlertService) CheckAll(ctx context.Context) (int, error) {
	alerts, err := s.alertRepo.ListAlerts(model.AlertStatusActive, "")
	if err != nil {
		return 0, err
	}
	symbols, err := s.MonitoredSymbols(ctx)
	if err != nil {
		return 0, err
	}
	if len(symbols) == 0 {
		return 0, nil
	}
	quotes := s.prices.Prices(ctx, symbols)

	triggered := 0
	for _, alert := range alerts {
		quote, ok := quotes[alert.Symbol]
		if !ok {
			continue
		}
		if !alert.ShouldTrigger(quote.Price) {
			if err := s.alertRepo.UpdateCurrentPrice(alert.ID, quote.Price); err != nil {
				return triggered, err
			}
			continue
		}

		affected, err := s.alertRepo.MarkTriggered(alert.ID, quote.Price, nowUTC())
		if err != nil {
			return triggered, err
		}
		if affected == 0 {
			continue
		}
		triggered++
		if s.notifier != nil {
			if err := s.notifier.Notify(alert, quote.Price); err != nil {
				// Notification failure does not undo the trigger
				continue
			}
		}
	}
	return triggered, nil
}
