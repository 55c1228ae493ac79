package service_test

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/testutil"
)

func newHoldings(db *sql.DB, prices testutil.StaticPrices) *service.SummaryService {
	return service.NewSummaryService(
		repository.NewTransactionRepository(db),
		repository.NewOptionRepository(db),
		repository.NewAccountRepository(db),
		prices,
	)
}

// TestAlertService_CreateAlert tests alert validation and defaults.
func TestAlertService_CreateAlert(t *testing.T) {
	newFixture := func(t *testing.T) *service.AlertService {
		db := testutil.SetupTestDB(t)
		return service.NewAlertService(
			repository.NewAlertRepository(db),
			testutil.StaticPrices{},
			newHoldings(db, testutil.StaticPrices{}),
			&testutil.RecordingNotifier{},
		)
	}

	t.Run("defaults to active with log notification", func(t *testing.T) {
		svc := newFixture(t)

		created, err := svc.CreateAlert(model.PriceAlert{
			Symbol: "nvda", AlertType: model.AlertAbove, TargetPrice: 150,
		})
		if err != nil {
			t.Fatalf("CreateAlert() returned unexpected error: %v", err)
		}
		if created.Symbol != "NVDA" {
			t.Errorf("Symbol = %q, want normalized NVDA", created.Symbol)
		}
		if created.Status != model.AlertStatusActive {
			t.Errorf("Status = %q, want active", created.Status)
		}
		if created.NotificationMethod != model.NotifyLog {
			t.Errorf("NotificationMethod = %q, want log", created.NotificationMethod)
		}
	})

	t.Run("email method requires an address", func(t *testing.T) {
		svc := newFixture(t)

		_, err := svc.CreateAlert(model.PriceAlert{
			Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 150,
			NotificationMethod: model.NotifyEmail,
		})
		if err == nil {
			t.Error("Expected error for email alert without an address")
		}
	})

	t.Run("rejects non-positive target price", func(t *testing.T) {
		svc := newFixture(t)

		_, err := svc.CreateAlert(model.PriceAlert{
			Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 0,
		})
		if err == nil {
			t.Error("Expected error for zero target price")
		}
	})
}

// TestAlertService_SetStatus tests the manual status transitions.
func TestAlertService_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAlertService(
		repository.NewAlertRepository(db),
		testutil.StaticPrices{},
		newHoldings(db, testutil.StaticPrices{}),
		&testutil.RecordingNotifier{},
	)

	created, err := svc.CreateAlert(model.PriceAlert{
		Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 150,
	})
	if err != nil {
		t.Fatalf("CreateAlert() returned unexpected error: %v", err)
	}

	t.Run("disable and re-arm", func(t *testing.T) {
		if err := svc.SetStatus(created.ID, model.AlertStatusDisabled); err != nil {
			t.Fatalf("SetStatus() returned unexpected error: %v", err)
		}
		if err := svc.SetStatus(created.ID, model.AlertStatusActive); err != nil {
			t.Fatalf("SetStatus() returned unexpected error: %v", err)
		}
	})

	t.Run("triggered cannot be set by hand", func(t *testing.T) {
		if err := svc.SetStatus(created.ID, model.AlertStatusTriggered); err == nil {
			t.Error("Expected error when setting status to triggered")
		}
	})

	t.Run("unknown alert", func(t *testing.T) {
		if err := svc.SetStatus("no-such-id", model.AlertStatusDisabled); !errors.Is(err, apperrors.ErrAlertNotFound) {
			t.Errorf("Expected ErrAlertNotFound, got %v", err)
		}
	})
}

// TestAlertService_MonitoredSymbols tests the monitored universe.
//
// WHY: The monitor budgets provider requests per symbol; a held position
// without an alert still costs a quote per sweep, so it must be counted.
func TestAlertService_MonitoredSymbols(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAlertService(
		repository.NewAlertRepository(db),
		testutil.StaticPrices{},
		newHoldings(db, testutil.StaticPrices{}),
		&testutil.RecordingNotifier{},
	)

	testutil.InsertTransaction(t, db, model.Transaction{
		Date: mustDate("2026-01-05"), AccountName: "swing", Symbol: "AMD",
		Side: model.SideBuy, Price: 100, Shares: 10,
	})
	if _, err := svc.CreateAlert(model.PriceAlert{
		Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 150,
	}); err != nil {
		t.Fatalf("CreateAlert() returned unexpected error: %v", err)
	}

	symbols, err := svc.MonitoredSymbols(context.Background())
	if err != nil {
		t.Fatalf("MonitoredSymbols() returned unexpected error: %v", err)
	}
	if !reflect.DeepEqual(symbols, []string{"AMD", "NVDA"}) {
		t.Errorf("MonitoredSymbols() = %v, want [AMD NVDA]", symbols)
	}
}

// TestAlertService_CheckAll tests the evaluation sweep.
//
// WHY: An alert that keeps firing on every poll is worse than no alert.
// Once triggered it must leave the active set, and a quiet alert must still
// get its observed price refreshed.
func TestAlertService_CheckAll(t *testing.T) {
	t.Run("fires once and records the trigger price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		notifier := &testutil.RecordingNotifier{}
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 155}}
		svc := service.NewAlertService(
			repository.NewAlertRepository(db),
			prices,
			newHoldings(db, prices),
			notifier,
		)

		created, err := svc.CreateAlert(model.PriceAlert{
			Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 150,
		})
		if err != nil {
			t.Fatalf("CreateAlert() returned unexpected error: %v", err)
		}

		triggered, err := svc.CheckAll(context.Background())
		if err != nil {
			t.Fatalf("CheckAll() returned unexpected error: %v", err)
		}
		if triggered != 1 {
			t.Errorf("CheckAll() = %d, want 1", triggered)
		}
		if notifier.Count() != 1 {
			t.Errorf("notifier delivered %d, want 1", notifier.Count())
		}

		after, err := svc.GetAlert(created.ID)
		if err != nil {
			t.Fatalf("GetAlert() returned unexpected error: %v", err)
		}
		if after.Status != model.AlertStatusTriggered {
			t.Errorf("Status = %q, want triggered", after.Status)
		}

		// A second sweep finds no active alerts.
		triggered, err = svc.CheckAll(context.Background())
		if err != nil {
			t.Fatalf("second CheckAll() returned unexpected error: %v", err)
		}
		if triggered != 0 {
			t.Errorf("second CheckAll() = %d, want 0", triggered)
		}
		if notifier.Count() != 1 {
			t.Errorf("notifier delivered %d after second sweep, want still 1", notifier.Count())
		}
	})

	t.Run("quiet alert gets its observed price updated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		prices := testutil.StaticPrices{Quotes: map[string]float64{"NVDA": 140}}
		svc := service.NewAlertService(
			repository.NewAlertRepository(db),
			prices,
			newHoldings(db, prices),
			&testutil.RecordingNotifier{},
		)

		created, err := svc.CreateAlert(model.PriceAlert{
			Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 150,
		})
		if err != nil {
			t.Fatalf("CreateAlert() returned unexpected error: %v", err)
		}

		if _, err := svc.CheckAll(context.Background()); err != nil {
			t.Fatalf("CheckAll() returned unexpected error: %v", err)
		}

		after, err := svc.GetAlert(created.ID)
		if err != nil {
			t.Fatalf("GetAlert() returned unexpected error: %v", err)
		}
		if after.Status != model.AlertStatusActive {
			t.Errorf("Status = %q, want still active", after.Status)
		}
		if after.CurrentPrice == nil || *after.CurrentPrice != 140 {
			t.Errorf("CurrentPrice = %v, want 140", after.CurrentPrice)
		}
	})

	t.Run("symbols without a quote are skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewAlertService(
			repository.NewAlertRepository(db),
			testutil.StaticPrices{},
			newHoldings(db, testutil.StaticPrices{}),
			&testutil.RecordingNotifier{},
		)

		if _, err := svc.CreateAlert(model.PriceAlert{
			Symbol: "NVDA", AlertType: model.AlertAbove, TargetPrice: 150,
		}); err != nil {
			t.Fatalf("CreateAlert() returned unexpected error: %v", err)
		}

		triggered, err := svc.CheckAll(context.Background())
		if err != nil {
			t.Fatalf("CheckAll() returned unexpected error: %v", err)
		}
		if triggered != 0 {
			t.Errorf("CheckAll() = %d, want 0", triggered)
		}
	})
}
