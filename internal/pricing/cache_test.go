package pricing_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jchenq/portfolio-desk/internal/pricing"
)

type stubSource struct {
	price float64
	err   error
	calls atomic.Int64
}

func (s *stubSource) LatestClose(ctx context.Context, symbol string) (float64, error) {
	s.calls.Add(1)
	return s.price, s.err
}

func (s *stubSource) DailyHistory(ctx context.Context, symbol string, startDate, endDate time.Time) ([]pricing.Indicator, error) {
	return nil, s.err
}

type stubStore struct {
	manual map[string]float64
	stored map[string]float64
}

func (s *stubStore) GetManualPrice(symbol string) (float64, bool, error) {
	price, ok := s.manual[symbol]
	return price, ok, nil
}

func (s *stubStore) LatestPrice(symbol string) (float64, error) {
	return s.stored[symbol], nil
}

// TestService_Price tests the resolution precedence.
//
// WHY: Manual overrides exist to pin a price the provider gets wrong; if the
// cache or the live source could shadow one, the override would be useless.
func TestService_Price(t *testing.T) {
	t.Run("manual override wins over the live source", func(t *testing.T) {
		source := &stubSource{price: 200}
		svc := pricing.NewService(source, &stubStore{manual: map[string]float64{"NVDA": 123}}, time.Minute, time.Second)

		quote, err := svc.Price(context.Background(), "NVDA")
		if err != nil {
			t.Fatalf("Price() returned unexpected error: %v", err)
		}
		if quote.Price != 123 || quote.Source != "manual" {
			t.Errorf("quote = %v from %q, want 123 from manual", quote.Price, quote.Source)
		}
		if source.calls.Load() != 0 {
			t.Errorf("live source called %d times, want 0", source.calls.Load())
		}
	})

	t.Run("second lookup inside the TTL hits the cache", func(t *testing.T) {
		source := &stubSource{price: 200}
		svc := pricing.NewService(source, &stubStore{}, time.Minute, time.Second)

		for i := 0; i < 2; i++ {
			quote, err := svc.Price(context.Background(), "NVDA")
			if err != nil {
				t.Fatalf("Price() returned unexpected error: %v", err)
			}
			if quote.Price != 200 {
				t.Errorf("quote = %v, want 200", quote.Price)
			}
		}
		if source.calls.Load() != 1 {
			t.Errorf("live source called %d times, want 1", source.calls.Load())
		}
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		source := &stubSource{price: 200}
		svc := pricing.NewService(source, &stubStore{}, time.Minute, time.Second)

		if _, err := svc.Price(context.Background(), "NVDA"); err != nil {
			t.Fatalf("Price() returned unexpected error: %v", err)
		}
		svc.Invalidate("NVDA")
		if _, err := svc.Price(context.Background(), "NVDA"); err != nil {
			t.Fatalf("Price() returned unexpected error: %v", err)
		}
		if source.calls.Load() != 2 {
			t.Errorf("live source called %d times, want 2", source.calls.Load())
		}
	})

	t.Run("dead source falls back to stored history", func(t *testing.T) {
		source := &stubSource{err: fmt.Errorf("connection refused")}
		svc := pricing.NewService(source, &stubStore{stored: map[string]float64{"NVDA": 97}}, time.Minute, time.Second)

		quote, err := svc.Price(context.Background(), "NVDA")
		if err != nil {
			t.Fatalf("Price() returned unexpected error: %v", err)
		}
		if quote.Price != 97 || quote.Source != "history" {
			t.Errorf("quote = %v from %q, want 97 from history", quote.Price, quote.Source)
		}
	})

	t.Run("unresolvable symbol errors", func(t *testing.T) {
		source := &stubSource{err: fmt.Errorf("connection refused")}
		svc := pricing.NewService(source, &stubStore{}, time.Minute, time.Second)

		if _, err := svc.Price(context.Background(), "NVDA"); err == nil {
			t.Error("Expected error when no source can resolve the symbol")
		}
	})
}

// TestService_Prices tests partial-result batch resolution.
func TestService_Prices(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("connection refused")}
	store := &stubStore{manual: map[string]float64{"NVDA": 123}}
	svc := pricing.NewService(source, store, time.Minute, time.Second)

	quotes := svc.Prices(context.Background(), []string{"NVDA", "GHOST"})

	if len(quotes) != 1 {
		t.Fatalf("Expected 1 resolved quote, got %d", len(quotes))
	}
	if quotes["NVDA"].Price != 123 {
		t.Errorf("NVDA quote = %v, want 123", quotes["NVDA"].Price)
	}
}
