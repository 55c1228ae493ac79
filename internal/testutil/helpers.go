package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// StaticPrices is a PriceResolver fixture serving fixed quotes from a map.
// Symbols absent from the map return an error from Price and are omitted
// from Prices, matching the partial-result behavior of the live service.
type StaticPrices struct {
	Quotes map[string]float64
}

// Price returns the fixed quote for one symbol.
func (s StaticPrices) Price(_ context.Context, symbol string) (model.Quote, error) {
	price, ok := s.Quotes[symbol]
	if !ok {
		return model.Quote{}, fmt.Errorf("no quote for %s", symbol)
	}
	return model.Quote{Symbol: symbol, Price: price, Source: "test", FetchedAt: time.Now().UTC()}, nil
}

// Prices returns fixed quotes for the requested symbols, skipping unknowns.
func (s StaticPrices) Prices(_ context.Context, symbols []string) map[string]model.Quote {
	quotes := make(map[string]model.Quote, len(symbols))
	for _, symbol := range symbols {
		if price, ok := s.Quotes[symbol]; ok {
			quotes[symbol] = model.Quote{Symbol: symbol, Price: price, Source: "test", FetchedAt: time.Now().UTC()}
		}
	}
	return quotes
}

// RecordingNotifier captures delivered alerts for assertions.
type RecordingNotifier struct {
	mu        sync.Mutex
	Delivered []model.PriceAlert
	Err       error
}

// Notify records the alert, returning the configured error if any.
func (n *RecordingNotifier) Notify(alert model.PriceAlert, _ float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Delivered = append(n.Delivered, alert)
	return nil
}

// Count returns the number of alerts delivered so far.
func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Delivered)
}
