package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jchenq/portfolio-desk/internal/model"
)

// Source is the live price provider. FinanceClient satisfies it; tests
// substitute a stub.
type Source interface {
	LatestClose(ctx context.Context, symbol string) (float64, error)
	DailyHistory(ctx context.Context, symbol string, startDate, endDate time.Time) ([]Indicator, error)
}

// ManualStore resolves manual price overrides. Overrides win over live
// sources and over cached values.
type ManualStore interface {
	GetManualPrice(symbol string) (float64, bool, error)
	LatestPrice(symbol string) (float64, error)
}

type cacheEntry struct {
	price     float64
	source    string
	fetchedAt time.Time
}

// Service resolves current prices with a fixed precedence: manual override,
// then fresh cache, then the live source, then stored history as a last
// resort. Batch lookups fan out concurrently with a per-call timeout.
type Service struct {
	source       Source
	store        ManualStore
	ttl          time.Duration
	fetchTimeout time.Duration
	maxParallel  int

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewService creates a price resolution service.
func NewService(source Source, store ManualStore, ttl, fetchTimeout time.Duration) *Service {
	return &Service{
		source:       source,
		store:        store,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		maxParallel:  4,
		cache:        make(map[string]cacheEntry),
	}
}

// Price resolves the current price for one symbol.
func (s *Service) Price(ctx context.Context, symbol string) (model.Quote, error) {
	if price, ok, err := s.store.GetManualPrice(symbol); err != nil {
		return model.Quote{}, err
	} else if ok {
		return model.Quote{Symbol: symbol, Price: price, Source: "manual", FetchedAt: time.Now().UTC()}, nil
	}

	s.mu.RLock()
	entry, ok := s.cache[symbol]
	s.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < s.ttl {
		return model.Quote{Symbol: symbol, Price: entry.price, Source: entry.source, FetchedAt: entry.fetchedAt}, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	price, err := s.source.LatestClose(fetchCtx, symbol)
	if err != nil {
		// Live source down: fall back to the last stored close
		stored, storeErr := s.store.LatestPrice(symbol)
		if storeErr != nil || stored == 0 {
			return model.Quote{}, fmt.Errorf("failed to resolve price for %s: %w", symbol, err)
		}
		return model.Quote{Symbol: symbol, Price: stored, Source: "history", FetchedAt: time.Now().UTC()}, nil
	}

	now := time.Now().UTC()
	s.mu.Lock()
	s.cache[symbol] = cacheEntry{price: price, source: "live", fetchedAt: now}
	s.mu.Unlock()

	return model.Quote{Symbol: symbol, Price: price, Source: "live", FetchedAt: now}, nil
}

// Prices resolves prices for many symbols concurrently. Symbols that cannot
// be resolved are omitted from the result rather than failing the batch.
func (s *Service) Prices(ctx context.Context, symbols []string) map[string]model.Quote {
	var mu sync.Mutex
	quotes := make(map[string]model.Quote, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.Price(gctx, symbol)
			if err != nil {
				// Partial results are more useful than none
				return nil
			}
			mu.Lock()
			quotes[symbol] = quote
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return quotes
}

// History fetches daily price points for a symbol with the fetch timeout applied.
func (s *Service) History(ctx context.Context, symbol string, startDate, endDate time.Time) ([]Indicator, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return s.source.DailyHistory(fetchCtx, symbol, startDate, endDate)
}

// Invalidate drops any cached price for a symbol, forcing the next lookup to
// consult the source. Setting a manual price calls this.
func (s *Service) Invalidate(symbol string) {
	s.mu.Lock()
	delete(s.cache, symbol)
	s.mu.Unlock()
}
