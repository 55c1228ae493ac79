package model

import "time"

// PricePoint is one daily close for a held symbol.
type PricePoint struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	PriceDate   time.Time `json:"priceDate"`
	ClosePrice  float64   `json:"closePrice"`
	DailyReturn *float64  `json:"dailyReturn,omitempty"`
	Volume      *int64    `json:"volume,omitempty"`
}

// BenchmarkPrice is one daily close for a benchmark index.
type BenchmarkPrice struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	PriceDate   time.Time `json:"priceDate"`
	ClosePrice  float64   `json:"closePrice"`
	DailyReturn *float64  `json:"dailyReturn,omitempty"`
}

// Quote is a live price result from a pricing source.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// PriceSourceSetting holds a provider's configuration. The API key is stored
// encrypted and never leaves the server in plaintext.
type PriceSourceSetting struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	HasAPIKey bool      `json:"hasApiKey"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
