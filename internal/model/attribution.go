package model

import "time"

// SymbolAttribution is one symbol's contribution line in the breakdown.
type SymbolAttribution struct {
	Symbol          string  `json:"symbol"`
	Weight          float64 `json:"weight"`
	Return          float64 `json:"return"`
	Beta            float64 `json:"beta"`
	ExpectedReturn  float64 `json:"expectedReturn"`
	SelectionAlpha  float64 `json:"selectionAlpha"`
	Contribution    float64 `json:"contribution"`
	Observations    int     `json:"observations"`
}

// AttributionResult decomposes an account's excess return over a benchmark
// into beta contribution plus alpha components. The alpha components sum to
// TotalAlpha, and BetaContribution + TotalAlpha = ExcessReturn.
type AttributionResult struct {
	AccountName      string              `json:"accountName"`
	StartDate        string              `json:"startDate"`
	EndDate          string              `json:"endDate"`
	BenchmarkSymbol  string              `json:"benchmarkSymbol"`
	TotalReturn      float64             `json:"totalReturn"`
	BenchmarkReturn  float64             `json:"benchmarkReturn"`
	ExcessReturn     float64             `json:"excessReturn"`
	PortfolioBeta    float64             `json:"portfolioBeta"`
	BetaContribution float64             `json:"betaContribution"`
	TotalAlpha       float64             `json:"totalAlpha"`
	SelectionAlpha   float64             `json:"selectionAlpha"`
	TimingAlpha      float64             `json:"timingAlpha"`
	StrategyAlpha    float64             `json:"strategyAlpha"`
	AllocationAlpha  float64             `json:"allocationAlpha"`
	Breakdown        []SymbolAttribution `json:"breakdown"`
	CalculatedAt     time.Time           `json:"calculatedAt"`
}
