package model

import "time"

// StockSummary is the derived per-symbol position state for an account,
// folded from the transaction ledger. LockedShares counts shares committed
// as covered-call collateral; AvailableShares may go negative when calls
// are written against more shares than the account holds.
type StockSummary struct {
	Symbol          string  `json:"symbol"`
	AccountName     string  `json:"accountName"`
	NetShares       int     `json:"netShares"`
	LockedShares    int     `json:"lockedShares"`
	AvailableShares int     `json:"availableShares"`
	NetCashChange   float64 `json:"netCashChange"`
	AvgCost         float64 `json:"avgCost"`
	Invested        float64 `json:"invested"`
	CurrentPrice    float64 `json:"currentPrice,omitempty"`
	MarketValue     float64 `json:"marketValue,omitempty"`
	UnrealizedPnL   float64 `json:"unrealizedPnl,omitempty"`
	BuyCount        int     `json:"buyCount"`
	SellCount       int     `json:"sellCount"`
	FirstTrade      string  `json:"firstTrade,omitempty"`
	LastTrade       string  `json:"lastTrade,omitempty"`
}

// OptionSummary aggregates option activity for an account.
type OptionSummary struct {
	AccountName      string  `json:"accountName"`
	OpenCount        int     `json:"openCount"`
	ClosedCount      int     `json:"closedCount"`
	TotalPremiumIn   float64 `json:"totalPremiumIn"`
	TotalPremiumOut  float64 `json:"totalPremiumOut"`
	RealizedPnL      float64 `json:"realizedPnl"`
	TotalFees        float64 `json:"totalFees"`
	LockedCapital    float64 `json:"lockedCapital"`
	WinCount         int     `json:"winCount"`
	LossCount        int     `json:"lossCount"`
	WinRate          float64 `json:"winRate"`
	AvgHoldingDays   float64 `json:"avgHoldingDays"`
	AnnualizedReturn float64 `json:"annualizedReturn,omitempty"`
}

// AccountOverview is the full derived valuation of one account.
// ExternalNetFlow is the sum of deposit, withdrawal, and interest flows
// only; it is the capital-adjustment term of the P&L, distinct from
// NetCashFlow which sums every ledger entry.
type AccountOverview struct {
	AccountName        string         `json:"accountName"`
	TotalCapital       float64        `json:"totalCapital"`
	CashReserve        float64        `json:"cashReserve"`
	ConditionalReserve float64        `json:"conditionalReserve"`
	StockInvested      float64        `json:"stockInvested"`
	StockMarketValue   float64        `json:"stockMarketValue"`
	LockedCash         float64        `json:"lockedCash"`
	AvailableCash      float64        `json:"availableCash"`
	NetCashFlow        float64        `json:"netCashFlow"`
	ExternalNetFlow    float64        `json:"externalNetFlow"`
	CurrentTotalAssets float64        `json:"currentTotalAssets"`
	TotalPnL           float64        `json:"totalPnl"`
	PnLRatio           float64        `json:"pnlRatio"`
	OptionPremiumNet   float64        `json:"optionPremiumNet"`
	DividendIncome     float64        `json:"dividendIncome"`
	PositionCount      int            `json:"positionCount"`
	UtilizationPct     float64        `json:"utilizationPct"`
	Positions          []StockSummary `json:"positions"`
}

// PortfolioWeight is one symbol's share of portfolio market value.
type PortfolioWeight struct {
	Symbol      string  `json:"symbol"`
	MarketValue float64 `json:"marketValue"`
	Weight      float64 `json:"weight"`
}

// SimulationResult previews account state after a hypothetical trade,
// without persisting anything.
type SimulationResult struct {
	AccountName       string   `json:"accountName"`
	Symbol            string   `json:"symbol"`
	Side              string   `json:"side"`
	Shares            int      `json:"shares"`
	Price             float64  `json:"price"`
	CashBefore        float64  `json:"cashBefore"`
	CashAfter         float64  `json:"cashAfter"`
	SharesBefore      int      `json:"sharesBefore"`
	SharesAfter       int      `json:"sharesAfter"`
	AvgCostBefore     float64  `json:"avgCostBefore"`
	AvgCostAfter      float64  `json:"avgCostAfter"`
	PositionPctBefore float64  `json:"positionPctBefore"`
	PositionPctAfter  float64  `json:"positionPctAfter"`
	Feasible          bool     `json:"feasible"`
	Warnings          []string `json:"warnings,omitempty"`
}

// MonthlyReport is the aggregated activity report for one calendar month.
type MonthlyReport struct {
	AccountName     string               `json:"accountName"`
	Month           string               `json:"month"` // YYYY-MM
	GeneratedAt     time.Time            `json:"generatedAt"`
	Transactions    int                  `json:"transactions"`
	OptionsOpened   int                  `json:"optionsOpened"`
	OptionsClosed   int                  `json:"optionsClosed"`
	RealizedOption  float64              `json:"realizedOptionPnl"`
	DividendIncome  float64              `json:"dividendIncome"`
	NetCashChange   float64              `json:"netCashChange"`
	FlowsByType     map[string]float64   `json:"flowsByType"`
	MonthlyFlows    []MonthlyFlowSummary `json:"monthlyFlows,omitempty"`
}
