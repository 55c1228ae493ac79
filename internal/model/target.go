package model

import "time"

// Position target types.
const (
	TargetTypePercent = "percent"
	TargetTypeAmount  = "amount"
	TargetTypeShares  = "shares"
)

// Rebalance plan actions. ActionNoTarget marks a held symbol with no
// configured target so it still shows up in the plan.
const (
	ActionBuy      = "buy"
	ActionSell     = "sell"
	ActionHold     = "hold"
	ActionNoTarget = "no target set"
)

// PositionTarget is a per-symbol allocation goal within an account, unique
// per (symbol, account).
type PositionTarget struct {
	ID                 string    `json:"id"`
	Symbol             string    `json:"symbol"`
	AccountName        string    `json:"accountName"`
	TargetType         string    `json:"targetType"`
	TargetPercentage   *float64  `json:"targetPercentage,omitempty"`
	TargetAmount       *float64  `json:"targetAmount,omitempty"`
	TargetShares       *int      `json:"targetShares,omitempty"`
	MaxPercentage      *float64  `json:"maxPercentage,omitempty"`
	MaxAmount          *float64  `json:"maxAmount,omitempty"`
	MaxShares          *int      `json:"maxShares,omitempty"`
	Priority           int       `json:"priority"`
	RebalanceThreshold float64   `json:"rebalanceThreshold"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// ValidTargetType reports whether t is a recognised target type.
func ValidTargetType(t string) bool {
	return t == TargetTypePercent || t == TargetTypeAmount || t == TargetTypeShares
}

// TargetValue resolves the target to a dollar amount given total capital and
// a current price for share-based targets.
func (p PositionTarget) TargetValue(totalCapital, currentPrice float64) float64 {
	switch p.TargetType {
	case TargetTypePercent:
		if p.TargetPercentage != nil {
			return totalCapital * *p.TargetPercentage / 100
		}
	case TargetTypeAmount:
		if p.TargetAmount != nil {
			return *p.TargetAmount
		}
	case TargetTypeShares:
		if p.TargetShares != nil {
			return float64(*p.TargetShares) * currentPrice
		}
	}
	return 0
}

// PositionGap compares one symbol's current allocation against its target.
type PositionGap struct {
	Symbol         string  `json:"symbol"`
	Priority       int     `json:"priority"`
	CurrentValue   float64 `json:"currentValue"`
	CurrentPercent float64 `json:"currentPercent"`
	TargetValue    float64 `json:"targetValue"`
	TargetPercent  float64 `json:"targetPercent"`
	GapValue       float64 `json:"gapValue"`
	GapPercent     float64 `json:"gapPercent"`
	Action         string  `json:"action"`
	ActionShares   int     `json:"actionShares"`
	ActionValue    float64 `json:"actionValue"`
	CurrentPrice   float64 `json:"currentPrice"`
	OverMax        bool    `json:"overMax"`
}

// RebalancePlan is the ordered set of suggested actions for an account.
type RebalancePlan struct {
	AccountName    string        `json:"accountName"`
	GeneratedAt    time.Time     `json:"generatedAt"`
	TotalValue     float64       `json:"totalValue"`
	AvailableCash  float64       `json:"availableCash"`
	Positions      []PositionGap `json:"positions"`
	TotalBuyValue  float64       `json:"totalBuyValue"`
	TotalSellValue float64       `json:"totalSellValue"`
	CashAfterPlan  float64       `json:"cashAfterPlan"`
}

// PositionLimitCheck reports whether a position breaches its configured
// maximum along any configured axis.
type PositionLimitCheck struct {
	Symbol        string   `json:"symbol"`
	AccountName   string   `json:"accountName"`
	CurrentShares int      `json:"currentShares"`
	CurrentValue  float64  `json:"currentValue"`
	CurrentPct    float64  `json:"currentPct"`
	Breaches      []string `json:"breaches"`
	WithinLimits  bool     `json:"withinLimits"`
}
