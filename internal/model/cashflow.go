package model

import "time"

// Cash flow types. The sign convention is carried by the amount, not the
// type: outflows are negative, inflows positive.
const (
	FlowStockBuy         = "stock_buy"
	FlowStockSell        = "stock_sell"
	FlowOptionPremiumIn  = "option_premium_in"
	FlowOptionPremiumOut = "option_premium_out"
	FlowOptionClose      = "option_close"
	FlowDividend         = "dividend"
	FlowInterest         = "interest"
	FlowDeposit          = "deposit"
	FlowWithdrawal       = "withdrawal"
	FlowCommission       = "commission"
)

// Statement classification buckets.
const (
	BucketOperating = "operating"
	BucketInvesting = "investing"
	BucketFinancing = "financing"
	BucketFees      = "fees"
)

// CashFlow is one row of the account cash ledger. Auto-generated rows trace
// back to their source record through RelatedTransactionID or RelatedOptionID.
type CashFlow struct {
	ID                   string    `json:"id"`
	Date                 time.Time `json:"date"`
	AccountName          string    `json:"accountName"`
	FlowType             string    `json:"flowType"`
	Amount               float64   `json:"amount"`
	Symbol               string    `json:"symbol,omitempty"`
	RelatedTransactionID string    `json:"relatedTransactionId,omitempty"`
	RelatedOptionID      string    `json:"relatedOptionId,omitempty"`
	IsRealized           bool      `json:"isRealized"`
	Description          string    `json:"description,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	AutoGenerated        bool      `json:"autoGenerated"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
}

// Bucket classifies the flow into its statement section. Option flows are
// operating activity alongside dividends and interest; only stock trades are
// investing activity.
func (c CashFlow) Bucket() string {
	switch c.FlowType {
	case FlowDividend, FlowOptionPremiumIn, FlowOptionPremiumOut, FlowOptionClose, FlowInterest:
		return BucketOperating
	case FlowStockBuy, FlowStockSell:
		return BucketInvesting
	case FlowDeposit, FlowWithdrawal:
		return BucketFinancing
	case FlowCommission:
		return BucketFees
	default:
		return BucketOperating
	}
}

// ValidFlowType reports whether t is a recognised cash flow type.
func ValidFlowType(t string) bool {
	switch t {
	case FlowStockBuy, FlowStockSell, FlowOptionPremiumIn, FlowOptionPremiumOut,
		FlowOptionClose, FlowDividend, FlowInterest, FlowDeposit, FlowWithdrawal,
		FlowCommission:
		return true
	}
	return false
}

// CashFlowStatement groups flows by bucket over a period.
type CashFlowStatement struct {
	AccountName string             `json:"accountName"`
	StartDate   string             `json:"startDate"`
	EndDate     string             `json:"endDate"`
	Operating   BucketSummary      `json:"operating"`
	Investing   BucketSummary      `json:"investing"`
	Financing   BucketSummary      `json:"financing"`
	Fees        BucketSummary      `json:"fees"`
	NetChange   float64            `json:"netChange"`
	ByType      map[string]float64 `json:"byType"`
}

// BucketSummary is one statement section: its rows and their total.
type BucketSummary struct {
	Total float64    `json:"total"`
	Flows []CashFlow `json:"flows"`
}

// MonthlyFlowSummary is one calendar month's aggregated flows.
type MonthlyFlowSummary struct {
	Month         string  `json:"month"` // YYYY-MM
	Inflow        float64 `json:"inflow"`
	Outflow       float64 `json:"outflow"`
	NetChange     float64 `json:"netChange"`
	OptionIncome  float64 `json:"optionIncome"`
	DividendTotal float64 `json:"dividendTotal"`
}

// TransactionImpact previews the cash flows a stock transaction would
// generate, without persisting anything.
type TransactionImpact struct {
	TradeFlow      CashFlow  `json:"tradeFlow"`
	CommissionFlow *CashFlow `json:"commissionFlow,omitempty"`
	NetCashChange  float64   `json:"netCashChange"`
}
