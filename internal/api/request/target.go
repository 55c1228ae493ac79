package request

type SetTargetRequest struct {
	Symbol             string   `json:"symbol"`
	AccountName        string   `json:"accountName"`
	TargetType         string   `json:"targetType"`
	TargetPercentage   *float64 `json:"targetPercentage,omitempty"`
	TargetAmount       *float64 `json:"targetAmount,omitempty"`
	TargetShares       *int     `json:"targetShares,omitempty"`
	MaxPercentage      *float64 `json:"maxPercentage,omitempty"`
	MaxAmount          *float64 `json:"maxAmount,omitempty"`
	MaxShares          *int     `json:"maxShares,omitempty"`
	Priority           int      `json:"priority,omitempty"`
	RebalanceThreshold float64  `json:"rebalanceThreshold,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}
