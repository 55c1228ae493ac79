package request

type CreateCashFlowRequest struct {
	Date        string  `json:"date"`
	AccountName string  `json:"accountName"`
	FlowType    string  `json:"flowType"`
	Amount      float64 `json:"amount"`
	Symbol      string  `json:"symbol,omitempty"`
	Description string  `json:"description,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type UpdateCashFlowRequest struct {
	Date        *string  `json:"date,omitempty"`
	AccountName *string  `json:"accountName,omitempty"`
	FlowType    *string  `json:"flowType,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Symbol      *string  `json:"symbol,omitempty"`
	Description *string  `json:"description,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}
