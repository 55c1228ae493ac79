package request

type CreateTransactionRequest struct {
	Date        string  `json:"date"`
	AccountName string  `json:"accountName"`
	Symbol      string  `json:"symbol"`
	Side        string  `json:"side"`
	Price       float64 `json:"price"`
	Shares      int     `json:"shares"`
	Commission  float64 `json:"commission"`
	Notes       string  `json:"notes,omitempty"`
}

type UpdateTransactionRequest struct {
	Date        *string  `json:"date,omitempty"`
	AccountName *string  `json:"accountName,omitempty"`
	Symbol      *string  `json:"symbol,omitempty"`
	Side        *string  `json:"side,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Shares      *int     `json:"shares,omitempty"`
	Commission  *float64 `json:"commission,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type SimulateTransactionRequest struct {
	AccountName string  `json:"accountName"`
	Symbol      string  `json:"symbol"`
	Side        string  `json:"side"`
	Shares      int     `json:"shares"`
	Price       float64 `json:"price"`
}
