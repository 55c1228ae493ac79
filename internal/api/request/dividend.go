package request

type CreateDividendRequest struct {
	Symbol           string  `json:"symbol"`
	AccountName      string  `json:"accountName"`
	ExDividendDate   string  `json:"exDividendDate"`
	PaymentDate      string  `json:"paymentDate,omitempty"`
	DividendPerShare float64 `json:"dividendPerShare"`
	SharesHeld       int     `json:"sharesHeld"`
	TaxWithheld      float64 `json:"taxWithheld"`
	Notes            string  `json:"notes,omitempty"`
}
