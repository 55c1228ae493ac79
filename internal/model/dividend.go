package model

import "time"

// Dividend records one dividend event for a held position.
type Dividend struct {
	ID               string     `json:"id"`
	Symbol           string     `json:"symbol"`
	AccountName      string     `json:"accountName"`
	ExDividendDate   time.Time  `json:"exDividendDate"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty"`
	DividendPerShare float64    `json:"dividendPerShare"`
	SharesHeld       int        `json:"sharesHeld"`
	TotalDividend    float64    `json:"totalDividend"`
	TaxWithheld      float64    `json:"taxWithheld"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt,omitempty"`
}

// NetAmount returns the dividend after withholding tax.
func (d Dividend) NetAmount() float64 {
	return d.TotalDividend - d.TaxWithheld
}
