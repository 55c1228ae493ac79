package model

import "time"

// Transaction sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Transaction is a single stock trade in the append-only ledger.
type Transaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	AccountName string    `json:"accountName"`
	Symbol      string    `json:"symbol"`
	Side        string    `json:"side"`
	Price       float64   `json:"price"`
	Shares      int       `json:"shares"`
	Commission  float64   `json:"commission"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// SignedShares returns shares with a sign: positive for buys, negative for sells.
func (t Transaction) SignedShares() int {
	if t.Side == SideSell {
		return -t.Shares
	}
	return t.Shares
}

// GrossAmount returns price * shares without commission.
func (t Transaction) GrossAmount() float64 {
	return t.Price * float64(t.Shares)
}

// CashImpact returns the signed cash effect of the trade excluding commission:
// negative for buys (cash out), positive for sells (cash in). Commission is
// always a separate negative flow.
func (t Transaction) CashImpact() float64 {
	if t.Side == SideSell {
		return t.GrossAmount()
	}
	return -t.GrossAmount()
}
