package model

import "time"

// ContractMultiplier is the number of shares per standard option contract.
const ContractMultiplier = 100

// Option trade types. The first word is the opening action, so "sell_put"
// means a short put.
const (
	OptionSellCall = "sell_call"
	OptionSellPut  = "sell_put"
	OptionBuyCall  = "buy_call"
	OptionBuyPut   = "buy_put"
)

// Option trade lifecycle statuses. A trade leaves "open" exactly once.
const (
	OptionStatusOpen     = "open"
	OptionStatusClosed   = "closed"
	OptionStatusAssigned = "assigned"
	OptionStatusExpired  = "expired"
)

// OptionTrade is a single option position with its full lifecycle. Close
// fields are nil while the trade is open.
type OptionTrade struct {
	ID                 string     `json:"id"`
	AccountName        string     `json:"accountName"`
	Symbol             string     `json:"symbol"`
	OptionType         string     `json:"optionType"`
	StrikePrice        float64    `json:"strikePrice"`
	ExpirationDate     time.Time  `json:"expirationDate"`
	PremiumPerShare    float64    `json:"premiumPerShare"`
	Contracts          int        `json:"contracts"`
	OpenDate           time.Time  `json:"openDate"`
	CloseDate          *time.Time `json:"closeDate,omitempty"`
	ClosePricePerShare *float64   `json:"closePricePerShare,omitempty"`
	OpeningFee         float64    `json:"openingFee"`
	ClosingFee         float64    `json:"closingFee"`
	Status             string     `json:"status"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"createdAt,omitempty"`
}

// IsShort reports whether the trade opened by selling premium.
func (o OptionTrade) IsShort() bool {
	return o.OptionType == OptionSellCall || o.OptionType == OptionSellPut
}

// IsOpen reports whether the trade has not reached a terminal status.
func (o OptionTrade) IsOpen() bool {
	return o.Status == OptionStatusOpen
}

// PremiumNotional returns the total opening premium for the position.
func (o OptionTrade) PremiumNotional() float64 {
	return o.PremiumPerShare * float64(o.Contracts) * ContractMultiplier
}

// CloseNotional returns the total closing amount. An absent close price
// (expiration, assignment) contributes zero, which is distinct from a trade
// explicitly closed at a price of zero only in intent, not in arithmetic.
func (o OptionTrade) CloseNotional() float64 {
	if o.ClosePricePerShare == nil {
		return 0
	}
	return *o.ClosePricePerShare * float64(o.Contracts) * ContractMultiplier
}

// TotalFees returns opening plus closing fees.
func (o OptionTrade) TotalFees() float64 {
	return o.OpeningFee + o.ClosingFee
}

// RealizedPnL returns the realized profit for a trade that has reached a
// terminal status. For short positions: premium received minus close cost
// minus fees. For long positions: close proceeds minus premium paid minus
// fees. Open trades report zero.
func (o OptionTrade) RealizedPnL() float64 {
	if o.IsOpen() {
		return 0
	}
	if o.IsShort() {
		return o.PremiumNotional() - o.CloseNotional() - o.TotalFees()
	}
	return o.CloseNotional() - o.PremiumNotional() - o.TotalFees()
}

// LockedCapital returns the cash-secured collateral for the trade. Only open
// short puts lock capital (strike * contracts * 100); all other combinations
// lock nothing.
func (o OptionTrade) LockedCapital() float64 {
	if o.Status == OptionStatusOpen && o.OptionType == OptionSellPut {
		return o.StrikePrice * float64(o.Contracts) * ContractMultiplier
	}
	return 0
}

// LockedShares returns the shares committed as covered-call collateral. Only
// open short calls lock shares (contracts * 100).
func (o OptionTrade) LockedShares() int {
	if o.Status == OptionStatusOpen && o.OptionType == OptionSellCall {
		return o.Contracts * ContractMultiplier
	}
	return 0
}

// DaysToExpiration returns whole days from now until expiration. Expired
// trades report negative values.
func (o OptionTrade) DaysToExpiration(now time.Time) int {
	return int(o.ExpirationDate.Sub(now).Hours() / 24)
}

// HoldingDays returns the number of days the trade was held, using the close
// date for terminal trades and now for open ones.
func (o OptionTrade) HoldingDays(now time.Time) int {
	end := now
	if o.CloseDate != nil {
		end = *o.CloseDate
	}
	days := int(end.Sub(o.OpenDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
