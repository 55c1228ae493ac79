package request

type OpenOptionRequest struct {
	AccountName     string  `json:"accountName"`
	Symbol          string  `json:"symbol"`
	OptionType      string  `json:"optionType"`
	StrikePrice     float64 `json:"strikePrice"`
	ExpirationDate  string  `json:"expirationDate"`
	PremiumPerShare float64 `json:"premiumPerShare"`
	Contracts       int     `json:"contracts"`
	OpenDate        string  `json:"openDate"`
	OpeningFee      float64 `json:"openingFee"`
	Notes           string  `json:"notes,omitempty"`
}

type CloseOptionRequest struct {
	Status     string   `json:"status"`
	CloseDate  string   `json:"closeDate"`
	ClosePrice *float64 `json:"closePricePerShare,omitempty"`
	ClosingFee float64  `json:"closingFee"`
}

type UpdateOptionRequest struct {
	AccountName     *string  `json:"accountName,omitempty"`
	Symbol          *string  `json:"symbol,omitempty"`
	OptionType      *string  `json:"optionType,omitempty"`
	StrikePrice     *float64 `json:"strikePrice,omitempty"`
	ExpirationDate  *string  `json:"expirationDate,omitempty"`
	PremiumPerShare *float64 `json:"premiumPerShare,omitempty"`
	Contracts       *int     `json:"contracts,omitempty"`
	OpenDate        *string  `json:"openDate,omitempty"`
	OpeningFee      *float64 `json:"openingFee,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}
