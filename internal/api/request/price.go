package request

type SetManualPriceRequest struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

type StoreAPIKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

type SetProviderEnabledRequest struct {
	Enabled bool `json:"enabled"`
}
