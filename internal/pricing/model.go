package pricing

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API: nested metadata, timestamps, and price indicator arrays.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency         string `json:"currency"`
				Symbol           string `json:"symbol"`
				ExchangeName     string `json:"exchangeName"`
				FullExchangeName string `json:"fullExchangeName"`
				LongName         string `json:"longName"`
				Shortname        string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// PriceChart is the parsed internal representation of a chart response:
// symbol metadata plus a time-series of daily price points.
type PriceChart struct {
	Currency     string      `json:"currency"`
	Symbol       string      `json:"symbol"`
	ExchangeName string      `json:"exchangeName"`
	Indicators   []Indicator `json:"indicators"`
}

// Indicator is one trading day's OHLCV data.
type Indicator struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}

// LatestClose returns the most recent close in the chart and whether the
// chart had any data at all.
func (c PriceChart) LatestClose() (float64, bool) {
	if len(c.Indicators) == 0 {
		return 0, false
	}
	return c.Indicators[len(c.Indicators)-1].PriceClose, true
}
