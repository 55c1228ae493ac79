package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FinanceClient fetches price data from the Yahoo Finance chart API. It wraps
// an HTTP client and parses the chart response format into PriceChart values.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

// NewFinanceClientWithBaseURL creates a client pointed at an alternate
// endpoint. Tests use this with an httptest server.
func NewFinanceClientWithBaseURL(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// ParseChart converts a raw chart API response into a structured price chart.
// It validates that timestamps and close prices are present and that the
// arrays have matching lengths.
func (c *FinanceClient) ParseChart(raw Response) (PriceChart, error) {
	if len(raw.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results in chart response")
	}
	result := raw.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicator, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		indicators[i].Date = time.Unix(ts, 0).UTC()
		indicators[i].PriceOpen = result.Indicators.Quote[0].Open[i]
		indicators[i].PriceClose = result.Indicators.Quote[0].Close[i]
		indicators[i].Volume = result.Indicators.Quote[0].Volume[i]
		indicators[i].PriceHigh = result.Indicators.Quote[0].High[i]
		indicators[i].PriceLow = result.Indicators.Quote[0].Low[i]
	}

	return PriceChart{
		Currency:     result.Meta.Currency,
		Symbol:       result.Meta.Symbol,
		ExchangeName: result.Meta.ExchangeName,
		Indicators:   indicators,
	}, nil
}

// QueryRecent fetches the last 5 trading days of daily data for a symbol,
// typically to get the latest available close.
func (c *FinanceClient) QueryRecent(ctx context.Context, symbol string) (Response, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)
	result, err := c.query(ctx, url)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return result, nil
}

// QueryDateRange fetches daily data for a symbol between two dates inclusive,
// used for history backfill.
func (c *FinanceClient) QueryDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, symbol, startDate.Unix(), endDate.Unix(),
	)
	result, err := c.query(ctx, url)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return result, nil
}

// LatestClose returns the most recent close price for a symbol.
func (c *FinanceClient) LatestClose(ctx context.Context, symbol string) (float64, error) {
	raw, err := c.QueryRecent(ctx, symbol)
	if err != nil {
		return 0, err
	}
	chart, err := c.ParseChart(raw)
	if err != nil {
		return 0, err
	}
	price, ok := chart.LatestClose()
	if !ok {
		return 0, fmt.Errorf("no close prices returned for symbol %s", symbol)
	}
	return price, nil
}

// DailyHistory returns daily price points for a symbol between two dates inclusive.
func (c *FinanceClient) DailyHistory(ctx context.Context, symbol string, startDate, endDate time.Time) ([]Indicator, error) {
	raw, err := c.QueryDateRange(ctx, symbol, startDate, endDate)
	if err != nil {
		return nil, err
	}
	chart, err := c.ParseChart(raw)
	if err != nil {
		return nil, err
	}
	return chart.Indicators, nil
}

func (c *FinanceClient) query(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}

	// Browser-like User-Agent avoids API blocking
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}
