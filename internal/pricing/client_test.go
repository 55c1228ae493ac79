package pricing_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jchenq/portfolio-desk/internal/pricing"
)

func mustUnmarshalChart(t *testing.T, body string, raw *pricing.Response) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), raw); err != nil {
		t.Fatalf("Failed to unmarshal chart fixture: %v", err)
	}
}

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("Failed to parse date %q: %v", s, err)
	}
	return d
}

func chartBody(symbol string, timestamps []int64, closes []float64) string {
	ts := make([]string, len(timestamps))
	for i, t := range timestamps {
		ts[i] = fmt.Sprintf("%d", t)
	}
	cl := make([]string, len(closes))
	opens := make([]string, len(closes))
	vols := make([]string, len(closes))
	for i, c := range closes {
		cl[i] = fmt.Sprintf("%g", c)
		opens[i] = fmt.Sprintf("%g", c)
		vols[i] = "1000"
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"meta":{"currency":"USD","symbol":%q,"exchangeName":"NMS"},
		"timestamp":[%s],
		"indicators":{"quote":[{
			"open":[%s],"close":[%s],"volume":[%s],
			"high":[%s],"low":[%s]
		}]}
	}],"error":null}}`,
		symbol,
		strings.Join(ts, ","), strings.Join(opens, ","), strings.Join(cl, ","),
		strings.Join(vols, ","), strings.Join(opens, ","), strings.Join(opens, ","),
	)
}

// TestFinanceClient_ParseChart tests chart response validation.
//
// WHY: The chart API returns parallel arrays; a length mismatch means the
// response is corrupt and must be rejected rather than silently misaligning
// dates and prices.
func TestFinanceClient_ParseChart(t *testing.T) {
	client := pricing.NewFinanceClient()

	t.Run("parses a well-formed response", func(t *testing.T) {
		var raw pricing.Response
		mustUnmarshalChart(t, chartBody("NVDA", []int64{1767571200, 1767657600}, []float64{100, 102}), &raw)

		chart, err := client.ParseChart(raw)
		if err != nil {
			t.Fatalf("ParseChart() returned unexpected error: %v", err)
		}
		if chart.Symbol != "NVDA" || chart.Currency != "USD" {
			t.Errorf("meta = %s/%s, want NVDA/USD", chart.Symbol, chart.Currency)
		}
		if len(chart.Indicators) != 2 {
			t.Fatalf("Expected 2 indicators, got %d", len(chart.Indicators))
		}
		if chart.Indicators[1].PriceClose != 102 {
			t.Errorf("second close = %v, want 102", chart.Indicators[1].PriceClose)
		}

		latest, ok := chart.LatestClose()
		if !ok || latest != 102 {
			t.Errorf("LatestClose() = %v, %v, want 102, true", latest, ok)
		}
	})

	t.Run("rejects mismatched array lengths", func(t *testing.T) {
		var raw pricing.Response
		mustUnmarshalChart(t, chartBody("NVDA", []int64{1767571200, 1767657600}, []float64{100, 102}), &raw)
		raw.Chart.Result[0].Indicators.Quote[0].Close = raw.Chart.Result[0].Indicators.Quote[0].Close[:1]

		if _, err := client.ParseChart(raw); err == nil {
			t.Error("Expected error for mismatched lengths")
		}
	})

	t.Run("rejects empty response", func(t *testing.T) {
		if _, err := client.ParseChart(pricing.Response{}); err == nil {
			t.Error("Expected error for empty response")
		}
	})
}

// TestFinanceClient_LatestClose tests the quote path against a stub server.
func TestFinanceClient_LatestClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/NVDA") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, chartBody("NVDA", []int64{1767571200, 1767657600}, []float64{100, 102.5}))
	}))
	defer server.Close()

	client := pricing.NewFinanceClientWithBaseURL(server.URL)

	price, err := client.LatestClose(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("LatestClose() returned unexpected error: %v", err)
	}
	if math.Abs(price-102.5) > 1e-9 {
		t.Errorf("LatestClose() = %v, want 102.5", price)
	}
}

// TestFinanceClient_DailyHistory tests history fetching over a date range.
func TestFinanceClient_DailyHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("period1") == "" || r.URL.Query().Get("period2") == "" {
			http.Error(w, "missing period", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, chartBody("NVDA", []int64{1767571200, 1767657600, 1767744000}, []float64{100, 102, 101}))
	}))
	defer server.Close()

	client := pricing.NewFinanceClientWithBaseURL(server.URL)

	indicators, err := client.DailyHistory(context.Background(), "NVDA",
		mustParseDate(t, "2026-01-05"), mustParseDate(t, "2026-01-07"))
	if err != nil {
		t.Fatalf("DailyHistory() returned unexpected error: %v", err)
	}
	if len(indicators) != 3 {
		t.Fatalf("Expected 3 indicators, got %d", len(indicators))
	}
	if indicators[0].Volume != 1000 {
		t.Errorf("Volume = %d, want 1000", indicators[0].Volume)
	}
}

// TestFinanceClient_ServerError tests that HTTP failures surface as errors.
func TestFinanceClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := pricing.NewFinanceClientWithBaseURL(server.URL)

	if _, err := client.LatestClose(context.Background(), "NVDA"); err == nil {
		t.Error("Expected error for a 429 response")
	}
}
