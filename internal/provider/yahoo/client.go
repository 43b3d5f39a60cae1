package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	xhttp "KeepItBased/pkg/http"
)

// Client fetches raw payloads from the Yahoo Finance public API. Yahoo
// rejects requests without a browser-like User-Agent, so one is sent on
// every call.
type Client struct {
	chartURL   string
	summaryURL string
	userAgent  string
	http       *xhttp.Client
}

// NewClient creates a Yahoo Finance REST client.
func NewClient(chartURL, summaryURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		chartURL:   strings.TrimRight(chartURL, "/"),
		summaryURL: strings.TrimRight(summaryURL, "/"),
		userAgent:  userAgent,
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Chart fetches the candle column table for one symbol. period is a Yahoo
// range string ("1d", "6mo", "1y", ...), interval a Yahoo interval string
// ("1m", "1d", "1wk", ...).
func (c *Client) Chart(ctx context.Context, symbol, period, interval string) (*ChartPayload, error) {
	var p ChartPayload
	opts := &xhttp.RequestOptions{
		Method:  http.MethodGet,
		URL:     c.chartURL + "/" + symbol,
		Headers: map[string]string{"User-Agent": c.userAgent},
		QueryParams: map[string][]string{
			"range":    {period},
			"interval": {interval},
		},
	}
	if err := c.http.SendAndParse(ctx, opts, &p); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if p.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", symbol, p.Chart.Error.Description)
	}
	return &p, nil
}

// QuoteSummary fetches company profile and statistics modules for one symbol.
func (c *Client) QuoteSummary(ctx context.Context, symbol string) (*SummaryPayload, error) {
	var p SummaryPayload
	opts := &xhttp.RequestOptions{
		Method:  http.MethodGet,
		URL:     c.summaryURL + "/" + symbol,
		Headers: map[string]string{"User-Agent": c.userAgent},
		QueryParams: map[string][]string{
			"modules": {"assetProfile,price,summaryDetail"},
		},
	}
	if err := c.http.SendAndParse(ctx, opts, &p); err != nil {
		return nil, fmt.Errorf("yahoo summary %s: %w", symbol, err)
	}
	if p.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo summary %s: %s", symbol, p.QuoteSummary.Error.Description)
	}
	return &p, nil
}
