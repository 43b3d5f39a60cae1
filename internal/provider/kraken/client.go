package kraken

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	xhttp "KeepItBased/pkg/http"
)

// Client fetches raw payloads from the Kraken public REST API. It does no
// normalization; callers hand the payloads to the normalizers in this
// package.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// NewClient creates a Kraken REST client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// AssetPairs fetches tradable pair metadata.
func (c *Client) AssetPairs(ctx context.Context) (*AssetPairsPayload, error) {
	var p AssetPairsPayload
	if err := c.get(ctx, "/AssetPairs", nil, &p); err != nil {
		return nil, err
	}
	if err := apiError(p.Error); err != nil {
		return nil, err
	}
	return &p, nil
}

// Ticker fetches the ticker payload for one pair.
func (c *Client) Ticker(ctx context.Context, pair string) (*TickerPayload, error) {
	var p TickerPayload
	params := map[string][]string{"pair": {pair}}
	if err := c.get(ctx, "/Ticker", params, &p); err != nil {
		return nil, err
	}
	if err := apiError(p.Error); err != nil {
		return nil, err
	}
	return &p, nil
}

// OHLC fetches candle rows for one pair at the given interval in minutes.
// A since of 0 means "from the provider's default horizon".
func (c *Client) OHLC(ctx context.Context, pair string, interval int, since int64) (*OHLCPayload, error) {
	params := map[string][]string{
		"pair":     {pair},
		"interval": {strconv.Itoa(interval)},
	}
	if since > 0 {
		params["since"] = []string{strconv.FormatInt(since, 10)}
	}
	var p OHLCPayload
	if err := c.get(ctx, "/OHLC", params, &p); err != nil {
		return nil, err
	}
	if err := apiError(p.Error); err != nil {
		return nil, err
	}
	return &p, nil
}

// Depth fetches the order book for one pair with at most count levels per side.
func (c *Client) Depth(ctx context.Context, pair string, count int) (*DepthPayload, error) {
	params := map[string][]string{
		"pair":  {pair},
		"count": {strconv.Itoa(count)},
	}
	var p DepthPayload
	if err := c.get(ctx, "/Depth", params, &p); err != nil {
		return nil, err
	}
	if err := apiError(p.Error); err != nil {
		return nil, err
	}
	return &p, nil
}

// Trades fetches recent public trades for one pair.
func (c *Client) Trades(ctx context.Context, pair string) (*TradesPayload, error) {
	params := map[string][]string{"pair": {pair}}
	var p TradesPayload
	if err := c.get(ctx, "/Trades", params, &p); err != nil {
		return nil, err
	}
	if err := apiError(p.Error); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	opts := &xhttp.RequestOptions{
		Method:      http.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}
	if err := c.http.SendAndParse(ctx, opts, dest); err != nil {
		return fmt.Errorf("kraken %s: %w", path, err)
	}
	return nil
}

func apiError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("kraken api: %s", strings.Join(errs, "; "))
}
