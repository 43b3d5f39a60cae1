package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"KeepItBased/internal/provider/kraken"
	"KeepItBased/internal/provider/yahoo"
	"KeepItBased/internal/usecase"
	xhttp "KeepItBased/pkg/http"
	"KeepItBased/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubCrypto struct{}

func (stubCrypto) AssetPairs(ctx context.Context) (*kraken.AssetPairsPayload, error) {
	return &kraken.AssetPairsPayload{Result: map[string]kraken.PairInfo{
		"XXBTZUSD": {WSName: "XBT/USD", Base: "XXBT", Quote: "ZUSD"},
	}}, nil
}

func (stubCrypto) Ticker(ctx context.Context, pair string) (*kraken.TickerPayload, error) {
	if pair == "NOPEUSD" {
		return &kraken.TickerPayload{Result: map[string]kraken.TickerInfo{}}, nil
	}
	return &kraken.TickerPayload{Result: map[string]kraken.TickerInfo{
		"XXBTZUSD": {Close: []string{"50050.0", "0.01"}, Open: "49000.0"},
	}}, nil
}

func (stubCrypto) OHLC(ctx context.Context, pair string, interval int, since int64) (*kraken.OHLCPayload, error) {
	return &kraken.OHLCPayload{Result: map[string]json.RawMessage{
		"XXBTZUSD": json.RawMessage(`[[1700000060, "100.0", "101.0", "99.0", "100.5", "100.2", "12.5", 7]]`),
		"last":     json.RawMessage(`1700000060`),
	}}, nil
}

func (stubCrypto) Depth(ctx context.Context, pair string, count int) (*kraken.DepthPayload, error) {
	return &kraken.DepthPayload{Result: map[string]kraken.BookSides{}}, nil
}

func (stubCrypto) Trades(ctx context.Context, pair string) (*kraken.TradesPayload, error) {
	return &kraken.TradesPayload{Result: map[string]json.RawMessage{}}, nil
}

type stubEquity struct{}

func (stubEquity) Chart(ctx context.Context, symbol, period, interval string) (*yahoo.ChartPayload, error) {
	return &yahoo.ChartPayload{}, nil
}

func (stubEquity) QuoteSummary(ctx context.Context, symbol string) (*yahoo.SummaryPayload, error) {
	return &yahoo.SummaryPayload{}, nil
}

func newTestServer() *echo.Echo {
	e := echo.New()
	market := usecase.NewMarket(stubCrypto{}, stubEquity{}, nil, noopMetrics{}, logger.Nop())
	NewHandlers(
		NewCryptoHandler(logger.Nop(), market, nil),
		NewStockHandler(logger.Nop(), market),
	).RegisterRoutes(e)
	return e
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(provider, kind string) {}

func (noopMetrics) RecordCacheHit(kind string) {}

func (noopMetrics) RecordCacheMiss(kind string) {}

func (noopMetrics) RecordError(kind string) {}

func (noopMetrics) RecordLastPrice(symbol string, price float64) {}

func (noopMetrics) RecordFetchLatency(provider, kind string, s float64) {}

func doRequest(t *testing.T, e *echo.Echo, path string) *xhttp.APIResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: http status %d", path, rec.Code)
	}
	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("GET %s: decode envelope: %v", path, err)
	}
	return &resp
}

func TestHealthRoute(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/health")
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", resp.Status)
	}
}

func TestTickerRoute(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/crypto/ticker/XBTUSD")
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", resp.Status)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["price"] != 50050.0 {
		t.Fatalf("price = %v, want 50050", data["price"])
	}
	if data["symbol"] != "XBTUSD" {
		t.Fatalf("symbol = %v, want XBTUSD", data["symbol"])
	}
}

func TestTickerRouteUnknownPair(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/crypto/ticker/NOPEUSD")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("envelope status = %d, want 404", resp.Status)
	}
}

func TestOHLCRouteValidation(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/crypto/ohlc/XBTUSD?interval=9999")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestOHLCRouteSince(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/crypto/ohlc/XBTUSD?since=2023-11-14T22:13:20Z")
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", resp.Status)
	}
	resp = doRequest(t, e, "/api/crypto/ohlc/XBTUSD?since=yesterday")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestOHLCRouteDefaults(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/crypto/ohlc/XBTUSD")
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", resp.Status)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["interval"] != 60.0 {
		t.Fatalf("interval = %v, want default 60", data["interval"])
	}
	if data["count"] != 1.0 {
		t.Fatalf("count = %v, want 1", data["count"])
	}
}

func TestIntervalsRoute(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/crypto/intervals")
	list, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if len(list) != 7 {
		t.Fatalf("got %d intervals, want 7", len(list))
	}
}

func TestSearchRouteValidation(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/search?q=a")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("single character query should fail validation, got %d", resp.Status)
	}
}

func TestSearchRoute(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/search?q=apple")
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", resp.Status)
	}
	list, ok := resp.Data.([]interface{})
	if !ok || len(list) == 0 {
		t.Fatalf("expected results, got %v", resp.Data)
	}
}

func TestStockQuoteRouteUnknownSymbol(t *testing.T) {
	e := newTestServer()
	resp := doRequest(t, e, "/api/stock/NOPE/quote")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("envelope status = %d, want 404", resp.Status)
	}
}
