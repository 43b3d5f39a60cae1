package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"KeepItBased/internal/provider/kraken"
	"KeepItBased/internal/provider/yahoo"
	"KeepItBased/pkg/cache"
	"KeepItBased/pkg/logger"
)

type fakeCrypto struct {
	mu         sync.Mutex
	calls      map[string]int
	pairsErr   error
	tickerErr  error
	ohlcErr    error
	depthErr   error
	tradesErr  error
	ohlcRows   string
	resultPair string
}

func newFakeCrypto() *fakeCrypto {
	return &fakeCrypto{
		calls:      map[string]int{},
		resultPair: "XXBTZUSD",
		ohlcRows: `[
			[1700000120, "102.0", "103.0", "101.0", "102.5", "102.2", "9.0", 4],
			[1700000060, "100.0", "101.0", "99.0", "100.5", "100.2", "12.5", 7]
		]`,
	}
}

func (f *fakeCrypto) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeCrypto) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCrypto) AssetPairs(ctx context.Context) (*kraken.AssetPairsPayload, error) {
	f.count("pairs")
	if f.pairsErr != nil {
		return nil, f.pairsErr
	}
	return &kraken.AssetPairsPayload{Result: map[string]kraken.PairInfo{
		"XXBTZUSD": {WSName: "XBT/USD", Base: "XXBT", Quote: "ZUSD"},
		"XXBTZEUR": {WSName: "XBT/EUR", Base: "XXBT", Quote: "ZEUR"},
	}}, nil
}

func (f *fakeCrypto) Ticker(ctx context.Context, pair string) (*kraken.TickerPayload, error) {
	f.count("ticker")
	if f.tickerErr != nil {
		return nil, f.tickerErr
	}
	if f.resultPair == "" {
		return &kraken.TickerPayload{Result: map[string]kraken.TickerInfo{}}, nil
	}
	return &kraken.TickerPayload{Result: map[string]kraken.TickerInfo{
		f.resultPair: {
			Close:  []string{"50050.0", "0.01"},
			Open:   "49000.0",
			High:   []string{"50500.0", "51000.0"},
			Low:    []string{"49500.0", "49000.0"},
			Volume: []string{"100.0", "250.0"},
			VWAP:   []string{"49900.0", "49800.0"},
			Trades: []int64{1000, 2500},
			Bid:    []string{"50000.0"},
			Ask:    []string{"50100.0"},
		},
	}}, nil
}

func (f *fakeCrypto) OHLC(ctx context.Context, pair string, interval int, since int64) (*kraken.OHLCPayload, error) {
	f.count("ohlc")
	if f.ohlcErr != nil {
		return nil, f.ohlcErr
	}
	return &kraken.OHLCPayload{Result: map[string]json.RawMessage{
		f.resultPair: json.RawMessage(f.ohlcRows),
		"last":       json.RawMessage(`1700000120`),
	}}, nil
}

func (f *fakeCrypto) Depth(ctx context.Context, pair string, count int) (*kraken.DepthPayload, error) {
	f.count("depth")
	if f.depthErr != nil {
		return nil, f.depthErr
	}
	return &kraken.DepthPayload{Result: map[string]kraken.BookSides{
		f.resultPair: {
			Asks: [][]interface{}{{"50100.0", "1.5", 1700000060.0}},
			Bids: [][]interface{}{{"50000.0", "2.0", 1700000060.0}},
		},
	}}, nil
}

func (f *fakeCrypto) Trades(ctx context.Context, pair string) (*kraken.TradesPayload, error) {
	f.count("trades")
	if f.tradesErr != nil {
		return nil, f.tradesErr
	}
	return &kraken.TradesPayload{Result: map[string]json.RawMessage{
		f.resultPair: json.RawMessage(`[["50050.0", "0.25", 1700000060.1, "b", "l", ""]]`),
		"last":       json.RawMessage(`"17000000601"`),
	}}, nil
}

type fakeEquity struct {
	mu       sync.Mutex
	calls    int
	chartErr error
	empty    bool
}

func (f *fakeEquity) Chart(ctx context.Context, symbol, period, interval string) (*yahoo.ChartPayload, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	p := &yahoo.ChartPayload{}
	if f.empty {
		return p, nil
	}
	open1, open2 := 100.0, 102.0
	high1, high2 := 101.0, 104.0
	low1, low2 := 99.0, 101.0
	close1, close2 := 100.5, 103.0
	vol1, vol2 := int64(1200), int64(900)
	r := yahoo.ChartResult{Timestamp: []int64{1700000060, 1700086460}}
	r.Indicators.Quote = []yahoo.QuoteColumns{{
		Open:   []*float64{&open1, &open2},
		High:   []*float64{&high1, &high2},
		Low:    []*float64{&low1, &low2},
		Close:  []*float64{&close1, &close2},
		Volume: []*int64{&vol1, &vol2},
	}}
	p.Chart.Result = []yahoo.ChartResult{r}
	return p, nil
}

func (f *fakeEquity) QuoteSummary(ctx context.Context, symbol string) (*yahoo.SummaryPayload, error) {
	p := &yahoo.SummaryPayload{}
	r := yahoo.SummaryResult{}
	r.Price.LongName = "Apple Inc."
	r.AssetProfile.Sector = "Technology"
	p.QuoteSummary.Result = []yahoo.SummaryResult{r}
	return p, nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	hits   int
	misses int
	errs   int
}

func (m *fakeMetrics) RecordFetch(provider, kind string) {}
func (m *fakeMetrics) RecordCacheHit(kind string) {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordCacheMiss(kind string) {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errs++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {}

func (m *fakeMetrics) RecordFetchLatency(provider, kind string, secs float64) {}

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{items: map[string][]byte{}} }

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = data
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (c *mapCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return false, nil
}
func (c *mapCache) Close() error { return nil }

type brokenCache struct{}

func (brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("store unreachable")
}
func (brokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("store unreachable")
}
func (brokenCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (brokenCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return false, errors.New("store unreachable")
}
func (brokenCache) Close() error { return nil }

func newMarket(crypto *fakeCrypto, equity *fakeEquity, c cache.Service) *Market {
	return NewMarket(crypto, equity, c, &fakeMetrics{}, logger.Nop())
}

func TestGetOHLCNormalizesProviderSpelling(t *testing.T) {
	crypto := newFakeCrypto()
	uc := newMarket(crypto, &fakeEquity{}, nil)

	series, err := uc.GetOHLC(context.Background(), "XBTUSD", 60, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Symbol != "XBTUSD" {
		t.Fatalf("series should echo the requested pair, got %q", series.Symbol)
	}
	if series.Count != 2 || len(series.Data) != 2 {
		t.Fatalf("got %d candles, want 2", len(series.Data))
	}
	if series.Data[0].Time != 1700000060 {
		t.Fatalf("candles not sorted ascending")
	}
	if series.Interval != 60 {
		t.Fatalf("interval = %d, want 60", series.Interval)
	}
}

func TestGetOHLCInvalidIntervalFallsBack(t *testing.T) {
	crypto := newFakeCrypto()
	uc := newMarket(crypto, &fakeEquity{}, nil)

	series, err := uc.GetOHLC(context.Background(), "XBTUSD", 7, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Interval != 60 {
		t.Fatalf("unsupported interval should fall back to 60, got %d", series.Interval)
	}
}

func TestGetOHLCServedFromCache(t *testing.T) {
	crypto := newFakeCrypto()
	uc := newMarket(crypto, &fakeEquity{}, newMapCache())

	ctx := context.Background()
	if _, err := uc.GetOHLC(ctx, "XBTUSD", 60, 0, 0); err != nil {
		t.Fatalf("first call: %v", err)
	}
	series, err := uc.GetOHLC(ctx, "XBTUSD", 60, 0, 0)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if crypto.callCount("ohlc") != 1 {
		t.Fatalf("second call should be served from cache, provider called %d times", crypto.callCount("ohlc"))
	}
	if series.Count != 2 {
		t.Fatalf("cached series lost data: %+v", series)
	}
}

func TestBrokenCacheDegradesToFetch(t *testing.T) {
	crypto := newFakeCrypto()
	uc := newMarket(crypto, &fakeEquity{}, brokenCache{})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		series, err := uc.GetOHLC(ctx, "XBTUSD", 60, 0, 0)
		if err != nil {
			t.Fatalf("call %d: cache failure must not surface: %v", i, err)
		}
		if series.Count != 2 {
			t.Fatalf("call %d: unexpected series %+v", i, series)
		}
	}
	if crypto.callCount("ohlc") != 2 {
		t.Fatalf("broken cache should force a fetch per call, got %d", crypto.callCount("ohlc"))
	}
}

func TestGetTickerStampsObservation(t *testing.T) {
	crypto := newFakeCrypto()
	uc := newMarket(crypto, &fakeEquity{}, nil)

	snap, err := uc.GetTicker(context.Background(), "XBTUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Symbol != "XBTUSD" {
		t.Fatalf("snapshot should echo the requested pair, got %q", snap.Symbol)
	}
	if snap.Price != 50050.0 {
		t.Fatalf("price = %v, want 50050", snap.Price)
	}
	if snap.ObservedAt == 0 {
		t.Fatal("observation timestamp not stamped")
	}
}

func TestGetTickerUnknownPair(t *testing.T) {
	crypto := newFakeCrypto()
	crypto.resultPair = ""
	uc := newMarket(crypto, &fakeEquity{}, nil)

	snap, err := uc.GetTicker(context.Background(), "NOPEUSD")
	if err != nil {
		t.Fatalf("unknown pair should not error: %v", err)
	}
	if snap != nil {
		t.Fatalf("unknown pair should yield nil, got %+v", snap)
	}
}

func TestListTradingPairsFiltersQuote(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)

	pairs, err := uc.ListTradingPairs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1 (EUR quote filtered)", len(pairs))
	}
	if pairs[0].Symbol != "XXBTZUSD" {
		t.Fatalf("unexpected pair %+v", pairs[0])
	}
}

func TestGetIndicatorsBelowFloor(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)

	bundle, err := uc.GetIndicators(context.Background(), "XBTUSD", 1440, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bundle.Empty() {
		t.Fatalf("two candles are below the history floor, bundle should be empty: %+v", bundle)
	}
	if bundle.SMA20 == nil || bundle.RSI == nil {
		t.Fatal("empty bundle should carry zero-length slices, not nils")
	}
}

func TestGetMarketSummaryPartialFailure(t *testing.T) {
	crypto := newFakeCrypto()
	crypto.tickerErr = errors.New("upstream timeout")
	crypto.depthErr = errors.New("upstream timeout")
	uc := newMarket(crypto, &fakeEquity{}, nil)

	summary, err := uc.GetMarketSummary(context.Background(), "XBTUSD")
	if err != nil {
		t.Fatalf("partial failure must not fail the summary: %v", err)
	}
	if summary.Ticker != nil || summary.OrderBook != nil {
		t.Fatalf("failed sub-fetches should stay empty: %+v", summary)
	}
	if summary.OHLC1h == nil || summary.OHLC1h.Count != 2 {
		t.Fatalf("surviving sub-fetches should carry data: %+v", summary.OHLC1h)
	}
	if summary.RecentTrades == nil || summary.RecentTrades.Count != 1 {
		t.Fatalf("trades should survive: %+v", summary.RecentTrades)
	}
	if summary.Indicators == nil {
		t.Fatal("indicator bundle must always be present")
	}
}

func TestGetMarketSummaryIndicatorsFromDaily(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)

	summary, err := uc.GetMarketSummary(context.Background(), "XBTUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Indicators == nil || !summary.Indicators.Empty() {
		t.Fatalf("two daily candles are below the floor, bundle should be empty")
	}
}

func TestGetStockQuoteFromLastBar(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)

	quote, err := uc.GetStockQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 103.0 || quote.Open != 102.0 {
		t.Fatalf("quote should come from the last bar: %+v", quote)
	}
	if quote.ObservedAt == 0 {
		t.Fatal("observation timestamp not stamped")
	}
}

func TestGetStockQuoteUnknownSymbol(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{empty: true}, nil)

	quote, err := uc.GetStockQuote(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("unknown symbol should not error: %v", err)
	}
	if quote != nil {
		t.Fatalf("unknown symbol should yield nil, got %+v", quote)
	}
}

func TestGetStockHistory(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)

	history, err := uc.GetStockHistory(context.Background(), "AAPL", "1y", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.Count != 2 || history.Period != "1y" || history.Interval != "1d" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestGetStockTechnicalNoFloor(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)

	points, err := uc.GetStockTechnical(context.Background(), "AAPL", "6mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("technical rows should align with candles even below any floor, got %d", len(points))
	}
	if points[0].SMA20 != nil {
		t.Fatal("warm-up positions should be nil")
	}
	if points[0].Close != 100.5 {
		t.Fatalf("unexpected first close: %v", points[0].Close)
	}
}

func TestSearch(t *testing.T) {
	uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)
	ctx := context.Background()

	results := uc.Search(ctx, "aa")
	if len(results) == 0 || results[0].Symbol != "AAPL" {
		t.Fatalf("symbol prefix match should rank first, got %+v", results)
	}

	results = uc.Search(ctx, "inc")
	if len(results) > maxSearchResults {
		t.Fatalf("results should be capped at %d, got %d", maxSearchResults, len(results))
	}
	if len(results) == 0 {
		t.Fatal("name substring match should produce results")
	}

	if got := uc.Search(ctx, "  "); len(got) != 0 {
		t.Fatalf("blank query should yield no results, got %+v", got)
	}
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy without cache", func(t *testing.T) {
		uc := newMarket(newFakeCrypto(), &fakeEquity{}, nil)
		status := uc.CheckHealth(context.Background())
		if status["status"] != "ok" || status["crypto_provider"] != "ok" || status["cache"] != "disabled" {
			t.Fatalf("unexpected status %v", status)
		}
	})

	t.Run("provider unreachable", func(t *testing.T) {
		crypto := newFakeCrypto()
		crypto.pairsErr = errors.New("connection refused")
		uc := newMarket(crypto, &fakeEquity{}, newMapCache())
		status := uc.CheckHealth(context.Background())
		if status["status"] != "degraded" || status["crypto_provider"] != "unreachable" {
			t.Fatalf("unexpected status %v", status)
		}
		if status["cache"] != "ok" {
			t.Fatalf("cache should report ok, got %v", status)
		}
	})

	t.Run("broken cache", func(t *testing.T) {
		uc := newMarket(newFakeCrypto(), &fakeEquity{}, brokenCache{})
		status := uc.CheckHealth(context.Background())
		if status["cache"] != "unavailable" {
			t.Fatalf("unexpected status %v", status)
		}
	})
}
