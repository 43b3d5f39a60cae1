package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"KeepItBased/internal/domain/models"
	"KeepItBased/internal/domain/repository"
	"KeepItBased/internal/indicator"
	"KeepItBased/internal/provider/kraken"
	"KeepItBased/internal/provider/yahoo"
	"KeepItBased/pkg/cache"
	"KeepItBased/pkg/logger"
)

// CryptoSource is the raw crypto market data capability.
type CryptoSource interface {
	AssetPairs(ctx context.Context) (*kraken.AssetPairsPayload, error)
	Ticker(ctx context.Context, pair string) (*kraken.TickerPayload, error)
	OHLC(ctx context.Context, pair string, interval int, since int64) (*kraken.OHLCPayload, error)
	Depth(ctx context.Context, pair string, count int) (*kraken.DepthPayload, error)
	Trades(ctx context.Context, pair string) (*kraken.TradesPayload, error)
}

// EquitySource is the raw equity market data capability.
type EquitySource interface {
	Chart(ctx context.Context, symbol, period, interval string) (*yahoo.ChartPayload, error)
	QuoteSummary(ctx context.Context, symbol string) (*yahoo.SummaryPayload, error)
}

const (
	providerKraken = "kraken"
	providerYahoo  = "yahoo"

	summaryOHLC1hLimit = 24
	summaryOHLC1dLimit = 30
	summaryBookDepth   = 5
	summaryTradeLimit  = 20
)

// Market is the normalization and aggregation engine. Every read goes
// cache-first; cache failures are logged and treated as misses so a broken
// cache degrades to pass-through, never to an outage.
type Market struct {
	crypto  CryptoSource
	equity  EquitySource
	cache   cache.Service
	metrics repository.Metrics
	log     *logger.Logger
}

// NewMarket creates the market use case. cache may be nil.
func NewMarket(crypto CryptoSource, equity EquitySource, c cache.Service, m repository.Metrics, log *logger.Logger) *Market {
	return &Market{crypto: crypto, equity: equity, cache: c, metrics: m, log: log}
}

// ListTradingPairs returns USD-quoted tradable pairs sorted by display name.
func (uc *Market) ListTradingPairs(ctx context.Context) ([]models.TradingPair, error) {
	key := CacheKey(KindPairs)
	var cached []models.TradingPair
	if uc.cacheGet(ctx, KindPairs, key, &cached) {
		return cached, nil
	}

	payload, err := uc.fetchPairs(ctx)
	if err != nil {
		return nil, err
	}
	pairs := kraken.NormalizePairs(payload)

	uc.cacheSet(ctx, key, pairs, TTLFor(KindPairs, 0))
	return pairs, nil
}

// GetTicker returns a point-in-time quote for one pair, or nil when the
// provider has no such pair.
func (uc *Market) GetTicker(ctx context.Context, pair string) (*models.TickerSnapshot, error) {
	key := CacheKey(KindTicker, pair)
	var cached models.TickerSnapshot
	if uc.cacheGet(ctx, KindTicker, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.crypto.Ticker(ctx, pair)
	uc.observeFetch(providerKraken, KindTicker, started, err)
	if err != nil {
		return nil, err
	}

	snap, err := kraken.NormalizeTicker(payload, payload.DataKey(pair))
	if err != nil {
		uc.metrics.RecordError(KindTicker)
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	snap.Symbol = pair
	snap.ObservedAt = time.Now().Unix()
	uc.metrics.RecordLastPrice(pair, snap.Price)

	uc.cacheSet(ctx, key, snap, TTLFor(KindTicker, 0))
	return snap, nil
}

// GetOHLC returns an ordered candle series for one pair. interval is in
// minutes and normalized to a supported resolution; limit > 0 keeps only the
// most recent entries.
func (uc *Market) GetOHLC(ctx context.Context, pair string, interval int, since int64, limit int) (*models.OHLCSeries, error) {
	res := repository.NormalizeResolution(interval)
	key := CacheKey(KindOHLC, pair, strconv.Itoa(int(res)), strconv.FormatInt(since, 10), strconv.Itoa(limit))
	var cached models.OHLCSeries
	if uc.cacheGet(ctx, KindOHLC, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.crypto.OHLC(ctx, pair, int(res), since)
	uc.observeFetch(providerKraken, KindOHLC, started, err)
	if err != nil {
		return nil, err
	}

	candles, err := kraken.NormalizeOHLC(payload, payload.DataKey(pair), limit)
	if err != nil {
		uc.metrics.RecordError(KindOHLC)
		return nil, err
	}

	series := &models.OHLCSeries{
		Symbol:   pair,
		Data:     candles,
		Interval: int(res),
		Count:    len(candles),
	}
	uc.cacheSet(ctx, key, series, TTLFor(KindOHLC, res))
	return series, nil
}

// GetOrderBook returns at most depth levels per side, or nil when the
// provider has no such pair.
func (uc *Market) GetOrderBook(ctx context.Context, pair string, depth int) (*models.OrderBook, error) {
	key := CacheKey(KindOrderBook, pair, strconv.Itoa(depth))
	var cached models.OrderBook
	if uc.cacheGet(ctx, KindOrderBook, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.crypto.Depth(ctx, pair, depth)
	uc.observeFetch(providerKraken, KindOrderBook, started, err)
	if err != nil {
		return nil, err
	}

	book, err := kraken.NormalizeDepth(payload, payload.DataKey(pair), depth)
	if err != nil {
		uc.metrics.RecordError(KindOrderBook)
		return nil, err
	}
	if book == nil {
		return nil, nil
	}
	book.Symbol = pair

	uc.cacheSet(ctx, key, book, TTLFor(KindOrderBook, 0))
	return book, nil
}

// GetRecentTrades returns up to limit recent public trades, or nil when the
// provider has no such pair.
func (uc *Market) GetRecentTrades(ctx context.Context, pair string, limit int) (*models.TradeList, error) {
	key := CacheKey(KindTrades, pair, strconv.Itoa(limit))
	var cached models.TradeList
	if uc.cacheGet(ctx, KindTrades, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.crypto.Trades(ctx, pair)
	uc.observeFetch(providerKraken, KindTrades, started, err)
	if err != nil {
		return nil, err
	}

	list, err := kraken.NormalizeTrades(payload, payload.DataKey(pair), limit)
	if err != nil {
		uc.metrics.RecordError(KindTrades)
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	list.Symbol = pair

	uc.cacheSet(ctx, key, list, TTLFor(KindTrades, 0))
	return list, nil
}

// GetIndicators computes the technical indicator bundle over a candle series.
// Below the minimum history floor the bundle is empty.
func (uc *Market) GetIndicators(ctx context.Context, pair string, interval, limit int) (*models.IndicatorBundle, error) {
	res := repository.NormalizeResolution(interval)
	key := CacheKey(KindIndicators, pair, strconv.Itoa(int(res)), strconv.Itoa(limit))
	var cached models.IndicatorBundle
	if uc.cacheGet(ctx, KindIndicators, key, &cached) {
		return &cached, nil
	}

	series, err := uc.GetOHLC(ctx, pair, int(res), 0, limit)
	if err != nil {
		return nil, err
	}
	bundle := indicator.ComputeBundle(series.Data, indicator.MinCryptoHistory)

	uc.cacheSet(ctx, key, bundle, TTLFor(KindIndicators, 0))
	return bundle, nil
}

// GetMarketSummary aggregates the full per-pair view. The five sub-fetches
// run concurrently and each failure degrades to its empty shape, so partial
// data always beats a failed response. Indicators come from the daily series
// only.
func (uc *Market) GetMarketSummary(ctx context.Context, pair string) (*models.MarketSummary, error) {
	key := CacheKey(KindSummary, pair)
	var cached models.MarketSummary
	if uc.cacheGet(ctx, KindSummary, key, &cached) {
		return &cached, nil
	}

	summary := &models.MarketSummary{Symbol: pair}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		snap, err := uc.GetTicker(ctx, pair)
		if err != nil {
			uc.log.Warn("summary ticker degraded", logger.String("pair", pair), logger.Error(err))
			return
		}
		summary.Ticker = snap
	}()
	go func() {
		defer wg.Done()
		series, err := uc.GetOHLC(ctx, pair, int(repository.Res1h), 0, summaryOHLC1hLimit)
		if err != nil {
			uc.log.Warn("summary hourly candles degraded", logger.String("pair", pair), logger.Error(err))
			return
		}
		summary.OHLC1h = series
	}()
	go func() {
		defer wg.Done()
		series, err := uc.GetOHLC(ctx, pair, int(repository.Res1d), 0, summaryOHLC1dLimit)
		if err != nil {
			uc.log.Warn("summary daily candles degraded", logger.String("pair", pair), logger.Error(err))
			return
		}
		summary.OHLC1d = series
	}()
	go func() {
		defer wg.Done()
		book, err := uc.GetOrderBook(ctx, pair, summaryBookDepth)
		if err != nil {
			uc.log.Warn("summary order book degraded", logger.String("pair", pair), logger.Error(err))
			return
		}
		summary.OrderBook = book
	}()
	go func() {
		defer wg.Done()
		trades, err := uc.GetRecentTrades(ctx, pair, summaryTradeLimit)
		if err != nil {
			uc.log.Warn("summary trades degraded", logger.String("pair", pair), logger.Error(err))
			return
		}
		summary.RecentTrades = trades
	}()
	wg.Wait()

	var daily []models.Candle
	if summary.OHLC1d != nil {
		daily = summary.OHLC1d.Data
	}
	summary.Indicators = indicator.ComputeBundle(daily, indicator.MinCryptoHistory)

	uc.cacheSet(ctx, key, summary, TTLFor(KindSummary, 0))
	return summary, nil
}

// GetStockQuote returns an equity quote built from the latest intraday bar,
// or nil when the symbol is unknown.
func (uc *Market) GetStockQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	key := CacheKey(KindQuote, symbol)
	var cached models.StockQuote
	if uc.cacheGet(ctx, KindQuote, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.equity.Chart(ctx, symbol, "1d", "1m")
	uc.observeFetch(providerYahoo, KindQuote, started, err)
	if err != nil {
		return nil, err
	}

	quote, err := yahoo.NormalizeQuote(payload, symbol)
	if err != nil {
		uc.metrics.RecordError(KindQuote)
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}
	quote.ObservedAt = time.Now().Unix()
	uc.metrics.RecordLastPrice(symbol, quote.Price)

	uc.cacheSet(ctx, key, quote, TTLFor(KindQuote, 0))
	return quote, nil
}

// GetStockHistory returns an equity candle series for a Yahoo period and
// interval pair.
func (uc *Market) GetStockHistory(ctx context.Context, symbol, period, interval string) (*models.StockHistory, error) {
	key := CacheKey(KindHistory, symbol, period, interval)
	var cached models.StockHistory
	if uc.cacheGet(ctx, KindHistory, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.equity.Chart(ctx, symbol, period, interval)
	uc.observeFetch(providerYahoo, KindHistory, started, err)
	if err != nil {
		return nil, err
	}

	candles, err := yahoo.NormalizeChart(payload, symbol, 0)
	if err != nil {
		uc.metrics.RecordError(KindHistory)
		return nil, err
	}

	history := &models.StockHistory{
		Symbol:   symbol,
		Data:     candles,
		Period:   period,
		Interval: interval,
		Count:    len(candles),
	}
	uc.cacheSet(ctx, key, history, historyTTL(interval))
	return history, nil
}

// GetStockInfo returns the company profile, or nil when the symbol is
// unknown.
func (uc *Market) GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error) {
	key := CacheKey(KindInfo, symbol)
	var cached models.StockInfo
	if uc.cacheGet(ctx, KindInfo, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	payload, err := uc.equity.QuoteSummary(ctx, symbol)
	uc.observeFetch(providerYahoo, KindInfo, started, err)
	if err != nil {
		return nil, err
	}

	info := yahoo.NormalizeInfo(payload, symbol)
	if info == nil {
		return nil, nil
	}

	uc.cacheSet(ctx, key, info, TTLFor(KindInfo, 0))
	return info, nil
}

// GetStockTechnical returns the per-bar indicator table over daily candles.
// Unlike the crypto bundle it has no minimum history floor; short series
// simply carry nulls.
func (uc *Market) GetStockTechnical(ctx context.Context, symbol, period string) ([]models.TechnicalPoint, error) {
	key := CacheKey(KindTechnical, symbol, period)
	var cached []models.TechnicalPoint
	if uc.cacheGet(ctx, KindTechnical, key, &cached) {
		return cached, nil
	}

	started := time.Now()
	payload, err := uc.equity.Chart(ctx, symbol, period, "1d")
	uc.observeFetch(providerYahoo, KindTechnical, started, err)
	if err != nil {
		return nil, err
	}

	candles, err := yahoo.NormalizeChart(payload, symbol, 0)
	if err != nil {
		uc.metrics.RecordError(KindTechnical)
		return nil, err
	}
	points := indicator.TechnicalSeries(candles)

	uc.cacheSet(ctx, key, points, TTLFor(KindTechnical, 0))
	return points, nil
}

// fetchPairs is the uncached pairs fetch, shared by ListTradingPairs and the
// health probe.
func (uc *Market) fetchPairs(ctx context.Context) (*kraken.AssetPairsPayload, error) {
	started := time.Now()
	payload, err := uc.crypto.AssetPairs(ctx)
	uc.observeFetch(providerKraken, KindPairs, started, err)
	if err != nil {
		return nil, fmt.Errorf("asset pairs: %w", err)
	}
	return payload, nil
}

// CheckHealth reports provider reachability and cache availability.
func (uc *Market) CheckHealth(ctx context.Context) map[string]string {
	status := map[string]string{"status": "ok"}

	if _, err := uc.fetchPairs(ctx); err != nil {
		status["status"] = "degraded"
		status["crypto_provider"] = "unreachable"
	} else {
		status["crypto_provider"] = "ok"
	}

	switch {
	case uc.cache == nil:
		status["cache"] = "disabled"
	default:
		if _, err := uc.cache.Exists(ctx, CacheKey(KindPairs)); err != nil {
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	return status
}

// cacheGet reads dest from the cache. Any error other than a miss is logged
// and treated as a miss.
func (uc *Market) cacheGet(ctx context.Context, kind, key string, dest interface{}) bool {
	if uc.cache == nil {
		return false
	}
	err := uc.cache.Get(ctx, key, dest)
	if err == nil {
		uc.metrics.RecordCacheHit(kind)
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	}
	uc.metrics.RecordCacheMiss(kind)
	return false
}

// cacheSet writes value to the cache. Failures are logged and swallowed.
func (uc *Market) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, value, ttl); err != nil {
		uc.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func (uc *Market) observeFetch(provider, kind string, started time.Time, err error) {
	uc.metrics.RecordFetch(provider, kind)
	uc.metrics.RecordFetchLatency(provider, kind, time.Since(started).Seconds())
	if err != nil {
		uc.metrics.RecordError(kind)
	}
}

// historyTTL maps a Yahoo interval string onto the candle TTL classes.
func historyTTL(interval string) time.Duration {
	switch interval {
	case "1m", "2m", "5m":
		return TTLFor(KindHistory, repository.Res5m)
	default:
		return TTLFor(KindHistory, repository.Res1d)
	}
}
