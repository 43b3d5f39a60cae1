package usecase

import (
	"strings"
	"time"

	"KeepItBased/internal/domain/repository"
)

// Cache entry kinds. They are the first segment of every cache key and the
// label on cache hit/miss metrics.
const (
	KindPairs      = "pairs"
	KindTicker     = "ticker"
	KindOHLC       = "ohlc"
	KindOrderBook  = "orderbook"
	KindTrades     = "trades"
	KindIndicators = "indicators"
	KindSummary    = "summary"
	KindQuote      = "quote"
	KindHistory    = "history"
	KindInfo       = "info"
	KindTechnical  = "technical"
	KindSearch     = "search"
)

// TTL classes. Fast-moving snapshots live for a minute, candle series for
// five, and near-static metadata for an hour.
const (
	ttlShort  = 60 * time.Second
	ttlMedium = 300 * time.Second
	ttlLong   = 3600 * time.Second
)

// CacheKey builds a deterministic cache key: kind and parts joined by ':'.
// Identical inputs always produce identical keys.
func CacheKey(kind string, parts ...string) string {
	if len(parts) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(parts, ":")
}

// TTLFor returns the expiration class for a cache entry kind. Candle series
// use the short class at intraday resolutions since fresh bars appear within
// the window.
func TTLFor(kind string, res repository.Resolution) time.Duration {
	switch kind {
	case KindOHLC, KindHistory:
		if res.Intraday() {
			return ttlShort
		}
		return ttlMedium
	case KindPairs, KindInfo, KindSearch:
		return ttlLong
	default:
		return ttlShort
	}
}
