package kraken

import "encoding/json"

// Raw Kraken public API payload shapes. Every response nests its data under
// "result", keyed by Kraken's own pair spelling (e.g. "XXBTZUSD"), which may
// differ from what the caller asked for. The normalizers in this package are
// the only place these quirks are resolved.

// OHLCPayload is the /0/public/OHLC response. Result values are positional
// candle rows [time, open, high, low, close, vwap, volume, count] with
// string-typed decimals; the "last" cursor shares the same map.
type OHLCPayload struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// TickerPayload is the /0/public/Ticker response.
type TickerPayload struct {
	Error  []string              `json:"error"`
	Result map[string]TickerInfo `json:"result"`
}

// TickerInfo is one pair's ticker entry. Array slots follow Kraken's
// convention: index 0 is "today", index 1 is "last 24 hours" for h/l/v/p/t;
// a/b/c are [price, ...] tuples.
type TickerInfo struct {
	Ask    []string `json:"a"`
	Bid    []string `json:"b"`
	Close  []string `json:"c"`
	Volume []string `json:"v"`
	VWAP   []string `json:"p"`
	Trades []int64  `json:"t"`
	Low    []string `json:"l"`
	High   []string `json:"h"`
	Open   string   `json:"o"`
}

// AssetPairsPayload is the /0/public/AssetPairs response.
type AssetPairsPayload struct {
	Error  []string            `json:"error"`
	Result map[string]PairInfo `json:"result"`
}

// PairInfo is one tradable pair's metadata.
type PairInfo struct {
	WSName       string `json:"wsname"`
	Base         string `json:"base"`
	Quote        string `json:"quote"`
	PairDecimals int    `json:"pair_decimals"`
	LotDecimals  int    `json:"lot_decimals"`
}

// DepthPayload is the /0/public/Depth response. Levels are positional
// [price, volume, timestamp] rows, best price first.
type DepthPayload struct {
	Error  []string             `json:"error"`
	Result map[string]BookSides `json:"result"`
}

// BookSides holds both sides of the order book in provider order.
type BookSides struct {
	Asks [][]interface{} `json:"asks"`
	Bids [][]interface{} `json:"bids"`
}

// TradesPayload is the /0/public/Trades response. Rows are positional
// [price, volume, time, side, type, misc]; the "last" cursor shares the map.
type TradesPayload struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// DataKey returns the result key holding the requested pair's data. Kraken
// files single-pair answers under its own spelling ("XXBTZUSD" for
// "XBTUSD"), so when the exact key is absent the sole data entry is taken.
func (p *OHLCPayload) DataKey(pair string) string {
	if _, ok := p.Result[pair]; ok {
		return pair
	}
	return soleKey(p.Result, pair)
}

// DataKey resolves the provider spelling for the requested pair.
func (p *TickerPayload) DataKey(pair string) string {
	if _, ok := p.Result[pair]; ok {
		return pair
	}
	for k := range p.Result {
		return k
	}
	return pair
}

// DataKey resolves the provider spelling for the requested pair.
func (p *DepthPayload) DataKey(pair string) string {
	if _, ok := p.Result[pair]; ok {
		return pair
	}
	for k := range p.Result {
		return k
	}
	return pair
}

// DataKey resolves the provider spelling for the requested pair.
func (p *TradesPayload) DataKey(pair string) string {
	if _, ok := p.Result[pair]; ok {
		return pair
	}
	return soleKey(p.Result, pair)
}

func soleKey(m map[string]json.RawMessage, fallback string) string {
	for k := range m {
		if k != "last" {
			return k
		}
	}
	return fallback
}
