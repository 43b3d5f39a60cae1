package kraken

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"KeepItBased/internal/domain/models"
)

// NormalizeOHLC converts a raw OHLC payload into an ordered canonical candle
// sequence. A missing pair yields an empty sequence with a nil error ("no
// data", not a failure). Rows are sorted ascending by time, duplicate
// timestamps collapse to the latest row seen, and when limit > 0 only the
// most recent limit entries are kept.
func NormalizeOHLC(p *OHLCPayload, pair string, limit int) ([]models.Candle, error) {
	raw, ok := p.Result[pair]
	if !ok {
		return []models.Candle{}, nil
	}

	var rows [][]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: ohlc rows for %s: %v", models.ErrMalformedPayload, pair, err)
	}

	byTime := make(map[int64]models.Candle, len(rows))
	for _, row := range rows {
		if len(row) < 8 {
			return nil, fmt.Errorf("%w: ohlc row has %d fields, want 8", models.ErrMalformedPayload, len(row))
		}
		ts, err := asInt(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: candle time: %v", models.ErrMalformedPayload, err)
		}
		c := models.Candle{Time: ts}
		for i, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.VWAP, &c.Volume} {
			v, err := asFloat(row[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: candle field %d: %v", models.ErrMalformedPayload, i+1, err)
			}
			*dst = v
		}
		trades, err := asInt(row[7])
		if err != nil {
			return nil, fmt.Errorf("%w: candle trade count: %v", models.ErrMalformedPayload, err)
		}
		c.Trades = trades
		byTime[ts] = c // later rows win on duplicate timestamps
	}

	candles := make([]models.Candle, 0, len(byTime))
	for _, c := range byTime {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// NormalizeTicker converts a raw ticker payload into a snapshot. A missing
// pair yields (nil, nil). Change and change percent are derived only when the
// opening price is positive; spread only when both bid and ask are present.
func NormalizeTicker(p *TickerPayload, pair string) (*models.TickerSnapshot, error) {
	info, ok := p.Result[pair]
	if !ok {
		return nil, nil
	}

	t := &models.TickerSnapshot{Symbol: pair}

	price, err := firstFloat(info.Close, "last trade price")
	if err != nil {
		return nil, err
	}
	t.Price = price

	if info.Open != "" {
		open, err := strconv.ParseFloat(info.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: open: %v", models.ErrMalformedPayload, err)
		}
		t.Open = open
	}

	for _, f := range []struct {
		src  []string
		dst  *float64
		name string
	}{
		{info.High, &t.High, "high"},
		{info.Low, &t.Low, "low"},
		{info.Volume, &t.Volume, "volume"},
		{info.VWAP, &t.VWAP, "vwap"},
	} {
		if len(f.src) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(f.src[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedPayload, f.name, err)
		}
		*f.dst = v
	}

	if len(info.Trades) >= 2 {
		t.Trades = info.Trades[1]
	}

	haveBid, haveAsk := len(info.Bid) > 0, len(info.Ask) > 0
	if haveBid {
		bid, err := strconv.ParseFloat(info.Bid[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bid: %v", models.ErrMalformedPayload, err)
		}
		t.Bid = bid
	}
	if haveAsk {
		ask, err := strconv.ParseFloat(info.Ask[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ask: %v", models.ErrMalformedPayload, err)
		}
		t.Ask = ask
	}

	if t.Open > 0 {
		change := t.Price - t.Open
		changePct := change / t.Open * 100
		t.Change = &change
		t.ChangePercent = &changePct
		if haveBid && haveAsk {
			spread := t.Ask - t.Bid
			t.Spread = &spread
		}
	}

	return t, nil
}

// NormalizePairs filters a raw asset-pairs payload down to USD-quoted pairs
// and sorts them by display name ascending.
func NormalizePairs(p *AssetPairsPayload) []models.TradingPair {
	pairs := make([]models.TradingPair, 0, len(p.Result))
	for name, info := range p.Result {
		if info.Quote != "USD" && info.Quote != "ZUSD" {
			continue
		}
		wsname := info.WSName
		if wsname == "" {
			wsname = name
		}
		pairs = append(pairs, models.TradingPair{
			Symbol:        name,
			WSName:        wsname,
			Base:          info.Base,
			Quote:         info.Quote,
			DisplayName:   info.Base + "/" + info.Quote,
			PriceDecimals: info.PairDecimals,
			LotDecimals:   info.LotDecimals,
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].DisplayName < pairs[j].DisplayName })
	return pairs
}

// NormalizeDepth converts a raw depth payload into an order book with at most
// depth levels per side, preserving provider ordering (best price first).
// A missing pair yields (nil, nil).
func NormalizeDepth(p *DepthPayload, pair string, depth int) (*models.OrderBook, error) {
	sides, ok := p.Result[pair]
	if !ok {
		return nil, nil
	}

	asks, err := normalizeLevels(sides.Asks, depth)
	if err != nil {
		return nil, fmt.Errorf("%w: asks: %v", models.ErrMalformedPayload, err)
	}
	bids, err := normalizeLevels(sides.Bids, depth)
	if err != nil {
		return nil, fmt.Errorf("%w: bids: %v", models.ErrMalformedPayload, err)
	}

	return &models.OrderBook{Symbol: pair, Asks: asks, Bids: bids}, nil
}

// NormalizeTrades converts a raw trades payload, keeping the first limit rows
// in provider order. A missing pair yields (nil, nil).
func NormalizeTrades(p *TradesPayload, pair string, limit int) (*models.TradeList, error) {
	raw, ok := p.Result[pair]
	if !ok {
		return nil, nil
	}

	var rows [][]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: trade rows for %s: %v", models.ErrMalformedPayload, pair, err)
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	trades := make([]models.Trade, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("%w: trade row has %d fields, want 6", models.ErrMalformedPayload, len(row))
		}
		price, err := asFloat(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: trade price: %v", models.ErrMalformedPayload, err)
		}
		volume, err := asFloat(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: trade volume: %v", models.ErrMalformedPayload, err)
		}
		ts, err := asFloat(row[2])
		if err != nil {
			return nil, fmt.Errorf("%w: trade time: %v", models.ErrMalformedPayload, err)
		}
		trades = append(trades, models.Trade{
			Price:  price,
			Volume: volume,
			Time:   ts,
			Side:   asString(row[3]),
			Type:   asString(row[4]),
			Misc:   asString(row[5]),
		})
	}

	return &models.TradeList{Symbol: pair, Trades: trades, Count: len(trades)}, nil
}

func normalizeLevels(rows [][]interface{}, depth int) ([]models.BookLevel, error) {
	if depth > 0 && len(rows) > depth {
		rows = rows[:depth]
	}
	levels := make([]models.BookLevel, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("level has %d fields, want 3", len(row))
		}
		price, err := asFloat(row[0])
		if err != nil {
			return nil, fmt.Errorf("price: %v", err)
		}
		volume, err := asFloat(row[1])
		if err != nil {
			return nil, fmt.Errorf("volume: %v", err)
		}
		ts, err := asInt(row[2])
		if err != nil {
			return nil, fmt.Errorf("timestamp: %v", err)
		}
		levels = append(levels, models.BookLevel{Price: price, Volume: volume, Timestamp: ts})
	}
	return levels, nil
}

func firstFloat(src []string, name string) (float64, error) {
	if len(src) == 0 {
		return 0, fmt.Errorf("%w: %s missing", models.ErrMalformedPayload, name)
	}
	v, err := strconv.ParseFloat(src[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", models.ErrMalformedPayload, name, err)
	}
	return v, nil
}

// asFloat parses a positional row cell that may arrive as a JSON string or
// number.
func asFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func asInt(v interface{}) (int64, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
