package models

// MACDBundle carries the MACD line, its signal line and the histogram, each
// aligned 1:1 with the input candle sequence.
type MACDBundle struct {
	Line      []*float64 `json:"macd"`
	Signal    []*float64 `json:"signal"`
	Histogram []*float64 `json:"histogram"`
}

// IndicatorBundle is the full set of chart indicators. Every sequence has
// exactly the input length; nil entries mark the warm-up period and serialize
// as JSON null. For the crypto path the whole bundle is empty (zero-length
// slices) below the minimum history floor.
type IndicatorBundle struct {
	SMA20 []*float64 `json:"sma_20"`
	SMA50 []*float64 `json:"sma_50"`
	EMA12 []*float64 `json:"ema_12"`
	EMA26 []*float64 `json:"ema_26"`
	MACD  MACDBundle `json:"macd"`
	RSI   []*float64 `json:"rsi"`
}

// Empty reports whether the bundle carries no values at all.
func (b *IndicatorBundle) Empty() bool {
	return len(b.SMA20) == 0 && len(b.SMA50) == 0 && len(b.EMA12) == 0 &&
		len(b.EMA26) == 0 && len(b.MACD.Line) == 0 && len(b.RSI) == 0
}

// TechnicalPoint is one per-candle row of the equity technical endpoint:
// the close plus every indicator value at that time, nil where warming up.
type TechnicalPoint struct {
	Time   int64    `json:"time"`
	Close  float64  `json:"close"`
	SMA20  *float64 `json:"sma20"`
	SMA50  *float64 `json:"sma50"`
	MACD   *float64 `json:"macd"`
	Signal *float64 `json:"signal"`
	RSI    *float64 `json:"rsi"`
}
