package models

// Candle is the canonical OHLCV shape every provider is normalized into.
// Time is unix seconds and strictly increasing within a sequence.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	Trades int64   `json:"trades,omitempty"`
	VWAP   float64 `json:"vwap,omitempty"`
}

// OHLCSeries is a candle sequence together with its query metadata.
type OHLCSeries struct {
	Symbol   string   `json:"symbol"`
	Data     []Candle `json:"data"`
	Interval int      `json:"interval"`
	Count    int      `json:"count"`
}

// TickerSnapshot is a point-in-time quote. Change, ChangePercent and Spread
// are derived and omitted when the inputs to derive them are missing.
type TickerSnapshot struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	Open          float64  `json:"open"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Volume        float64  `json:"volume"`
	VWAP          float64  `json:"vwap"`
	Trades        int64    `json:"trades"`
	Bid           float64  `json:"bid"`
	Ask           float64  `json:"ask"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Spread        *float64 `json:"spread,omitempty"`
	ObservedAt    int64    `json:"observed_at"`
}

// TradingPair describes one tradable instrument. Immutable once built from
// exchange metadata.
type TradingPair struct {
	Symbol        string `json:"symbol"`
	WSName        string `json:"wsname"`
	Base          string `json:"base"`
	Quote         string `json:"quote"`
	DisplayName   string `json:"display_name"`
	PriceDecimals int    `json:"price_decimals"`
	LotDecimals   int    `json:"lot_decimals"`
}

// BookLevel is a single order book price level.
type BookLevel struct {
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// OrderBook holds asks and bids in provider order, best price first.
type OrderBook struct {
	Symbol string      `json:"symbol"`
	Asks   []BookLevel `json:"asks"`
	Bids   []BookLevel `json:"bids"`
}

// Trade is a single public trade print.
type Trade struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
	Time   float64 `json:"time"`
	Side   string  `json:"side"` // "b" = buy, "s" = sell
	Type   string  `json:"type"` // "m" = market, "l" = limit
	Misc   string  `json:"misc"`
}

// TradeList is a trade sequence with its query metadata.
type TradeList struct {
	Symbol string  `json:"symbol"`
	Trades []Trade `json:"trades"`
	Count  int     `json:"count"`
}

// MarketSummary is the aggregation facade result. Any field may carry its
// empty shape when the underlying sub-fetch failed or returned no data.
type MarketSummary struct {
	Symbol       string           `json:"symbol"`
	Ticker       *TickerSnapshot  `json:"ticker"`
	OHLC1h       *OHLCSeries      `json:"ohlc_1h"`
	OHLC1d       *OHLCSeries      `json:"ohlc_1d"`
	OrderBook    *OrderBook       `json:"order_book"`
	RecentTrades *TradeList       `json:"recent_trades"`
	Indicators   *IndicatorBundle `json:"technical_indicators"`
}

// StockQuote is the equity-side quote shape.
type StockQuote struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	Open          float64  `json:"open"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Volume        int64    `json:"volume"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	ObservedAt    int64    `json:"timestamp"`
}

// StockHistory is an equity candle series keyed by period/interval strings.
type StockHistory struct {
	Symbol   string   `json:"symbol"`
	Data     []Candle `json:"data"`
	Period   string   `json:"period"`
	Interval string   `json:"interval"`
	Count    int      `json:"count"`
}

// StockInfo carries descriptive company data. Absent upstream fields stay at
// their zero values.
type StockInfo struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"companyName"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	MarketCap     int64   `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	DividendYield float64 `json:"dividendYield"`
	Beta          float64 `json:"beta"`
	Week52High    float64 `json:"week52High"`
	Week52Low     float64 `json:"week52Low"`
	AvgVolume     int64   `json:"avgVolume"`
	Description   string  `json:"description"`
}

// SearchResult is one symbol-directory match.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Interval describes one supported candle resolution for clients.
type Interval struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}
