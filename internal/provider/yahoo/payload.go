package yahoo

// Raw Yahoo Finance payload shapes. The chart API returns a row-indexed
// column table: one timestamp array plus parallel quote columns whose
// entries are null for sessions without prints (holidays, halts). The
// quoteSummary API wraps every numeric in a {raw, fmt} object.

// ChartPayload is the /v8/finance/chart response.
type ChartPayload struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

// ChartResult is one symbol's column table.
type ChartResult struct {
	Meta       ChartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []QuoteColumns `json:"quote"`
	} `json:"indicators"`
}

// ChartMeta carries series metadata.
type ChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// QuoteColumns are the nullable price columns, parallel to Timestamp.
type QuoteColumns struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// APIError is Yahoo's error envelope.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SummaryPayload is the /v10/finance/quoteSummary response.
type SummaryPayload struct {
	QuoteSummary struct {
		Result []SummaryResult `json:"result"`
		Error  *APIError       `json:"error"`
	} `json:"quoteSummary"`
}

// SummaryResult is one symbol's profile and statistics modules.
type SummaryResult struct {
	AssetProfile struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"assetProfile"`
	Price struct {
		LongName  string `json:"longName"`
		ShortName string `json:"shortName"`
	} `json:"price"`
	SummaryDetail struct {
		MarketCap        FmtInt   `json:"marketCap"`
		TrailingPE       FmtFloat `json:"trailingPE"`
		DividendYield    FmtFloat `json:"dividendYield"`
		Beta             FmtFloat `json:"beta"`
		FiftyTwoWeekHigh FmtFloat `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  FmtFloat `json:"fiftyTwoWeekLow"`
		AverageVolume    FmtInt   `json:"averageVolume"`
	} `json:"summaryDetail"`
}

// FmtFloat unwraps Yahoo's {raw, fmt} numeric object.
type FmtFloat struct {
	Raw float64 `json:"raw"`
}

// FmtInt unwraps Yahoo's {raw, fmt} integer object.
type FmtInt struct {
	Raw int64 `json:"raw"`
}
