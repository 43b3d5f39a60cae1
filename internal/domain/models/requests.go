package models

// Requests for the market HTTP endpoints. Defined in domain for consistency
// and reuse; bound from query parameters and validated at the handler edge.

type OHLCRequest struct {
	Interval int `query:"interval" json:"interval" default:"60" validate:"gte=1,lte=1440"`
	// Since accepts unix seconds or an RFC3339 timestamp.
	Since string `query:"since" json:"since"`
	Limit int    `query:"limit" json:"limit" validate:"gte=0,lte=5000"`
}

type OrderBookRequest struct {
	Depth int `query:"depth" json:"depth" default:"10" validate:"gte=1,lte=500"`
}

type TradesRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}

type IndicatorsRequest struct {
	Interval int `query:"interval" json:"interval" default:"1440" validate:"gte=1,lte=1440"`
	Limit    int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=5000"`
}

type HistoryRequest struct {
	Period   string `query:"period" json:"period" default:"1y" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
}

type TechnicalRequest struct {
	Period string `query:"period" json:"period" default:"6mo" validate:"oneof=1mo 3mo 6mo 1y 2y"`
}

type SearchRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=2"`
}
