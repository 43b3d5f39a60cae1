package yahoo

import (
	"fmt"
	"sort"

	"KeepItBased/internal/domain/models"
)

// NormalizeChart converts a chart payload into an ordered canonical candle
// sequence. An empty result yields an empty sequence with a nil error. Rows
// whose price columns are all null (holidays, halts) are skipped, null
// volumes become 0, duplicate timestamps collapse to the latest row, and
// when limit > 0 only the most recent limit entries are kept.
func NormalizeChart(p *ChartPayload, symbol string, limit int) ([]models.Candle, error) {
	result, ok := firstResult(p)
	if !ok {
		return []models.Candle{}, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return []models.Candle{}, nil
	}

	quote := result.Indicators.Quote[0]
	for name, col := range map[string]int{
		"open":   len(quote.Open),
		"high":   len(quote.High),
		"low":    len(quote.Low),
		"close":  len(quote.Close),
		"volume": len(quote.Volume),
	} {
		if col != len(result.Timestamp) {
			return nil, fmt.Errorf("%w: %s column has %d rows, timestamps have %d",
				models.ErrMalformedPayload, name, col, len(result.Timestamp))
		}
	}

	byTime := make(map[int64]models.Candle, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil && quote.High[i] == nil && quote.Low[i] == nil && quote.Close[i] == nil {
			continue
		}
		c := models.Candle{
			Time:  ts,
			Open:  deref(quote.Open[i]),
			High:  deref(quote.High[i]),
			Low:   deref(quote.Low[i]),
			Close: deref(quote.Close[i]),
		}
		if quote.Volume[i] != nil {
			c.Volume = float64(*quote.Volume[i])
		}
		byTime[ts] = c
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

// NormalizeQuote builds a quote from the last bar of a chart payload.
// Change and change percent are derived only when the bar's open is
// positive. An empty result yields (nil, nil).
func NormalizeQuote(p *ChartPayload, symbol string) (*models.StockQuote, error) {
	candles, err := NormalizeChart(p, symbol, 0)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, nil
	}

	last := candles[len(candles)-1]
	q := &models.StockQuote{
		Symbol: symbol,
		Price:  last.Close,
		Open:   last.Open,
		High:   last.High,
		Low:    last.Low,
		Volume: int64(last.Volume),
	}
	if last.Open > 0 {
		change := last.Close - last.Open
		changePct := change / last.Open * 100
		q.Change = &change
		q.ChangePercent = &changePct
	}
	return q, nil
}

// NormalizeInfo maps a quoteSummary payload onto the company profile shape.
// Fields absent upstream stay at their zero values. An empty result yields
// nil.
func NormalizeInfo(p *SummaryPayload, symbol string) *models.StockInfo {
	if len(p.QuoteSummary.Result) == 0 {
		return nil
	}
	r := p.QuoteSummary.Result[0]

	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	return &models.StockInfo{
		Symbol:        symbol,
		CompanyName:   name,
		Sector:        r.AssetProfile.Sector,
		Industry:      r.AssetProfile.Industry,
		MarketCap:     r.SummaryDetail.MarketCap.Raw,
		PERatio:       r.SummaryDetail.TrailingPE.Raw,
		DividendYield: r.SummaryDetail.DividendYield.Raw,
		Beta:          r.SummaryDetail.Beta.Raw,
		Week52High:    r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Week52Low:     r.SummaryDetail.FiftyTwoWeekLow.Raw,
		AvgVolume:     r.SummaryDetail.AverageVolume.Raw,
		Description:   r.AssetProfile.LongBusinessSummary,
	}
}

func firstResult(p *ChartPayload) (*ChartResult, bool) {
	if len(p.Chart.Result) == 0 {
		return nil, false
	}
	r := &p.Chart.Result[0]
	if len(r.Timestamp) == 0 {
		return nil, false
	}
	return r, true
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
