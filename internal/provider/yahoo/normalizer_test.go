package yahoo

import (
	"errors"
	"testing"

	"KeepItBased/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

func chartPayload(timestamps []int64, quote QuoteColumns) *ChartPayload {
	p := &ChartPayload{}
	p.Chart.Result = []ChartResult{{
		Meta:      ChartMeta{Symbol: "AAPL", Currency: "USD"},
		Timestamp: timestamps,
	}}
	p.Chart.Result[0].Indicators.Quote = []QuoteColumns{quote}
	return p
}

func TestNormalizeChart(t *testing.T) {
	p := chartPayload(
		[]int64{1700000060, 1700086460},
		QuoteColumns{
			Open:   []*float64{fptr(100), fptr(102)},
			High:   []*float64{fptr(101), fptr(104)},
			Low:    []*float64{fptr(99), fptr(101)},
			Close:  []*float64{fptr(100.5), fptr(103)},
			Volume: []*int64{iptr(1200), iptr(900)},
		},
	)

	candles, err := NormalizeChart(p, "AAPL", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	first := candles[0]
	if first.Time != 1700000060 || first.Open != 100 || first.Close != 100.5 || first.Volume != 1200 {
		t.Fatalf("unexpected first candle: %+v", first)
	}
}

func TestNormalizeChartSkipsAllNullRows(t *testing.T) {
	p := chartPayload(
		[]int64{1700000060, 1700086460, 1700172860},
		QuoteColumns{
			Open:   []*float64{fptr(100), nil, fptr(103)},
			High:   []*float64{fptr(101), nil, fptr(105)},
			Low:    []*float64{fptr(99), nil, fptr(102)},
			Close:  []*float64{fptr(100.5), nil, fptr(104)},
			Volume: []*int64{iptr(1200), nil, iptr(800)},
		},
	)

	candles, err := NormalizeChart(p, "AAPL", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("all-null row should be skipped, got %d candles", len(candles))
	}
	if candles[0].Time != 1700000060 || candles[1].Time != 1700172860 {
		t.Fatalf("unexpected surviving rows: %d, %d", candles[0].Time, candles[1].Time)
	}
}

func TestNormalizeChartNullVolumeBecomesZero(t *testing.T) {
	p := chartPayload(
		[]int64{1700000060},
		QuoteColumns{
			Open:   []*float64{fptr(100)},
			High:   []*float64{fptr(101)},
			Low:    []*float64{fptr(99)},
			Close:  []*float64{fptr(100.5)},
			Volume: []*int64{nil},
		},
	)

	candles, err := NormalizeChart(p, "AAPL", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 1 || candles[0].Volume != 0 {
		t.Fatalf("null volume should map to 0, got %+v", candles)
	}
}

func TestNormalizeChartEmptyResult(t *testing.T) {
	candles, err := NormalizeChart(&ChartPayload{}, "AAPL", 0)
	if err != nil {
		t.Fatalf("empty result should not error: %v", err)
	}
	if candles == nil || len(candles) != 0 {
		t.Fatalf("empty result should yield empty non-nil slice, got %v", candles)
	}
}

func TestNormalizeChartColumnMismatch(t *testing.T) {
	p := chartPayload(
		[]int64{1700000060, 1700086460},
		QuoteColumns{
			Open:   []*float64{fptr(100)},
			High:   []*float64{fptr(101), fptr(104)},
			Low:    []*float64{fptr(99), fptr(101)},
			Close:  []*float64{fptr(100.5), fptr(103)},
			Volume: []*int64{iptr(1200), iptr(900)},
		},
	)

	_, err := NormalizeChart(p, "AAPL", 0)
	if !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("want ErrMalformedPayload, got %v", err)
	}
}

func TestNormalizeChartTailTruncation(t *testing.T) {
	timestamps := make([]int64, 5)
	cols := QuoteColumns{}
	for i := range timestamps {
		timestamps[i] = int64(1700000060 + i*86400)
		v := float64(100 + i)
		cols.Open = append(cols.Open, fptr(v))
		cols.High = append(cols.High, fptr(v+1))
		cols.Low = append(cols.Low, fptr(v-1))
		cols.Close = append(cols.Close, fptr(v))
		cols.Volume = append(cols.Volume, iptr(1000))
	}
	p := chartPayload(timestamps, cols)

	candles, err := NormalizeChart(p, "AAPL", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("got %d candles, want 3", len(candles))
	}
	if candles[0].Time != timestamps[2] {
		t.Fatalf("truncation should keep the most recent rows, first = %d", candles[0].Time)
	}
}

func TestNormalizeQuote(t *testing.T) {
	p := chartPayload(
		[]int64{1700000060, 1700086460},
		QuoteColumns{
			Open:   []*float64{fptr(100), fptr(102)},
			High:   []*float64{fptr(101), fptr(104)},
			Low:    []*float64{fptr(99), fptr(101)},
			Close:  []*float64{fptr(100.5), fptr(103)},
			Volume: []*int64{iptr(1200), iptr(900)},
		},
	)

	q, err := NormalizeQuote(p, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 103 || q.Open != 102 || q.Volume != 900 {
		t.Fatalf("quote should come from the last bar: %+v", q)
	}
	if q.Change == nil || *q.Change != 1.0 {
		t.Fatalf("change = %v, want 1", q.Change)
	}
	if q.ChangePercent == nil {
		t.Fatalf("change percent should be derived when open > 0")
	}
}

func TestNormalizeQuoteZeroOpen(t *testing.T) {
	p := chartPayload(
		[]int64{1700000060},
		QuoteColumns{
			Open:   []*float64{fptr(0)},
			High:   []*float64{fptr(101)},
			Low:    []*float64{fptr(99)},
			Close:  []*float64{fptr(100.5)},
			Volume: []*int64{iptr(1200)},
		},
	)

	q, err := NormalizeQuote(p, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Change != nil || q.ChangePercent != nil {
		t.Fatalf("change fields should be absent when open is not positive: %+v", q)
	}
}

func TestNormalizeQuoteEmptyResult(t *testing.T) {
	q, err := NormalizeQuote(&ChartPayload{}, "AAPL")
	if err != nil || q != nil {
		t.Fatalf("empty result should yield (nil, nil), got (%v, %v)", q, err)
	}
}

func TestNormalizeInfo(t *testing.T) {
	p := &SummaryPayload{}
	r := SummaryResult{}
	r.AssetProfile.Sector = "Technology"
	r.AssetProfile.Industry = "Consumer Electronics"
	r.AssetProfile.LongBusinessSummary = "Designs and sells devices."
	r.Price.LongName = "Apple Inc."
	r.SummaryDetail.MarketCap = FmtInt{Raw: 3000000000000}
	r.SummaryDetail.TrailingPE = FmtFloat{Raw: 29.5}
	r.SummaryDetail.FiftyTwoWeekHigh = FmtFloat{Raw: 199.62}
	r.SummaryDetail.FiftyTwoWeekLow = FmtFloat{Raw: 124.17}
	r.SummaryDetail.AverageVolume = FmtInt{Raw: 58000000}
	p.QuoteSummary.Result = []SummaryResult{r}

	info := NormalizeInfo(p, "AAPL")
	if info == nil {
		t.Fatal("expected info")
	}
	if info.CompanyName != "Apple Inc." || info.Sector != "Technology" {
		t.Fatalf("unexpected profile fields: %+v", info)
	}
	if info.MarketCap != 3000000000000 || info.PERatio != 29.5 {
		t.Fatalf("unexpected statistics fields: %+v", info)
	}
	if info.DividendYield != 0 || info.Beta != 0 {
		t.Fatalf("absent fields should stay zero: %+v", info)
	}
}

func TestNormalizeInfoEmptyResult(t *testing.T) {
	if info := NormalizeInfo(&SummaryPayload{}, "AAPL"); info != nil {
		t.Fatalf("empty result should yield nil, got %+v", info)
	}
}
