package indicator

import (
	"math"

	"KeepItBased/internal/domain/models"
)

// MinCryptoHistory is the observation floor below which the crypto path
// returns the empty bundle instead of per-point nulls.
const MinCryptoHistory = 50

// Closes projects the close field of a candle sequence.
func Closes(candles []models.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// SMA computes the trailing simple moving average. The output has the input
// length; the first window-1 entries are nil.
func SMA(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			mean := sum / float64(window)
			out[i] = &mean
		}
	}
	return out
}

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(span+1), seeded from the first value. The output has the input
// length with no warm-up gap.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD computes the MACD line (EMA12 - EMA26), its EMA9 signal line and the
// histogram (line - signal). All three have the input length.
func MACD(values []float64) (line, signal, histogram []float64) {
	ema12 := EMA(values, 12)
	ema26 := EMA(values, 26)
	line = make([]float64, len(values))
	for i := range values {
		line[i] = ema12[i] - ema26[i]
	}
	signal = EMA(line, 9)
	histogram = make([]float64, len(values))
	for i := range values {
		histogram[i] = line[i] - signal[i]
	}
	return line, signal, histogram
}

// RSI computes the relative strength index over trailing simple averages of
// gains and losses. The first period entries are nil. The gain/loss ratio is
// taken with raw IEEE division: a zero average loss with positive gains makes
// the ratio +Inf and the RSI exactly 100; zero gain and zero loss make it NaN,
// which maps to nil.
func RSI(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i >= period {
			avgGain := gainSum / float64(period)
			avgLoss := lossSum / float64(period)
			rs := avgGain / avgLoss
			rsi := 100.0 - 100.0/(1.0+rs)
			if !math.IsNaN(rsi) {
				v := rsi
				out[i] = &v
			}
		}
	}
	return out
}

// ComputeBundle derives the full indicator set from a candle sequence.
// Below minHistory observations it returns the canonical empty bundle
// (zero-length sequences) rather than aligned nulls.
func ComputeBundle(candles []models.Candle, minHistory int) *models.IndicatorBundle {
	if len(candles) < minHistory {
		return emptyBundle()
	}

	closes := Closes(candles)
	line, signal, histogram := MACD(closes)

	return &models.IndicatorBundle{
		SMA20: SMA(closes, 20),
		SMA50: SMA(closes, 50),
		EMA12: wrap(EMA(closes, 12)),
		EMA26: wrap(EMA(closes, 26)),
		MACD: models.MACDBundle{
			Line:      wrap(line),
			Signal:    wrap(signal),
			Histogram: wrap(histogram),
		},
		RSI: RSI(closes, 14),
	}
}

// TechnicalSeries builds the per-candle indicator rows for the equity
// technical endpoint. No history floor applies; warm-up positions are nil.
func TechnicalSeries(candles []models.Candle) []models.TechnicalPoint {
	closes := Closes(candles)
	sma20 := SMA(closes, 20)
	sma50 := SMA(closes, 50)
	line, signal, _ := MACD(closes)
	rsi := RSI(closes, 14)

	points := make([]models.TechnicalPoint, len(candles))
	for i, c := range candles {
		points[i] = models.TechnicalPoint{
			Time:   c.Time,
			Close:  c.Close,
			SMA20:  sma20[i],
			SMA50:  sma50[i],
			MACD:   ptr(line[i]),
			Signal: ptr(signal[i]),
			RSI:    rsi[i],
		}
	}
	return points
}

func emptyBundle() *models.IndicatorBundle {
	return &models.IndicatorBundle{
		SMA20: []*float64{},
		SMA50: []*float64{},
		EMA12: []*float64{},
		EMA26: []*float64{},
		MACD: models.MACDBundle{
			Line:      []*float64{},
			Signal:    []*float64{},
			Histogram: []*float64{},
		},
		RSI: []*float64{},
	}
}

func wrap(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

func ptr(v float64) *float64 { return &v }
