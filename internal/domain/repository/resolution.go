package repository

import "KeepItBased/internal/domain/models"

// Resolution is a candle duration in minutes.
type Resolution int

const (
	Res1m  Resolution = 1
	Res5m  Resolution = 5
	Res15m Resolution = 15
	Res30m Resolution = 30
	Res1h  Resolution = 60
	Res4h  Resolution = 240
	Res1d  Resolution = 1440
)

// IsValidResolution returns true if r is a supported resolution.
func IsValidResolution(r Resolution) bool {
	switch r {
	case Res1m, Res5m, Res15m, Res30m, Res1h, Res4h, Res1d:
		return true
	default:
		return false
	}
}

// DefaultResolution returns the default resolution.
func DefaultResolution() Resolution { return Res1h }

// NormalizeResolution converts raw minutes to a valid resolution (or default).
func NormalizeResolution(minutes int) Resolution {
	r := Resolution(minutes)
	if IsValidResolution(r) {
		return r
	}
	return DefaultResolution()
}

// Intraday reports whether the resolution is five minutes or finer.
func (r Resolution) Intraday() bool { return r <= Res5m }

// SupportedIntervals lists every resolution with display metadata.
func SupportedIntervals() []models.Interval {
	return []models.Interval{
		{Value: 1, Label: "1m", Description: "1 minute"},
		{Value: 5, Label: "5m", Description: "5 minutes"},
		{Value: 15, Label: "15m", Description: "15 minutes"},
		{Value: 30, Label: "30m", Description: "30 minutes"},
		{Value: 60, Label: "1h", Description: "1 hour"},
		{Value: 240, Label: "4h", Description: "4 hours"},
		{Value: 1440, Label: "1d", Description: "1 day"},
	}
}
