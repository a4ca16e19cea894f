package market

import "time"

// Bar is one OHLC candle in canonical form. Ts is the bar's open time in UTC;
// Volume is zero when the vendor reports none.
type Bar struct {
	Symbol   string
	Exchange string
	Interval string
	Ts       time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// FetchRequest asks a provider for the most recent Lookback bars of a symbol.
type FetchRequest struct {
	Symbol   string
	Exchange string
	Interval string
	Lookback int
}

// CanonicalIntervals enumerates every interval the jobs accept, with the wall
// span each one covers. Providers translate these into their own vocabulary
// and reject what they cannot express.
var CanonicalIntervals = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
}

// IntervalDuration returns the wall span of a canonical interval.
func IntervalDuration(interval string) (time.Duration, bool) {
	d, ok := CanonicalIntervals[interval]
	return d, ok
}
