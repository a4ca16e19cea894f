package market

import (
	"context"
	"errors"
)

// ErrUnsupportedInterval signals that a provider cannot translate the
// requested interval into its native vocabulary. The fallback loop treats it
// like any other provider failure; callers that probe capabilities can test
// for it with errors.Is.
var ErrUnsupportedInterval = errors.New("market: unsupported interval")

// Provider is one upstream OHLC vendor behind a uniform fetch contract.
//
// Implementations must return bars sorted ascending by time, drop individual
// bars that fail numeric or timestamp validation, and surface throttling or
// transport problems as errors; retry and fallback decisions belong to the
// caller.
type Provider interface {
	// Name identifies the provider in logs and config.
	Name() string
	// FetchOhlc pulls up to req.Lookback bars for the requested symbol.
	FetchOhlc(ctx context.Context, req FetchRequest) ([]Bar, error)
}
