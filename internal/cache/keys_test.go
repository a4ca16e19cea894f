package cachekeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatestBarKey(t *testing.T) {
	assert.Equal(t, "watchsync:ohlc:latest:AAPL:NASDAQ:1d", LatestBarKey("AAPL", "NASDAQ", "1d"))
	// Venue-less symbols get a placeholder so key arity stays fixed.
	assert.Equal(t, "watchsync:ohlc:latest:EURUSD:-:1h", LatestBarKey("EURUSD", "", "1h"))
}
