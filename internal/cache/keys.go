package cachekeys

import "fmt"

// Key layout: watchsync:<area>:<qualifier...>. Keep every key builder here
// so TTL policy and naming stay in one place.

// LatestBarKey caches the most recent bar per (symbol, exchange, interval).
func LatestBarKey(symbol, exchange, interval string) string {
	if exchange == "" {
		exchange = "-"
	}
	return fmt.Sprintf("watchsync:ohlc:latest:%s:%s:%s", symbol, exchange, interval)
}
