package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"watchsync-api/pkg/market"
)

const (
	defaultBaseURL     = "https://api.twelvedata.com"
	defaultHTTPTimeout = 10 * time.Second
)

// nativeIntervals translates canonical interval strings into the Twelve Data
// vocabulary. Anything absent here is an explicit unsupported-interval error.
var nativeIntervals = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "1h",
	"4h":  "4h",
	"1d":  "1day",
	"1w":  "1week",
	"1mo": "1month",
}

var datetimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// Client wraps the Twelve Data /time_series endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// NewClient constructs a Twelve Data API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// TimeSeries fetches up to lookback candles for the symbol, oldest first.
func (c *Client) TimeSeries(ctx context.Context, symbol, exchange, interval string, lookback int) ([]market.Bar, error) {
	native, ok := nativeIntervals[interval]
	if !ok {
		return nil, fmt.Errorf("twelvedata: interval %q: %w", interval, market.ErrUnsupportedInterval)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", native)
	params.Set("outputsize", strconv.Itoa(lookback))
	params.Set("apikey", c.apiKey)
	if exchange != "" {
		params.Set("exchange", exchange)
	}

	endpoint := fmt.Sprintf("%s/time_series?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("twelvedata: build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("twelvedata: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twelvedata: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twelvedata: http status %d: %s", resp.StatusCode, string(body))
	}

	var payload timeSeriesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("twelvedata: decode response: %w", err)
	}
	if payload.Status == "error" {
		// Code 429 is the vendor's throttle reply; surfaced like any failure.
		return nil, fmt.Errorf("twelvedata: api error code=%d: %s", payload.Code, payload.Message)
	}

	bars := make([]market.Bar, 0, len(payload.Values))
	for _, v := range payload.Values {
		bar, ok := parseValue(v)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Ts.Before(bars[j].Ts) })
	return bars, nil
}

// parseValue converts one vendor candle, rejecting rows with unparseable
// timestamps or non-finite prices.
func parseValue(v timeSeriesValue) (market.Bar, bool) {
	ts, ok := parseDatetime(v.Datetime)
	if !ok {
		return market.Bar{}, false
	}
	open, err1 := strconv.ParseFloat(v.Open, 64)
	high, err2 := strconv.ParseFloat(v.High, 64)
	low, err3 := strconv.ParseFloat(v.Low, 64)
	closePx, err4 := strconv.ParseFloat(v.Close, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return market.Bar{}, false
	}
	if !market.ValidOHLC(open, high, low, closePx) {
		return market.Bar{}, false
	}
	volume := 0.0
	if v.Volume != "" {
		if parsed, err := strconv.ParseFloat(v.Volume, 64); err == nil {
			volume = parsed
		}
	}
	return market.Bar{Ts: ts, Open: open, High: high, Low: low, Close: closePx, Volume: volume}, true
}

func parseDatetime(raw string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
