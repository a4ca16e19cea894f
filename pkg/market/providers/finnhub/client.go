package finnhub

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
	defaultBaseURL     = "https://finnhub.io/api/v1"
	defaultHTTPTimeout = 10 * time.Second
)

// nativeResolutions maps canonical intervals onto Finnhub resolutions.
// Finnhub has no 4h resolution.
var nativeResolutions = map[string]string{
	"1m":  "1",
	"5m":  "5",
	"15m": "15",
	"30m": "30",
	"1h":  "60",
	"1d":  "D",
	"1w":  "W",
	"1mo": "M",
}

// Client wraps the Finnhub candle endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
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

// WithClock overrides the time source; tests pin it for stable from/to math.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a Finnhub API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Candles fetches up to lookback candles ending now, oldest first. A
// "no_data" reply is an empty result, not an error, so the fallback loop can
// tell it apart from vendor failure.
func (c *Client) Candles(ctx context.Context, symbol, interval string, lookback int) ([]market.Bar, error) {
	resolution, ok := nativeResolutions[interval]
	if !ok {
		return nil, fmt.Errorf("finnhub: interval %q: %w", interval, market.ErrUnsupportedInterval)
	}
	span, _ := market.IntervalDuration(interval)
	end := c.now().UTC()
	// A few extra spans of slack cover market closures inside the window.
	start := end.Add(-span * time.Duration(lookback+10))

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", resolution)
	params.Set("from", strconv.FormatInt(start.Unix(), 10))
	params.Set("to", strconv.FormatInt(end.Unix(), 10))
	params.Set("token", c.apiKey)

	endpoint := fmt.Sprintf("%s/stock/candle?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("finnhub: build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("finnhub: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finnhub: read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("finnhub: throttled: %s", string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("finnhub: http status %d: %s", resp.StatusCode, string(body))
	}

	var payload candleResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("finnhub: decode response: %w", err)
	}
	if payload.Status == "no_data" {
		return nil, nil
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("finnhub: api status %q", payload.Status)
	}

	bars := make([]market.Bar, 0, len(payload.Ts))
	for i, unix := range payload.Ts {
		if i >= len(payload.Open) || i >= len(payload.High) || i >= len(payload.Low) || i >= len(payload.Close) {
			break
		}
		if unix <= 0 {
			continue
		}
		open, high, low, closePx := payload.Open[i], payload.High[i], payload.Low[i], payload.Close[i]
		if !market.ValidOHLC(open, high, low, closePx) {
			continue
		}
		volume := 0.0
		if i < len(payload.Volume) {
			volume = payload.Volume[i]
		}
		bars = append(bars, market.Bar{
			Ts:     time.Unix(unix, 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Ts.Before(bars[j].Ts) })
	if lookback > 0 && len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}
