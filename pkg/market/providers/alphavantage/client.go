package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"watchsync-api/pkg/market"
)

const (
	defaultBaseURL     = "https://www.alphavantage.co"
	defaultHTTPTimeout = 10 * time.Second
)

// seriesFunction resolves the canonical interval to the vendor function and,
// for intraday requests, the native interval parameter.
func seriesFunction(interval string) (function, native string, ok bool) {
	switch interval {
	case "1d":
		return "TIME_SERIES_DAILY", "", true
	case "1w":
		return "TIME_SERIES_WEEKLY", "", true
	case "1mo":
		return "TIME_SERIES_MONTHLY", "", true
	case "1m":
		return "TIME_SERIES_INTRADAY", "1min", true
	case "5m":
		return "TIME_SERIES_INTRADAY", "5min", true
	case "15m":
		return "TIME_SERIES_INTRADAY", "15min", true
	case "30m":
		return "TIME_SERIES_INTRADAY", "30min", true
	case "1h":
		return "TIME_SERIES_INTRADAY", "60min", true
	default:
		return "", "", false
	}
}

var datetimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// Client wraps the Alpha Vantage query endpoint.
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

// NewClient constructs an Alpha Vantage API client.
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

// TimeSeries fetches candles for the symbol, oldest first, trimmed to
// lookback entries. Alpha Vantage has no venue parameter; the symbol must
// already be in vendor form.
func (c *Client) TimeSeries(ctx context.Context, symbol, interval string, lookback int) ([]market.Bar, error) {
	function, native, ok := seriesFunction(interval)
	if !ok {
		return nil, fmt.Errorf("alphavantage: interval %q: %w", interval, market.ErrUnsupportedInterval)
	}

	// compact caps the response at 100 points; ask for the full series
	// when the caller wants more than that.
	outputsize := "compact"
	if lookback > 100 {
		outputsize = "full"
	}

	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	params.Set("outputsize", outputsize)
	params.Set("apikey", c.apiKey)
	if native != "" {
		params.Set("interval", native)
	}

	endpoint := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("alphavantage: http status %d: %s", resp.StatusCode, string(body))
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("alphavantage: decode response: %w", err)
	}
	switch {
	case envelope.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage: api error: %s", envelope.ErrorMessage)
	case envelope.Note != "":
		// The Note envelope is the vendor's rate-limit reply.
		return nil, fmt.Errorf("alphavantage: throttled: %s", envelope.Note)
	case envelope.Information != "":
		return nil, fmt.Errorf("alphavantage: api rejection: %s", envelope.Information)
	}

	series, err := extractSeries(body)
	if err != nil {
		return nil, err
	}

	bars := make([]market.Bar, 0, len(series))
	for raw, v := range series {
		bar, ok := parseCandle(raw, v)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Ts.Before(bars[j].Ts) })
	if lookback > 0 && len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}

// extractSeries locates the time-series object; its JSON key embeds the
// function name ("Time Series (Daily)", "Weekly Time Series", ...).
func extractSeries(body []byte) (map[string]candle, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("alphavantage: decode response: %w", err)
	}
	for key, raw := range root {
		if !strings.Contains(key, "Time Series") {
			continue
		}
		var series map[string]candle
		if err := json.Unmarshal(raw, &series); err != nil {
			return nil, fmt.Errorf("alphavantage: decode series %q: %w", key, err)
		}
		return series, nil
	}
	return nil, fmt.Errorf("alphavantage: response has no time series object")
}

func parseCandle(rawTs string, v candle) (market.Bar, bool) {
	ts, ok := parseDatetime(rawTs)
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
