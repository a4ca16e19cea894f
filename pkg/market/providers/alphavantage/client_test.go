package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchsync-api/pkg/market"
)

func newMockServer(t *testing.T, payload string, inspect func(r *http.Request)) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	client := NewClient("test-key", WithBaseURL(server.URL))
	return server, client
}

func TestTimeSeriesDaily(t *testing.T) {
	payload := `{
		"Meta Data": {"2. Symbol": "IBM"},
		"Time Series (Daily)": {
			"2024-03-07": {"1. open": "187.00", "2. high": "188.92", "3. low": "186.78", "4. close": "188.30", "5. volume": "4337300"},
			"2024-03-06": {"1. open": "194.80", "2. high": "195.46", "3. low": "186.91", "4. close": "187.42", "5. volume": "8373400"},
			"2024-03-05": {"1. open": "196.40", "2. high": "196.85", "3. low": "194.32", "4. close": "194.90", "5. volume": "3961800"}
		}
	}`
	server, client := newMockServer(t, payload, func(r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "compact", r.URL.Query().Get("outputsize"))
		assert.Empty(t, r.URL.Query().Get("interval"))
	})
	defer server.Close()

	bars, err := client.TimeSeries(context.Background(), "IBM", "1d", 10)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), bars[0].Ts)
	assert.InDelta(t, 188.30, bars[2].Close, 1e-9)
}

func TestTimeSeriesTrimsToLookback(t *testing.T) {
	payload := `{
		"Time Series (Daily)": {
			"2024-03-07": {"1. open": "187.00", "2. high": "188.92", "3. low": "186.78", "4. close": "188.30", "5. volume": "1"},
			"2024-03-06": {"1. open": "194.80", "2. high": "195.46", "3. low": "186.91", "4. close": "187.42", "5. volume": "1"},
			"2024-03-05": {"1. open": "196.40", "2. high": "196.85", "3. low": "194.32", "4. close": "194.90", "5. volume": "1"}
		}
	}`
	server, client := newMockServer(t, payload, nil)
	defer server.Close()

	bars, err := client.TimeSeries(context.Background(), "IBM", "1d", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	// The trim keeps the newest bars.
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), bars[0].Ts)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), bars[1].Ts)
}

func TestTimeSeriesFullOutputForLongLookback(t *testing.T) {
	payload := `{
		"Time Series (Daily)": {
			"2024-03-07": {"1. open": "187.00", "2. high": "188.92", "3. low": "186.78", "4. close": "188.30", "5. volume": "1"}
		}
	}`
	server, client := newMockServer(t, payload, func(r *http.Request) {
		// compact tops out at 100 points, so a longer lookback needs full.
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
	})
	defer server.Close()

	_, err := client.TimeSeries(context.Background(), "IBM", "1d", 250)
	require.NoError(t, err)
}

func TestTimeSeriesIntraday(t *testing.T) {
	payload := `{
		"Time Series (60min)": {
			"2024-03-07 15:00:00": {"1. open": "188.00", "2. high": "188.40", "3. low": "187.78", "4. close": "188.30", "5. volume": "120400"}
		}
	}`
	server, client := newMockServer(t, payload, func(r *http.Request) {
		assert.Equal(t, "TIME_SERIES_INTRADAY", r.URL.Query().Get("function"))
		assert.Equal(t, "60min", r.URL.Query().Get("interval"))
	})
	defer server.Close()

	bars, err := client.TimeSeries(context.Background(), "IBM", "1h", 5)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC), bars[0].Ts)
}

func TestTimeSeriesThrottleNote(t *testing.T) {
	payload := `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`
	server, client := newMockServer(t, payload, nil)
	defer server.Close()

	_, err := client.TimeSeries(context.Background(), "IBM", "1d", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestTimeSeriesErrorMessage(t *testing.T) {
	payload := `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`
	server, client := newMockServer(t, payload, nil)
	defer server.Close()

	_, err := client.TimeSeries(context.Background(), "NOPE", "1d", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api error")
}

func TestTimeSeriesUnsupportedInterval(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.TimeSeries(context.Background(), "IBM", "4h", 5)
	require.ErrorIs(t, err, market.ErrUnsupportedInterval)
}
