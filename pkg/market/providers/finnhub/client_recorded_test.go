package finnhub

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
)

// This test uses go-vcr to record/replay a real candle call. It skips by
// default if the cassette is absent and RECORD_CASSETTES != 1; recording also
// needs a real FINNHUB_API_KEY in the environment.
func TestClient_Candles_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "finnhub_candles.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	apiKey := os.Getenv("FINNHUB_API_KEY")
	if apiKey == "" {
		apiKey = "replayed-key"
	}

	httpClient := &http.Client{Transport: r}
	client := NewClient(apiKey, WithHTTPClient(httpClient))
	bars, err := client.Candles(context.Background(), "AAPL", "1d", 5)
	assert.NoError(t, err, "Candles should not error")
	assert.NotEmpty(t, bars, "bars should not be empty")
	for _, bar := range bars {
		assert.False(t, bar.Ts.IsZero(), "bar timestamp should be set")
		assert.Greater(t, bar.Close, 0.0, "close should be positive")
	}
}
