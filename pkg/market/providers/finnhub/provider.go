package finnhub

import (
	"context"
	"net/http"
	"time"

	"watchsync-api/pkg/market"
)

const (
	defaultProviderTimeout = 8 * time.Second
	defaultAPIKeyEnv       = "FINNHUB_API_KEY"
)

// Provider adapts the Finnhub client to the market.Provider contract.
type Provider struct {
	name    string
	client  *Client
	timeout time.Duration
}

// NewProvider constructs a Finnhub OHLC provider.
func NewProvider(name string, client *Client, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &Provider{name: name, client: client, timeout: timeout}
}

func init() {
	market.RegisterProvider("finnhub", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		envName := cfg.APIKeyEnv
		if envName == "" {
			envName = defaultAPIKeyEnv
		}
		apiKey, err := market.APIKeyFromEnv(envName)
		if err != nil {
			return nil, err
		}
		clientOptions := []Option{}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return NewProvider(name, NewClient(apiKey, clientOptions...), cfg.Timeout), nil
	})
}

// Name implements market.Provider.
func (p *Provider) Name() string {
	if p.name != "" {
		return p.name
	}
	return "finnhub"
}

// FetchOhlc implements market.Provider.
func (p *Provider) FetchOhlc(ctx context.Context, req market.FetchRequest) ([]market.Bar, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	bars, err := p.client.Candles(ctx, req.Symbol, req.Interval, req.Lookback)
	if err != nil {
		return nil, err
	}
	for i := range bars {
		bars[i].Symbol = req.Symbol
		bars[i].Exchange = req.Exchange
		bars[i].Interval = req.Interval
	}
	return bars, nil
}
