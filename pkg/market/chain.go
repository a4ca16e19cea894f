package market

import "context"

// Chain tries providers in a fixed order until one returns a non-empty
// series. Order is decided at construction and never reshuffled; there is no
// health tracking and no retry inside a run.
type Chain struct {
	providers []Provider
}

// NewChain builds a fallback chain over the given providers.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Providers returns the chain's providers in fallback order.
func (c *Chain) Providers() []Provider {
	out := make([]Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

// Fetch walks the chain for one request. It returns the bars of the first
// StatusOk outcome, plus the full per-provider trail for the caller to log.
// A nil bar slice with a fully populated trail means every provider was
// exhausted without data; that is a normal terminal state, not an error.
func (c *Chain) Fetch(ctx context.Context, req FetchRequest) ([]Bar, []Outcome) {
	trail := make([]Outcome, 0, len(c.providers))
	for _, p := range c.providers {
		bars, err := p.FetchOhlc(ctx, req)
		outcome := Classify(p.Name(), bars, err)
		trail = append(trail, outcome)
		if outcome.Status == StatusOk {
			return outcome.Bars, trail
		}
	}
	return nil, trail
}
