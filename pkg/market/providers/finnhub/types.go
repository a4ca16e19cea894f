package finnhub

// candleResponse mirrors /stock/candle: parallel arrays keyed by single
// letters, plus a status string ("ok" or "no_data").
type candleResponse struct {
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Ts     []int64   `json:"t"`
	Status string    `json:"s"`
}
