package twelvedata

// timeSeriesResponse mirrors the /time_series payload. Error replies reuse
// the same envelope with status == "error".
type timeSeriesResponse struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Values  []timeSeriesValue `json:"values"`
}

// timeSeriesValue carries one candle; Twelve Data serialises every numeric
// field as a string.
type timeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}
