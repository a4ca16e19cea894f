package alphavantage

// candle carries one time-series entry; Alpha Vantage prefixes every field
// name with its column number.
type candle struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// errorEnvelope covers the three shapes Alpha Vantage uses for non-data
// replies: hard errors, throttle notes, and informational rejections.
type errorEnvelope struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}
