package assets

// CatalogEntry is one well-known instrument with its hand-curated aliases.
// The entry symbol itself is always indexed; aliases are extra spellings.
type CatalogEntry struct {
	Symbol   string
	Exchange string
	Aliases  []string
}

// AmbiguousListing describes a symbol that legitimately trades on several
// venues. Preferred is used when the caller supplies no usable hint.
type AmbiguousListing struct {
	Exchanges []string
	Preferred string
}

// Catalog bundles every static table the resolver consults. It is plain
// data; NewResolver compiles it into immutable lookup structures once.
type Catalog struct {
	Entries       []CatalogEntry
	Ambiguous     map[string]AmbiguousListing
	FiatCodes     []string
	CryptoBases   []string
	CryptoQuotes  []string
	ExchangeRemap map[string]string
}

// SeedPair is one (symbol, exchange) pair sourced from a data store at
// startup; seed pairs extend the alias index behind the curated entries.
type SeedPair struct {
	Symbol   string
	Exchange string
}

// DefaultCatalog returns the bundled resolver tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Entries: []CatalogEntry{
			{Symbol: "AAPL", Exchange: "NASDAQ", Aliases: []string{"APPLE", "NASDAQ:AAPL"}},
			{Symbol: "MSFT", Exchange: "NASDAQ", Aliases: []string{"MICROSOFT", "NASDAQ:MSFT"}},
			{Symbol: "GOOGL", Exchange: "NASDAQ", Aliases: []string{"GOOGLE", "ALPHABET", "GOOG"}},
			{Symbol: "AMZN", Exchange: "NASDAQ", Aliases: []string{"AMAZON"}},
			{Symbol: "META", Exchange: "NASDAQ", Aliases: []string{"FACEBOOK", "FB"}},
			{Symbol: "NVDA", Exchange: "NASDAQ", Aliases: []string{"NVIDIA"}},
			{Symbol: "TSLA", Exchange: "NASDAQ", Aliases: []string{"TESLA"}},
			{Symbol: "JPM", Exchange: "NYSE", Aliases: []string{"JPMORGAN"}},
			{Symbol: "XOM", Exchange: "NYSE", Aliases: []string{"EXXON", "EXXONMOBIL"}},
			{Symbol: "JNJ", Exchange: "NYSE", Aliases: []string{"JOHNSONJOHNSON"}},
			{Symbol: "WMT", Exchange: "NYSE", Aliases: []string{"WALMART"}},
			{Symbol: "SPY", Exchange: "AMEX", Aliases: []string{"SP500", "SPX", "S&P500"}},
			{Symbol: "QQQ", Exchange: "NASDAQ", Aliases: []string{"NASDAQ100", "NDX"}},
			{Symbol: "DIA", Exchange: "AMEX", Aliases: []string{"DOWJONES", "DJIA", "DOW"}},
			{Symbol: "GLD", Exchange: "AMEX", Aliases: []string{"GOLD"}},
			{Symbol: "SLV", Exchange: "AMEX", Aliases: []string{"SILVER"}},
			{Symbol: "USO", Exchange: "AMEX", Aliases: []string{"OIL", "CRUDE", "CRUDEOIL", "WTI"}},
			{Symbol: "TLT", Exchange: "NASDAQ", Aliases: []string{"TREASURY", "USTREASURY", "BONDS"}},
			{Symbol: "UUP", Exchange: "AMEX", Aliases: []string{"DOLLAR", "DXY", "USDOLLAR"}},
			{Symbol: "VIX", Exchange: "CBOE", Aliases: []string{"VOLATILITY"}},
		},
		Ambiguous: map[string]AmbiguousListing{
			"BHP":  {Exchanges: []string{"ASX", "NYSE", "LSE"}, Preferred: "ASX"},
			"RIO":  {Exchanges: []string{"LSE", "NYSE", "ASX"}, Preferred: "LSE"},
			"SHEL": {Exchanges: []string{"LSE", "NYSE"}, Preferred: "LSE"},
			"SONY": {Exchanges: []string{"NYSE", "TSE"}, Preferred: "NYSE"},
			"TM":   {Exchanges: []string{"NYSE", "TSE"}, Preferred: "NYSE"},
		},
		FiatCodes: []string{
			"USD", "EUR", "GBP", "JPY", "CHF", "AUD", "CAD", "NZD",
			"SEK", "NOK", "DKK", "SGD", "HKD", "MXN", "ZAR", "TRY",
			"PLN", "CNY", "INR", "KRW",
		},
		CryptoBases: []string{
			"BTC", "ETH", "SOL", "ADA", "XRP", "DOGE", "DOT", "AVAX",
			"LINK", "MATIC", "LTC", "BCH", "UNI", "ATOM", "ETC", "XLM",
			"NEAR", "APT", "ARB", "OP",
		},
		CryptoQuotes: []string{"USD", "USDT"},
		ExchangeRemap: map[string]string{
			"NASDAQ GLOBAL SELECT": "NASDAQ",
			"NASDAQ GLOBAL MARKET": "NASDAQ",
			"NASDAQ GS":            "NASDAQ",
			"XNAS":                 "NASDAQ",
			"NEW YORK STOCK EXCHANGE": "NYSE",
			"XNYS":                    "NYSE",
			"NYSE ARCA":               "AMEX",
			"NYSE AMERICAN":           "AMEX",
			"ARCA":                    "AMEX",
			"BATS":                    "AMEX",
			"LONDON STOCK EXCHANGE":   "LSE",
			"XLON":                    "LSE",
			"TOKYO STOCK EXCHANGE":    "TSE",
			"XTKS":                    "TSE",
			"AUSTRALIAN SECURITIES EXCHANGE": "ASX",
			"XASX":                           "ASX",
		},
	}
}
