package assets

import (
	"strings"
	"unicode"
)

// Confidence grades how certain a resolution is.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Method names which rule produced a resolution.
const (
	MethodCatalog   = "catalog"
	MethodAmbiguous = "ambiguous-fallback"
	MethodForex     = "forex"
	MethodCrypto    = "crypto"
	MethodFallback  = "fallback"
)

const (
	forexExchange   = "FOREX"
	cryptoExchange  = "CRYPTO"
	defaultExchange = "GLOBAL"
	unmappedSymbol  = "UNMAPPED"
)

// Candidate is the free-form input to resolution. At least one of Symbol,
// Ticker, or Name is expected; the rest are optional hints.
type Candidate struct {
	Symbol         string
	Ticker         string
	Name           string
	ExchangeHint   string
	EconomicAnchor string
}

// ResolvedAsset is the canonical resolution of a Candidate.
type ResolvedAsset struct {
	Symbol     string
	ExchangeID string
	Confidence string
	Method     string
	Meta       map[string]string
}

type aliasTarget struct {
	symbol   string
	exchange string
}

// Resolver maps free-text symbol candidates onto canonical
// (symbol, exchange) pairs. All lookup tables are compiled at construction;
// Resolve is pure and never fails.
type Resolver struct {
	aliasIndex   map[string]aliasTarget
	ambiguous    map[string]AmbiguousListing
	fiat         map[string]struct{}
	cryptoBases  map[string]struct{}
	cryptoQuotes []string
	remap        map[string]string
}

// NewResolver compiles the catalog plus optional seed pairs into an
// immutable resolver. On alias collision the first occurrence wins: curated
// entries take precedence over seeds, earlier seeds over later ones.
func NewResolver(cat Catalog, seeds ...SeedPair) *Resolver {
	r := &Resolver{
		aliasIndex:   make(map[string]aliasTarget),
		ambiguous:    make(map[string]AmbiguousListing, len(cat.Ambiguous)),
		fiat:         make(map[string]struct{}, len(cat.FiatCodes)),
		cryptoBases:  make(map[string]struct{}, len(cat.CryptoBases)),
		cryptoQuotes: make([]string, 0, len(cat.CryptoQuotes)),
		remap:        make(map[string]string, len(cat.ExchangeRemap)),
	}

	for _, entry := range cat.Entries {
		target := aliasTarget{symbol: strings.ToUpper(entry.Symbol), exchange: strings.ToUpper(entry.Exchange)}
		r.index(entry.Symbol, target)
		for _, alias := range entry.Aliases {
			r.index(alias, target)
		}
	}
	for _, seed := range seeds {
		exchange := strings.ToUpper(strings.TrimSpace(seed.Exchange))
		target := aliasTarget{symbol: strings.ToUpper(strings.TrimSpace(seed.Symbol)), exchange: exchange}
		if target.symbol == "" {
			continue
		}
		r.index(seed.Symbol, target)
		if exchange != "" {
			r.index(exchange+":"+seed.Symbol, target)
		}
	}

	for symbol, listing := range cat.Ambiguous {
		r.ambiguous[normalizeAlias(symbol)] = listing
	}
	for _, code := range cat.FiatCodes {
		r.fiat[strings.ToUpper(code)] = struct{}{}
	}
	for _, base := range cat.CryptoBases {
		r.cryptoBases[strings.ToUpper(base)] = struct{}{}
	}
	for _, quote := range cat.CryptoQuotes {
		r.cryptoQuotes = append(r.cryptoQuotes, strings.ToUpper(quote))
	}
	for from, to := range cat.ExchangeRemap {
		r.remap[strings.ToUpper(from)] = strings.ToUpper(to)
	}
	return r
}

func (r *Resolver) index(alias string, target aliasTarget) {
	key := normalizeAlias(alias)
	if key == "" {
		return
	}
	if _, exists := r.aliasIndex[key]; exists {
		return
	}
	r.aliasIndex[key] = target
}

// Resolve maps a candidate to its canonical asset. Rules run in strict
// order; the first that matches wins.
func (r *Resolver) Resolve(c Candidate) ResolvedAsset {
	hint := r.normalizeHint(c.ExchangeHint)
	aliases := r.candidateAliases(c, hint)

	// 1. Alias index.
	for _, alias := range aliases {
		if target, ok := r.aliasIndex[alias]; ok {
			return ResolvedAsset{
				Symbol:     target.symbol,
				ExchangeID: target.exchange,
				Confidence: ConfidenceHigh,
				Method:     MethodCatalog,
				Meta:       map[string]string{"alias": alias},
			}
		}
	}

	primary := ""
	if len(aliases) > 0 {
		primary = aliases[0]
	}

	// 2. Multi-venue listings.
	if listing, ok := r.ambiguous[primary]; ok && primary != "" {
		exchange := listing.Preferred
		for _, venue := range listing.Exchanges {
			if venue == hint {
				exchange = hint
				break
			}
		}
		return ResolvedAsset{
			Symbol:     primary,
			ExchangeID: exchange,
			Confidence: ConfidenceMedium,
			Method:     MethodAmbiguous,
			Meta:       map[string]string{"venues": strings.Join(listing.Exchanges, ",")},
		}
	}

	// 3. Forex pair: two recognized fiat codes back to back.
	if len(primary) == 6 {
		base, quote := primary[:3], primary[3:]
		if r.isFiat(base) && r.isFiat(quote) {
			return ResolvedAsset{
				Symbol:     primary,
				ExchangeID: forexExchange,
				Confidence: ConfidenceMedium,
				Method:     MethodForex,
				Meta:       map[string]string{"base": base, "quote": quote},
			}
		}
	}

	// 4. Crypto pair, with or without an explicit quote.
	if resolved, ok := r.resolveCrypto(primary); ok {
		return resolved
	}

	// 5. Fallback: best-effort symbol, caller's venue or the global bucket.
	symbol := primary
	if symbol == "" {
		symbol = unmappedSymbol
	}
	exchange := hint
	if exchange == "" {
		exchange = defaultExchange
	}
	return ResolvedAsset{
		Symbol:     symbol,
		ExchangeID: exchange,
		Confidence: ConfidenceLow,
		Method:     MethodFallback,
		Meta:       map[string]string{},
	}
}

func (r *Resolver) resolveCrypto(alias string) (ResolvedAsset, bool) {
	if alias == "" {
		return ResolvedAsset{}, false
	}
	for _, quote := range r.cryptoQuotes {
		base, found := strings.CutSuffix(alias, quote)
		if !found || base == "" {
			continue
		}
		if _, ok := r.cryptoBases[base]; ok {
			return ResolvedAsset{
				Symbol:     alias,
				ExchangeID: cryptoExchange,
				Confidence: ConfidenceMedium,
				Method:     MethodCrypto,
				Meta:       map[string]string{"base": base, "quote": quote},
			}, true
		}
	}
	if _, ok := r.cryptoBases[alias]; ok {
		// Bare base asset: synthesize the USD pair but flag the guess.
		return ResolvedAsset{
			Symbol:     alias + "USD",
			ExchangeID: cryptoExchange,
			Confidence: ConfidenceLow,
			Method:     MethodCrypto,
			Meta:       map[string]string{"base": alias, "quote": "USD", "synthesized": "true"},
		}, true
	}
	return ResolvedAsset{}, false
}

// candidateAliases builds the ordered, normalized alias list for a
// candidate. Duplicates are dropped, order preserved.
func (r *Resolver) candidateAliases(c Candidate, hint string) []string {
	raw := []string{}
	push := func(s string) {
		if strings.TrimSpace(s) != "" {
			raw = append(raw, s)
		}
	}

	push(c.Symbol)
	push(c.Ticker)
	if _, after, found := strings.Cut(c.Symbol, ":"); found {
		push(after)
	}
	if _, after, found := strings.Cut(c.Ticker, ":"); found {
		push(after)
	}
	if hint != "" && c.Symbol != "" {
		push(hint + ":" + c.Symbol)
	}
	push(c.Name)
	push(anchorToken(c.EconomicAnchor))

	seen := make(map[string]struct{}, len(raw))
	aliases := make([]string, 0, len(raw))
	for _, s := range raw {
		key := normalizeAlias(s)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		aliases = append(aliases, key)
	}
	return aliases
}

// normalizeHint uppercases a venue hint and collapses known vendor-specific
// spellings to canonical venue codes.
func (r *Resolver) normalizeHint(hint string) string {
	up := strings.ToUpper(strings.TrimSpace(hint))
	if up == "" {
		return ""
	}
	if canonical, ok := r.remap[up]; ok {
		return canonical
	}
	return up
}

func (r *Resolver) isFiat(code string) bool {
	_, ok := r.fiat[code]
	return ok
}

// normalizeAlias uppercases and strips every non-alphanumeric rune.
func normalizeAlias(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// anchorToken extracts the first run of 1 to 5 uppercase letters from a
// free-text economic anchor ("US CPI release" -> "US").
func anchorToken(anchor string) string {
	start := -1
	for i, r := range anchor {
		if r >= 'A' && r <= 'Z' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			run := anchor[start:i]
			if len(run) >= 1 && len(run) <= 5 {
				return run
			}
			start = -1
		}
	}
	if start != -1 {
		run := anchor[start:]
		if len(run) >= 1 && len(run) <= 5 {
			return run
		}
	}
	return ""
}
