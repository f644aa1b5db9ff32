package domain

import "strings"

// Quote assets stripped from exchange pair symbols, longest first so BTCUSDT
// resolves to BTC rather than BTCUSD+T.
var quoteSuffixes = []string{"USDT", "USDC", "BUSD", "TUSD", "USD", "EUR"}

// NormalizeSymbol upper-cases and trims an asset ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// BaseSymbol derives the base asset from an exchange pair symbol by stripping
// a known quote-currency suffix: "BTCUSDT" -> "BTC". Symbols without a known
// suffix are returned normalized but otherwise unchanged.
func BaseSymbol(pair string) string {
	p := NormalizeSymbol(pair)
	for _, q := range quoteSuffixes {
		if len(p) > len(q) && strings.HasSuffix(p, q) {
			return p[:len(p)-len(q)]
		}
	}
	return p
}
