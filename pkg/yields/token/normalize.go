// Package token maps opaque Sui coin types to display symbols and splits
// LP pair tickers into their constituents. Every function here is pure and
// total: any string in, some string out, no panics.
package token

import (
	"strings"
)

// displaySymbols is the set of canonical outputs of the lookup tables. A
// string already in this set is returned untouched, which keeps Normalize
// idempotent for mixed-case symbols like "vSUI" and "wUSDC".
var displaySymbols = func() map[string]bool {
	set := make(map[string]bool, len(coinTypeSymbols)+len(rewardSymbols))
	for _, sym := range coinTypeSymbols {
		set[sym] = true
	}
	for _, sym := range rewardSymbols {
		set[sym] = true
	}
	return set
}()

// Normalize converts a raw asset identifier into a display symbol.
//
// Resolution order: exact coin-type table match; identifiers without a "::"
// namespace separator are treated as symbols and cleaned up; namespaced
// identifiers contribute their last segment; anything else falls back to a
// truncated form of the raw address so the result is never lost entirely.
func Normalize(identifier string) string {
	if sym, ok := coinTypeSymbols[identifier]; ok {
		return sym
	}
	if displaySymbols[identifier] {
		return identifier
	}

	if !strings.Contains(identifier, "::") {
		if cleaned := cleanSymbol(identifier); cleaned != "" {
			return cleaned
		}
		return identifier
	}

	parts := strings.Split(identifier, "::")
	if len(parts) >= 3 {
		if cleaned := cleanSymbol(parts[len(parts)-1]); cleaned != "" {
			return cleaned
		}
	}

	// Unrecognized address shape: keep the tail so the caller still has
	// something stable to show.
	if strings.HasPrefix(identifier, "0x") && len(identifier) > 10 {
		return strings.ToUpper(identifier[len(identifier)-6:])
	}
	return identifier
}

var symbolSuffixes = []string{"_LP", "-TOKEN", "_TOKEN", "BLT"}

// cleanSymbol strips protocol suffixes and the wrapped-asset prefix, then
// uppercases. Suffixes are stripped repeatedly so the result is a fixed point.
func cleanSymbol(symbol string) string {
	s := symbol
	for {
		trimmed := s
		for _, suffix := range symbolSuffixes {
			if len(trimmed) > len(suffix) && strings.EqualFold(trimmed[len(trimmed)-len(suffix):], suffix) {
				trimmed = trimmed[:len(trimmed)-len(suffix)]
			}
		}
		if trimmed == s {
			break
		}
		s = trimmed
	}
	// Wrapped-asset display prefix, lowercase only ("wUSDC" → "USDC").
	if len(s) > 1 && s[0] == 'w' {
		s = s[1:]
	}
	return strings.ToUpper(s)
}

// Pair holds the two sides of an LP symbol, each individually normalized.
type Pair struct {
	First  string
	Second string
}

var pairSeparators = []string{"-", "/", "_"}

// JoinPair renders a two-sided pool ticker, tolerating a missing side.
// Pairs are joined with "-", the spelling aggregator indexes use.
func JoinPair(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + "-" + second
	}
}

// SplitPair breaks a composite LP ticker ("SUI-USDC", "SUI/USDC", "SUI_USDC")
// into its two constituents. Returns nil when no separator is present.
func SplitPair(symbol string) *Pair {
	for _, sep := range pairSeparators {
		if !strings.Contains(symbol, sep) {
			continue
		}
		parts := strings.Split(symbol, sep)
		if len(parts) < 2 {
			continue
		}
		return &Pair{
			First:  Normalize(strings.TrimSpace(parts[0])),
			Second: Normalize(strings.TrimSpace(parts[1])),
		}
	}
	return nil
}

// RewardSymbol resolves a raw reward-token identifier to a display symbol,
// or "" when nothing recognizable comes out.
func RewardSymbol(identifier string) string {
	if identifier == "" {
		return ""
	}
	if sym, ok := rewardSymbols[identifier]; ok {
		return sym
	}
	if formatted := Normalize(identifier); formatted != identifier {
		return formatted
	}
	return ""
}

// SameUnderlying reports whether two identifiers refer to the same underlying
// asset, treating a wrapped token and its native counterpart as equivalent.
func SameUnderlying(a, b string) bool {
	symA := Normalize(a)
	symB := Normalize(b)
	if symA == symB {
		return true
	}
	return stripWrapped(symA) == stripWrapped(symB)
}

func stripWrapped(symbol string) string {
	if len(symbol) > 1 && (symbol[0] == 'w' || symbol[0] == 'W') {
		return symbol[1:]
	}
	return symbol
}

// SymbolContainsAsset reports whether a (possibly composite) yield symbol
// includes the given asset, e.g. "SUI-USDC" contains "SUI".
func SymbolContainsAsset(yieldSymbol, asset string) bool {
	normalizedYield := strings.ToUpper(yieldSymbol)
	normalizedAsset := strings.ToUpper(asset)
	if normalizedYield == normalizedAsset {
		return true
	}
	for _, part := range strings.FieldsFunc(normalizedYield, func(r rune) bool {
		return r == '-' || r == '/'
	}) {
		if strings.TrimSpace(part) == normalizedAsset {
			return true
		}
	}
	return false
}
