package yields

import "strings"

// Filter narrows a record set. Zero values mean "no constraint".
type Filter struct {
	Providers   []Provider
	Kinds       []Kind
	Asset       string
	StablesOnly bool
	MinAPY      float64
	MinTVLUSD   float64
}

// Apply returns the records passing every set constraint, preserving input
// order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.matches(&r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) matches(r *Record) bool {
	if len(f.Providers) > 0 && !containsProvider(f.Providers, r.Provider) {
		return false
	}
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, r.Kind) {
		return false
	}
	if f.Asset != "" && !symbolContains(r, f.Asset) {
		return false
	}
	if f.StablesOnly && !r.Stablecoin {
		return false
	}
	if f.MinAPY > 0 && r.APY < f.MinAPY {
		return false
	}
	if f.MinTVLUSD > 0 && r.TVL() < f.MinTVLUSD {
		return false
	}
	return true
}

func containsProvider(set []Provider, p Provider) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}

func containsKind(set []Kind, k Kind) bool {
	for _, candidate := range set {
		if candidate == k {
			return true
		}
	}
	return false
}

// symbolContains matches the asset against both the headline symbol and,
// for pools, each underlying leg.
func symbolContains(r *Record, asset string) bool {
	needle := strings.ToUpper(strings.TrimSpace(asset))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToUpper(r.Symbol), needle) {
		return true
	}
	for _, leg := range r.UnderlyingAssets {
		if strings.EqualFold(leg, needle) {
			return true
		}
	}
	return false
}

// GroupByProvider buckets records by provider, preserving record order
// within each bucket.
func GroupByProvider(records []Record) map[Provider][]Record {
	groups := make(map[Provider][]Record)
	for _, r := range records {
		groups[r.Provider] = append(groups[r.Provider], r)
	}
	return groups
}

// Top returns the first n records, or everything when n exceeds the set.
func Top(records []Record, n int) []Record {
	if n <= 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	return records[:n]
}

// PotentialEarnings projects yearly, monthly, and daily earnings for a
// principal at the record's APY. APY 0 means unknown and projects to zeros.
func PotentialEarnings(r *Record, principalUSD float64) (yearly, monthly, daily float64) {
	yearly = principalUSD * r.APY / 100
	monthly = yearly / 12
	daily = yearly / 365
	return yearly, monthly, daily
}
