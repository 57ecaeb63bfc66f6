// Package deeplink builds user-facing URLs that land directly on the pool or
// market a yield record describes, falling back to progressively less specific
// pages when identifiers are missing.
package deeplink

import (
	"fmt"
	"strings"

	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/token"
)

// Params carries everything a provider might need to build a specific link.
// Only Provider and Symbol are required; the rest degrade gracefully.
type Params struct {
	Provider         yields.Provider
	Symbol           string
	Kind             yields.Kind
	PoolAddress      string
	PoolID           string
	UnderlyingAssets []string
}

// Resolve maps a record to its most specific available URL. Pure and total:
// unknown providers yield "", nothing panics, and within each provider the
// preference order is pool address/id, then swap pair, then category page,
// then homepage.
func Resolve(p Params) string {
	cleanSymbol := token.Normalize(p.Symbol)
	pair := token.SplitPair(p.Symbol)

	switch p.Provider {
	// Lending markets.
	case yields.ProviderSuilend:
		return fmt.Sprintf("https://suilend.fi/dashboard?asset=%s", cleanSymbol)
	case yields.ProviderNavi:
		return "https://app.naviprotocol.io/"
	case yields.ProviderScallop:
		return "https://app.scallop.io/"

	// CLMM DEXes.
	case yields.ProviderCetus:
		if p.PoolAddress != "" {
			return fmt.Sprintf("https://app.cetus.zone/liquidity/deposit?poolAddress=%s", p.PoolAddress)
		}
		if pair != nil {
			return fmt.Sprintf("https://app.cetus.zone/swap?from=%s&to=%s", pair.First, pair.Second)
		}
		return "https://app.cetus.zone/liquidity"
	case yields.ProviderTurbos:
		if p.PoolID != "" {
			// Aggregator-assigned IDs carry a source prefix the Turbos UI
			// does not understand.
			return fmt.Sprintf("https://app.turbos.finance/fun/%s", strings.TrimPrefix(p.PoolID, "defillama-"))
		}
		if p.PoolAddress != "" {
			return fmt.Sprintf("https://app.turbos.finance/fun/%s", p.PoolAddress)
		}
		return "https://app.turbos.finance/#/pools"
	case yields.ProviderBluefin:
		if pair != nil {
			return fmt.Sprintf("https://trade.bluefin.io/swap/%s_%s", pair.First, pair.Second)
		}
		return "https://trade.bluefin.io/swap"

	// AMM DEXes.
	case yields.ProviderFlowX:
		if pair != nil && len(p.UnderlyingAssets) >= 2 {
			return fmt.Sprintf("https://flowx.finance/liquidity/add?token0=%s&token1=%s",
				p.UnderlyingAssets[0], p.UnderlyingAssets[1])
		}
		return "https://flowx.finance/liquidity"
	case yields.ProviderKriya:
		if p.Kind == yields.KindLP {
			return "https://app.kriya.finance/earn"
		}
		return "https://app.kriya.finance/spot/swap"
	case yields.ProviderMomentum:
		return "https://app.mmt.finance/liquidity"
	case yields.ProviderFullSail:
		return "https://fullsail.finance/liquidity"

	// Liquid staking.
	case yields.ProviderAftermath:
		return "https://aftermath.finance/stake"
	case yields.ProviderHaedal:
		return "https://haedal.xyz/stake"
	case yields.ProviderSpringSui:
		return "https://www.springsui.com/"
	case yields.ProviderVolo:
		return "https://stake.volo.fi/"

	// Yield / vault.
	case yields.ProviderKai:
		return "https://kai.finance/vaults"
	case yields.ProviderBucket:
		return "https://app.bucketprotocol.io/tank"

	// Order book; no per-market UI.
	case yields.ProviderDeepBook:
		return "https://deepbook.tech"

	default:
		return ""
	}
}

// ForAsset builds the best link for a bare (provider, symbol) pair, guessing
// the record kind from the symbol shape.
func ForAsset(provider yields.Provider, symbol, poolAddress, poolID string, underlying []string) string {
	kind := yields.KindLending
	if strings.ContainsAny(symbol, "-/") {
		kind = yields.KindLP
	}
	return Resolve(Params{
		Provider:         provider,
		Symbol:           symbol,
		Kind:             kind,
		PoolAddress:      poolAddress,
		PoolID:           poolID,
		UnderlyingAssets: underlying,
	})
}

// The aggregation engine backfills missing record URLs through this hook so
// the core package does not import the link table directly.
func init() {
	yields.LinkResolver = func(r *yields.Record) string {
		return Resolve(Params{
			Provider:         r.Provider,
			Symbol:           r.Symbol,
			Kind:             r.Kind,
			PoolAddress:      r.PoolAddress,
			PoolID:           r.PoolID,
			UnderlyingAssets: r.UnderlyingAssets,
		})
	}
}

// SupportsAssetLinks reports whether a provider has asset-specific deep links
// rather than a single landing page.
func SupportsAssetLinks(provider yields.Provider) bool {
	switch provider {
	case yields.ProviderSuilend, yields.ProviderCetus, yields.ProviderTurbos,
		yields.ProviderFlowX, yields.ProviderBluefin:
		return true
	default:
		return false
	}
}
