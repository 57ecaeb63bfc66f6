package defillama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/deeplink"
)

// projectProviders maps yields-index project slugs to canonical providers.
// Unlisted projects collapse to ProviderOther.
var projectProviders = map[string]yields.Provider{
	// Lending.
	"navi-lending": yields.ProviderNavi,
	"scallop-lend": yields.ProviderScallop,
	"suilend":      yields.ProviderSuilend,
	// DEXes / CLMMs.
	"cetus-clmm":   yields.ProviderCetus,
	"turbos":       yields.ProviderTurbos,
	"bluefin-spot": yields.ProviderBluefin,
	"flowx-v2":     yields.ProviderFlowX,
	"flowx-v3":     yields.ProviderFlowX,
	"kriya-dex":    yields.ProviderKriya,
	"kriya-clmm":   yields.ProviderKriya,
	"momentum":     yields.ProviderMomentum,
	"full-sail":    yields.ProviderFullSail,
	// Yield / farm.
	"kai-finance": yields.ProviderKai,
	"bucket-farm": yields.ProviderBucket,
	// Liquid staking.
	"aftermath-finance": yields.ProviderAftermath,
	"aftermath-afsui":   yields.ProviderAftermath,
	"haedal-protocol":   yields.ProviderHaedal,
	"springsui":         yields.ProviderSpringSui,
	"volo":              yields.ProviderVolo,
	// Order book.
	"deepbook": yields.ProviderDeepBook,
}

// ProviderForProject resolves a project slug to its canonical provider.
func ProviderForProject(project string) yields.Provider {
	if provider, ok := projectProviders[project]; ok {
		return provider
	}
	return yields.ProviderOther
}

// kindFor classifies an index entry by symbol shape and project slug.
func kindFor(pool Pool) yields.Kind {
	symbol := strings.ToUpper(pool.Symbol)
	switch {
	case strings.Contains(symbol, "SSUI"), strings.Contains(symbol, "AFSUI"),
		strings.Contains(symbol, "HASUI"), strings.Contains(symbol, "VSUI"):
		return yields.KindLST
	case strings.Contains(symbol, "-"), strings.Contains(symbol, "/"):
		return yields.KindLP
	}

	project := pool.Project
	switch {
	case strings.Contains(project, "lend"), strings.Contains(project, "navi"):
		return yields.KindLending
	case strings.Contains(project, "clmm"), strings.Contains(project, "spot"),
		strings.Contains(project, "dex"):
		return yields.KindLP
	case strings.Contains(project, "farm"):
		return yields.KindFarm
	case strings.Contains(project, "finance"), strings.Contains(project, "kai"):
		return yields.KindVault
	}
	return yields.KindLending
}

// ToRecord maps one index entry into the canonical record shape.
func ToRecord(pool Pool) yields.Record {
	provider := ProviderForProject(pool.Project)
	kind := kindFor(pool)

	asset := pool.Symbol
	if len(pool.UnderlyingTokens) > 0 {
		asset = pool.UnderlyingTokens[0]
	}

	ilRisk := yields.ILRiskNo
	if pool.ILRisk == "yes" {
		ilRisk = yields.ILRiskYes
	}

	apy := 0.0
	if pool.APY != nil {
		apy = *pool.APY
	}
	apyBase := 0.0
	if pool.APYBase != nil {
		apyBase = *pool.APYBase
	}
	apyReward := 0.0
	if pool.APYReward != nil {
		apyReward = *pool.APYReward
	}

	tvl := pool.TVLUSD
	url := deeplink.ForAsset(provider, pool.Symbol, "", pool.Pool, pool.UnderlyingTokens)
	if url == "" {
		url = pool.URL
	}

	return yields.Record{
		ID:               "defillama-" + pool.Pool,
		Provider:         provider,
		ProviderName:     provider.DisplayName(),
		Asset:            asset,
		Symbol:           pool.Symbol,
		Kind:             kind,
		APY:              apy,
		APYBase:          apyBase,
		APYReward:        apyReward,
		TVLUSD:           &tvl,
		TVLDisplay:       yields.FormatTVL(tvl),
		Stablecoin:       pool.Stablecoin,
		ILRisk:           ilRisk,
		PoolID:           pool.Pool,
		UnderlyingAssets: pool.UnderlyingTokens,
		RewardTokens:     pool.RewardTokens,
		LastUpdated:      time.Now(),
		URL:              url,
	}
}

// Records fetches the chain-filtered index and maps it to canonical records.
func (c *Client) Records(ctx context.Context, chain string) ([]yields.Record, error) {
	pools, err := c.Pools(ctx, chain)
	if err != nil {
		return nil, err
	}
	records := make([]yields.Record, 0, len(pools))
	for _, pool := range pools {
		records = append(records, ToRecord(pool))
	}
	return records, nil
}

// Source adapts the client to the aggregation engine's fallback contract,
// reporting a failed fetch as one critical error instead of aborting the run.
func (c *Client) Source(chain string) yields.FallbackFunc {
	return func(ctx context.Context) ([]yields.Record, []yields.FetchError) {
		records, err := c.Records(ctx, chain)
		if err != nil {
			return nil, []yields.FetchError{yields.NewFetchError(
				"DefiLlama", "fallback",
				fmt.Sprintf("Failed to fetch yields index: %v", err),
				yields.SeverityCritical)}
		}
		return records, nil
	}
}
