// Package cetus integrates the Cetus concentrated-liquidity DEX.
//
// The pool listing is large; only the top pools by TVL are kept so a
// single provider cannot drown out the merged result set.
package cetus

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/deeplink"
	"yieldscan-api/pkg/yields/internal/raw"
	"yieldscan-api/pkg/yields/token"
)

const (
	defaultCallTimeout = 8 * time.Second
	maxPools           = 50
)

var defaultEndpoints = []string{
	"https://api-sui.cetus.zone/v2/sui/swap/count/v3/pools_info",
	"https://api-sui.cetus.zone/v2/sui/pools",
}

// Adapter is the Cetus native integration.
type Adapter struct {
	endpoints   []string
	httpClient  *http.Client
	callTimeout time.Duration
	limit       int
}

// Option configures the adapter.
type Option func(*Adapter)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *Adapter) {
		if hc != nil {
			a.httpClient = hc
		}
	}
}

// WithEndpoints replaces the API candidate chain.
func WithEndpoints(endpoints ...string) Option {
	return func(a *Adapter) {
		if len(endpoints) > 0 {
			a.endpoints = endpoints
		}
	}
}

// WithCallTimeout overrides the per-endpoint timeout.
func WithCallTimeout(timeout time.Duration) Option {
	return func(a *Adapter) {
		if timeout > 0 {
			a.callTimeout = timeout
		}
	}
}

// WithLimit caps how many pools survive the TVL cut.
func WithLimit(limit int) Option {
	return func(a *Adapter) {
		if limit > 0 {
			a.limit = limit
		}
	}
}

// New constructs a Cetus adapter.
func New(opts ...Option) *Adapter {
	adapter := &Adapter{
		endpoints:   defaultEndpoints,
		httpClient:  &http.Client{Timeout: defaultCallTimeout},
		callTimeout: defaultCallTimeout,
		limit:       maxPools,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Provider implements yields.Adapter.
func (a *Adapter) Provider() yields.Provider { return yields.ProviderCetus }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return "Cetus" }

// Fetch walks the pool API chain.
func (a *Adapter) Fetch(ctx context.Context) yields.FetchResult {
	var result yields.FetchResult

	var lastErr error
	for _, endpoint := range a.endpoints {
		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		payload, err := raw.GetJSON(callCtx, a.httpClient, endpoint)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		items := raw.Items(payload, "data.lp_list", "data.pools", "pools")
		if len(items) == 0 {
			lastErr = fmt.Errorf("cetus: no pools in payload from %s", endpoint)
			continue
		}
		result.Records = a.transformPools(items)
		return result
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("cetus: no endpoints configured")
	}
	result.Errors = append(result.Errors, yields.NewFetchError(
		a.Name(), "native", fmt.Sprintf("Failed to fetch: %v", lastErr), yields.SeverityCritical))
	return result
}

func (a *Adapter) transformPools(items []map[string]interface{}) []yields.Record {
	records := make([]yields.Record, 0, len(items))
	now := time.Now()
	for _, pool := range items {
		symbolA := token.Normalize(raw.Str(pool, "coin_a_symbol", "symbolA", "coinA"))
		symbolB := token.Normalize(raw.Str(pool, "coin_b_symbol", "symbolB", "coinB"))
		symbol := raw.Str(pool, "symbol", "name")
		if symbol == "" {
			symbol = token.JoinPair(symbolA, symbolB)
		}
		if symbol == "" {
			continue
		}
		tvl := raw.Num(pool, "tvl_in_usd", "tvl", "pure_tvl_in_usd")
		if tvl <= 0 {
			continue
		}
		feeAPY := raw.Num(pool, "apr", "fee_apr", "total_apr")
		if feeAPY > 0 && feeAPY < 1.0 {
			feeAPY *= 100
		}
		rewardAPY := raw.Num(pool, "rewarder_apr", "reward_apr")
		if rewardAPY > 0 && rewardAPY < 1.0 {
			rewardAPY *= 100
		}
		poolAddress := raw.Str(pool, "address", "pool_address", "swap_account")

		record := yields.Record{
			ID:           "cetus-" + strings.ToLower(strings.ReplaceAll(symbol, "/", "-")),
			Provider:     yields.ProviderCetus,
			ProviderName: yields.ProviderCetus.DisplayName(),
			Asset:        symbol,
			Symbol:       symbol,
			Kind:         yields.KindLP,
			APY:          feeAPY + rewardAPY,
			APYBase:      feeAPY,
			TVLUSD:       &tvl,
			TVLDisplay:   yields.FormatTVL(tvl),
			Stablecoin:   token.IsStablecoin(symbolA) && token.IsStablecoin(symbolB),
			ILRisk:       lpILRisk(symbolA, symbolB),
			PoolAddress:  poolAddress,
			LastUpdated:  now,
			URL: deeplink.Resolve(deeplink.Params{
				Provider:    yields.ProviderCetus,
				Symbol:      symbol,
				Kind:        yields.KindLP,
				PoolAddress: poolAddress,
			}),
		}
		if symbolA != "" && symbolB != "" {
			record.UnderlyingAssets = []string{symbolA, symbolB}
		}
		if rewardAPY > 0 {
			record.APYReward = rewardAPY
			record.RewardTokens = []string{"CETUS"}
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TVL() > records[j].TVL()
	})
	if len(records) > a.limit {
		records = records[:a.limit]
	}
	return records
}

// lpILRisk marks stable/stable pairs safe and everything else exposed.
func lpILRisk(symbolA, symbolB string) yields.ILRisk {
	if symbolA == "" || symbolB == "" {
		return yields.ILRiskUnknown
	}
	if token.IsStablecoin(symbolA) && token.IsStablecoin(symbolB) {
		return yields.ILRiskNo
	}
	if token.SameUnderlying(symbolA, symbolB) {
		return yields.ILRiskNo
	}
	return yields.ILRiskYes
}

func init() {
	yields.RegisterAdapter("cetus", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
		opts := []Option{}
		if len(cfg.Endpoints) > 0 {
			opts = append(opts, WithEndpoints(cfg.Endpoints...))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithCallTimeout(cfg.HTTPTimeout),
				WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return New(opts...), nil
	})
}
