// Package turbos integrates the Turbos Finance CLMM DEX.
package turbos

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/deeplink"
	"yieldscan-api/pkg/yields/internal/raw"
	"yieldscan-api/pkg/yields/token"
)

const defaultCallTimeout = 8 * time.Second

var defaultEndpoints = []string{
	"https://api.turbos.finance/pools",
	"https://app.turbos.finance/api/pools",
}

// Adapter is the Turbos native integration.
type Adapter struct {
	endpoints   []string
	httpClient  *http.Client
	callTimeout time.Duration
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

// New constructs a Turbos adapter.
func New(opts ...Option) *Adapter {
	adapter := &Adapter{
		endpoints:   defaultEndpoints,
		httpClient:  &http.Client{Timeout: defaultCallTimeout},
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Provider implements yields.Adapter.
func (a *Adapter) Provider() yields.Provider { return yields.ProviderTurbos }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return "Turbos" }

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
		items := raw.Items(payload, "pools", "data", "list")
		if len(items) == 0 {
			lastErr = fmt.Errorf("turbos: no pools in payload from %s", endpoint)
			continue
		}
		result.Records = a.transformPools(items)
		return result
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("turbos: no endpoints configured")
	}
	result.Errors = append(result.Errors, yields.NewFetchError(
		a.Name(), "native", fmt.Sprintf("Failed to fetch: %v", lastErr), yields.SeverityCritical))
	return result
}

func (a *Adapter) transformPools(items []map[string]interface{}) []yields.Record {
	records := make([]yields.Record, 0, len(items))
	now := time.Now()
	for _, pool := range items {
		symbolA := token.Normalize(raw.Str(pool, "coin_symbol_a", "coinA", "symbolA"))
		symbolB := token.Normalize(raw.Str(pool, "coin_symbol_b", "coinB", "symbolB"))
		symbol := raw.Str(pool, "symbol")
		if symbol == "" {
			symbol = token.JoinPair(symbolA, symbolB)
		}
		if symbol == "" {
			continue
		}
		tvl := raw.Num(pool, "tvl", "tvl_usd", "liquidity_usd")
		if tvl <= 0 {
			continue
		}
		feeAPY := raw.Num(pool, "apr", "fee_apr")
		if feeAPY > 0 && feeAPY < 1.0 {
			feeAPY *= 100
		}
		rewardAPY := raw.Num(pool, "reward_apr", "farm_apr")
		if rewardAPY > 0 && rewardAPY < 1.0 {
			rewardAPY *= 100
		}
		poolID := raw.Str(pool, "pool_id", "id", "address")

		record := yields.Record{
			ID:           "turbos-" + strings.ToLower(strings.ReplaceAll(symbol, "/", "-")),
			Provider:     yields.ProviderTurbos,
			ProviderName: yields.ProviderTurbos.DisplayName(),
			Asset:        symbol,
			Symbol:       symbol,
			Kind:         yields.KindLP,
			APY:          feeAPY + rewardAPY,
			APYBase:      feeAPY,
			TVLUSD:       &tvl,
			TVLDisplay:   yields.FormatTVL(tvl),
			Stablecoin:   token.IsStablecoin(symbolA) && token.IsStablecoin(symbolB),
			ILRisk:       yields.ILRiskYes,
			PoolID:       poolID,
			LastUpdated:  now,
			URL: deeplink.Resolve(deeplink.Params{
				Provider: yields.ProviderTurbos,
				Symbol:   symbol,
				Kind:     yields.KindLP,
				PoolID:   poolID,
			}),
		}
		if symbolA != "" && symbolB != "" {
			record.UnderlyingAssets = []string{symbolA, symbolB}
			if token.IsStablecoin(symbolA) && token.IsStablecoin(symbolB) {
				record.ILRisk = yields.ILRiskNo
			}
		}
		if rewardAPY > 0 {
			record.APYReward = rewardAPY
			record.RewardTokens = []string{"TURBOS"}
		}
		records = append(records, record)
	}
	return records
}

func init() {
	yields.RegisterAdapter("turbos", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
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
