// Package scallop integrates the Scallop lending market.
package scallop

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

const defaultCallTimeout = 5 * time.Second

var defaultEndpoints = []string{
	"https://api.scallop.io/api/market",
	"https://app.scallop.io/api/markets",
}

// Adapter is the Scallop native integration.
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

// New constructs a Scallop adapter.
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
func (a *Adapter) Provider() yields.Provider { return yields.ProviderScallop }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return "Scallop" }

// Fetch walks the market API chain.
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
		items := raw.Items(payload, "pools", "markets", "data.pools")
		if len(items) == 0 {
			lastErr = fmt.Errorf("scallop: no pools in payload from %s", endpoint)
			continue
		}
		result.Records = a.transformPools(items)
		return result
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("scallop: no endpoints configured")
	}
	result.Errors = append(result.Errors, yields.NewFetchError(
		a.Name(), "native", fmt.Sprintf("Failed to fetch: %v", lastErr), yields.SeverityCritical))
	return result
}

func (a *Adapter) transformPools(items []map[string]interface{}) []yields.Record {
	records := make([]yields.Record, 0, len(items))
	now := time.Now()
	for _, pool := range items {
		symbol := token.Normalize(raw.Str(pool, "symbol", "coinName", "coinType"))
		if symbol == "" {
			continue
		}
		supplyAPY := raw.Num(pool, "supplyApy", "supplyApr")
		if supplyAPY > 0 && supplyAPY < 1.0 {
			supplyAPY *= 100
		}
		rewardAPY := raw.Num(pool, "rewardApy", "incentiveApy")
		if rewardAPY > 0 && rewardAPY < 1.0 {
			rewardAPY *= 100
		}
		tvl := raw.Num(pool, "coinTvl", "tvl", "supplyCoin")

		record := yields.Record{
			ID:           "scallop-" + strings.ToLower(symbol),
			Provider:     yields.ProviderScallop,
			ProviderName: yields.ProviderScallop.DisplayName(),
			Asset:        firstNonEmpty(raw.Str(pool, "coinType"), symbol),
			Symbol:       symbol,
			Kind:         yields.KindLending,
			APY:          supplyAPY + rewardAPY,
			APYBase:      supplyAPY,
			TVLUSD:       &tvl,
			TVLDisplay:   yields.FormatTVL(tvl),
			Stablecoin:   token.IsStablecoin(symbol),
			ILRisk:       yields.ILRiskNo,
			LastUpdated:  now,
			URL: deeplink.Resolve(deeplink.Params{
				Provider: yields.ProviderScallop,
				Symbol:   symbol,
				Kind:     yields.KindLending,
			}),
		}
		if rewardAPY > 0 {
			record.APYReward = rewardAPY
			record.RewardTokens = []string{"SCA"}
		}
		records = append(records, record)
	}
	return records
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	yields.RegisterAdapter("scallop", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
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
