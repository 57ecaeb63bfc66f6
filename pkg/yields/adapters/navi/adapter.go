// Package navi integrates the NAVI lending market through its public
// reserve API.
package navi

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

const (
	defaultCallTimeout  = 5 * time.Second
	defaultProbeTimeout = 3 * time.Second
	probeURL            = "https://app.naviprotocol.io/"
)

var defaultEndpoints = []string{
	"https://api.naviprotocol.io/api/reserves",
	"https://app.naviprotocol.io/api/reserves",
}

// Adapter is the NAVI native integration.
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

// New constructs a NAVI adapter.
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
func (a *Adapter) Provider() yields.Provider { return yields.ProviderNavi }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return "NAVI" }

// Fetch walks the reserve API chain; a fully exhausted chain becomes one
// critical FetchError.
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
		items := raw.Items(payload, "reserves", "data")
		if len(items) == 0 {
			lastErr = fmt.Errorf("navi: no reserves in payload from %s", endpoint)
			continue
		}
		result.Records = a.transformReserves(items)
		return result
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("navi: no endpoints configured")
	}
	result.Errors = append(result.Errors, yields.NewFetchError(
		a.Name(), "native", fmt.Sprintf("Failed to fetch: %v", lastErr), yields.SeverityCritical))
	return result
}

func (a *Adapter) transformReserves(items []map[string]interface{}) []yields.Record {
	records := make([]yields.Record, 0, len(items))
	now := time.Now()
	for _, reserve := range items {
		symbol := token.Normalize(raw.Str(reserve, "symbol", "asset"))
		if symbol == "" {
			continue
		}
		supplyAPY := raw.Num(reserve, "supplyApy", "depositApy", "apy")
		rewardAPY := raw.Num(reserve, "rewardApy", "incentiveApy")
		tvl := raw.Num(reserve, "totalSupply", "tvl", "totalDeposits")

		record := yields.Record{
			ID:           "navi-" + strings.ToLower(symbol),
			Provider:     yields.ProviderNavi,
			ProviderName: yields.ProviderNavi.DisplayName(),
			Asset:        firstNonEmpty(raw.Str(reserve, "coinType"), symbol),
			Symbol:       symbol,
			Kind:         yields.KindLending,
			APY:          supplyAPY + rewardAPY,
			APYBase:      supplyAPY,
			TVLUSD:       &tvl,
			TVLDisplay:   yields.FormatTVL(tvl),
			Stablecoin:   token.IsStablecoin(symbol),
			ILRisk:       yields.ILRiskNo,
			PoolAddress:  raw.Str(reserve, "address", "id"),
			LastUpdated:  now,
			URL: deeplink.Resolve(deeplink.Params{
				Provider: yields.ProviderNavi,
				Symbol:   symbol,
				Kind:     yields.KindLending,
			}),
		}
		if rewardAPY > 0 {
			record.APYReward = rewardAPY
			record.RewardTokens = []string{"NAVX"}
		}
		records = append(records, record)
	}
	return records
}

// Available issues a HEAD probe against the app homepage. Advisory only.
func (a *Adapter) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
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
	yields.RegisterAdapter("navi", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
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
