// Package suilend integrates the Suilend lending market: a public reserve API
// tried first, with direct full-node object reads as the fallback.
package suilend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"yieldscan-api/pkg/suirpc"
	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/deeplink"
	"yieldscan-api/pkg/yields/internal/raw"
	"yieldscan-api/pkg/yields/token"
)

const defaultCallTimeout = 5 * time.Second

var defaultEndpoints = []string{
	"https://api.suilend.fi/reserves",
	"https://suilend.fi/api/reserves",
}

// Known mainnet reserve objects, used by the RPC fallback and the
// availability probe.
var reserveObjects = map[string]string{
	"SUI":  "0x84030d26d85eaa7035084a057f2f11f701b7e2e4eda87551becbc7c97505ece1",
	"USDC": "0xa02a98f9c88db51c6f5efaaf2261c81f34dd56a86073571eb25e12a6f0a90d66",
	"USDT": "0x9598a7efc96a25b4c6aacfa62728df1c5c8bef6c9c71f20b36b4b3e0d7b6e2e1",
	"wETH": "0x78ba1c21d7f8e9b3d9e8f7b1d8e9c3d7f8a9b1c2d3e4f5a6b7c8d9e0f1a2b3c4",
}

// Adapter is the Suilend native integration.
type Adapter struct {
	endpoints   []string
	httpClient  *http.Client
	rpc         *suirpc.Client
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

// WithRPC injects a custom Sui RPC client.
func WithRPC(client *suirpc.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.rpc = client
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

// New constructs a Suilend adapter.
func New(opts ...Option) *Adapter {
	adapter := &Adapter{
		endpoints:   defaultEndpoints,
		httpClient:  &http.Client{Timeout: defaultCallTimeout},
		rpc:         suirpc.NewClient(),
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Provider implements yields.Adapter.
func (a *Adapter) Provider() yields.Provider { return yields.ProviderSuilend }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return "Suilend" }

// Fetch tries the reserve API chain first and falls back to reading reserve
// objects over RPC. All failures surface as FetchError entries.
func (a *Adapter) Fetch(ctx context.Context) yields.FetchResult {
	var result yields.FetchResult

	records, err := a.fetchFromAPI(ctx)
	if err == nil && len(records) > 0 {
		result.Records = records
		return result
	}
	if err != nil {
		logx.WithContext(ctx).Infof("suilend: api fetch failed, trying rpc: %v", err)
	}

	records, err = a.fetchFromRPC(ctx)
	if err != nil {
		result.Errors = append(result.Errors, yields.NewFetchError(
			a.Name(), "native", fmt.Sprintf("Failed to fetch: %v", err), yields.SeverityCritical))
		return result
	}
	result.Records = records
	return result
}

// fetchFromAPI walks the endpoint chain and transforms the first parseable
// reserve list.
func (a *Adapter) fetchFromAPI(ctx context.Context) ([]yields.Record, error) {
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
			lastErr = fmt.Errorf("suilend: no reserves in payload from %s", endpoint)
			continue
		}
		return a.transformReserves(items), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("suilend: no endpoints configured")
	}
	return nil, lastErr
}

func (a *Adapter) transformReserves(items []map[string]interface{}) []yields.Record {
	records := make([]yields.Record, 0, len(items))
	now := time.Now()
	for i, reserve := range items {
		symbol := raw.Str(reserve, "symbol", "name")
		if symbol == "" {
			symbol = fmt.Sprintf("Reserve-%d", i)
		}
		cleanSymbol := token.Normalize(symbol)

		// Upstream reports rates as fractions; scale to percentages.
		depositAPY := raw.Num(reserve, "depositApy", "supplyApy", "apy") * 100
		rewardAPY := raw.Num(reserve, "rewardApy", "incentiveApy") * 100
		tvl := raw.Num(reserve, "totalSupply", "tvl", "deposited")

		record := yields.Record{
			ID:           "suilend-" + strings.ToLower(cleanSymbol),
			Provider:     yields.ProviderSuilend,
			ProviderName: a.Name(),
			Asset:        firstNonEmpty(raw.Str(reserve, "coinType"), symbol),
			Symbol:       cleanSymbol,
			Kind:         yields.KindLending,
			APY:          depositAPY + rewardAPY,
			APYBase:      depositAPY,
			TVLUSD:       &tvl,
			TVLDisplay:   yields.FormatTVL(tvl),
			Stablecoin:   token.IsStablecoin(cleanSymbol),
			ILRisk:       yields.ILRiskNo,
			PoolAddress:  raw.Str(reserve, "address", "id"),
			LastUpdated:  now,
			URL: deeplink.Resolve(deeplink.Params{
				Provider: yields.ProviderSuilend,
				Symbol:   cleanSymbol,
				Kind:     yields.KindLending,
			}),
		}
		if rewardAPY > 0 {
			record.APYReward = rewardAPY
			record.RewardTokens = []string{"BLUE"}
		}
		records = append(records, record)
	}
	return records
}

// fetchFromRPC reads known reserve objects directly from a full node.
func (a *Adapter) fetchFromRPC(ctx context.Context) ([]yields.Record, error) {
	records := make([]yields.Record, 0, len(reserveObjects))
	now := time.Now()
	var lastErr error
	for symbol, objectID := range reserveObjects {
		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		object, err := a.rpc.GetObject(callCtx, objectID)
		cancel()
		if err != nil {
			lastErr = err
			logx.WithContext(ctx).Infof("suilend: reserve %s rpc read failed: %v", symbol, err)
			continue
		}
		if object.Content == nil || object.Content.DataType != "moveObject" {
			continue
		}
		record, ok := a.reserveRecord(symbol, objectID, object.Content.Fields, now)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("suilend: rpc fallback: %w", lastErr)
		}
		return nil, fmt.Errorf("suilend: rpc fallback produced no reserves")
	}
	return records, nil
}

func (a *Adapter) reserveRecord(symbol, objectID string, fields map[string]interface{}, now time.Time) (yields.Record, bool) {
	if fields == nil {
		return yields.Record{}, false
	}
	totalDeposits := raw.Num(fields, "total_deposits", "available_amount")
	if totalDeposits <= 0 {
		return yields.Record{}, false
	}
	// Deposit APY needs the interest-rate model; the object read alone gives
	// size only, so the APY stays 0 ("unknown") rather than a guess.
	tvl := totalDeposits
	return yields.Record{
		ID:           "suilend-" + strings.ToLower(symbol),
		Provider:     yields.ProviderSuilend,
		ProviderName: a.Name(),
		Asset:        firstNonEmpty(raw.Str(fields, "coin_type"), symbol),
		Symbol:       symbol,
		Kind:         yields.KindLending,
		TVLUSD:       &tvl,
		TVLDisplay:   yields.FormatTVL(tvl),
		Stablecoin:   token.IsStablecoin(symbol),
		ILRisk:       yields.ILRiskNo,
		PoolAddress:  objectID,
		LastUpdated:  now,
		URL: deeplink.Resolve(deeplink.Params{
			Provider: yields.ProviderSuilend,
			Symbol:   symbol,
			Kind:     yields.KindLending,
		}),
	}, true
}

// Available probes the SUI reserve object. Advisory only.
func (a *Adapter) Available(ctx context.Context) bool {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	return a.rpc.ObjectExists(callCtx, reserveObjects["SUI"])
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
	yields.RegisterAdapter("suilend", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
		opts := []Option{}
		if len(cfg.Endpoints) > 0 {
			opts = append(opts, WithEndpoints(cfg.Endpoints...))
		}
		if cfg.RPCURL != "" {
			opts = append(opts, WithRPC(suirpc.NewClient(suirpc.WithBaseURL(cfg.RPCURL))))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithCallTimeout(cfg.HTTPTimeout),
				WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return New(opts...), nil
	})
}
