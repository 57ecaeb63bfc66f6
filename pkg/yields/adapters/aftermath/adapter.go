// Package aftermath integrates Aftermath Finance liquid staking.
//
// The staking APY endpoint returns a single decimal fraction. When it is
// unreachable the adapter publishes a conservative estimate row instead of
// nothing, tagged with a warning so the caller can surface the degraded
// quality.
package aftermath

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/deeplink"
	"yieldscan-api/pkg/yields/internal/raw"
)

const (
	defaultCallTimeout = 5 * time.Second
	estimateAPY        = 3.5
)

var defaultEndpoints = []string{
	"https://aftermath.finance/api/staking/apy",
}

// Adapter is the Aftermath liquid-staking integration.
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

// New constructs an Aftermath adapter.
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
func (a *Adapter) Provider() yields.Provider { return yields.ProviderAftermath }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return "Aftermath" }

// Fetch reads the staking APY, falling back to an estimate row.
func (a *Adapter) Fetch(ctx context.Context) yields.FetchResult {
	var result yields.FetchResult

	apy, err := a.fetchAPY(ctx)
	if err != nil {
		apy = estimateAPY
		result.Errors = append(result.Errors, yields.NewFetchError(
			a.Name(), "native",
			fmt.Sprintf("Using estimate, live rate unavailable: %v", err),
			yields.SeverityWarning))
	}
	result.Records = []yields.Record{a.record(apy)}
	return result
}

func (a *Adapter) fetchAPY(ctx context.Context) (float64, error) {
	var lastErr error
	for _, endpoint := range a.endpoints {
		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		body, err := raw.Get(callCtx, a.httpClient, endpoint)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		apy, err := parseAPY(body)
		if err != nil {
			lastErr = err
			continue
		}
		return apy, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("aftermath: no endpoints configured")
	}
	return 0, lastErr
}

// parseAPY accepts either a bare JSON number or an {"apy": n} object, both
// expressed as a fraction of one.
func parseAPY(body []byte) (float64, error) {
	var direct float64
	if err := json.Unmarshal(body, &direct); err == nil {
		return scaleAPY(direct), nil
	}
	var wrapped map[string]interface{}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return 0, fmt.Errorf("aftermath: unexpected apy payload: %w", err)
	}
	apy := raw.Num(wrapped, "apy", "stakingApy", "value")
	if apy == 0 {
		return 0, fmt.Errorf("aftermath: apy missing from payload")
	}
	return scaleAPY(apy), nil
}

func scaleAPY(apy float64) float64 {
	if apy > 0 && apy < 1.0 {
		return apy * 100
	}
	return apy
}

func (a *Adapter) record(apy float64) yields.Record {
	return yields.Record{
		ID:           "aftermath-afsui",
		Provider:     yields.ProviderAftermath,
		ProviderName: yields.ProviderAftermath.DisplayName(),
		Asset:        "afSUI",
		Symbol:       "afSUI",
		Kind:         yields.KindLST,
		APY:          apy,
		APYBase:      apy,
		Stablecoin:   false,
		ILRisk:       yields.ILRiskNo,
		LastUpdated:  time.Now(),
		URL: deeplink.Resolve(deeplink.Params{
			Provider: yields.ProviderAftermath,
			Symbol:   "afSUI",
			Kind:     yields.KindLST,
		}),
	}
}

func init() {
	yields.RegisterAdapter("aftermath", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
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
