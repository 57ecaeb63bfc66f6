// Package lst provides a shared adapter for the single-token liquid
// staking providers. Haedal, SpringSui, and Volo all expose one staking
// rate behind slightly different endpoints, so one parameterised adapter
// covers the three of them.
package lst

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yieldscan-api/pkg/yields"
	"yieldscan-api/pkg/yields/deeplink"
	"yieldscan-api/pkg/yields/internal/raw"
)

const (
	defaultCallTimeout = 5 * time.Second
	estimateAPY        = 3.5
)

// Profile describes one liquid-staking provider.
type Profile struct {
	Provider  yields.Provider
	Name      string
	Symbol    string
	Endpoints []string
	// APYKeys are tried in order against the response object.
	APYKeys []string
	TVLKeys []string
}

var profiles = map[yields.Provider]Profile{
	yields.ProviderHaedal: {
		Provider:  yields.ProviderHaedal,
		Name:      "Haedal",
		Symbol:    "haSUI",
		Endpoints: []string{"https://haedal.xyz/api/stats"},
		APYKeys:   []string{"apy", "stakingApy"},
		TVLKeys:   []string{"tvl", "totalStaked"},
	},
	yields.ProviderSpringSui: {
		Provider:  yields.ProviderSpringSui,
		Name:      "SpringSui",
		Symbol:    "sSUI",
		Endpoints: []string{"https://api.springsui.com/stats"},
		APYKeys:   []string{"apy", "apr"},
		TVLKeys:   []string{"tvl", "totalSuiStaked"},
	},
	yields.ProviderVolo: {
		Provider:  yields.ProviderVolo,
		Name:      "Volo",
		Symbol:    "vSUI",
		Endpoints: []string{"https://stake.volosui.com/api/stats"},
		APYKeys:   []string{"apy", "currentApy"},
		TVLKeys:   []string{"tvl", "totalStaked"},
	},
}

// ProfileFor returns the built-in profile for a liquid-staking provider.
func ProfileFor(provider yields.Provider) (Profile, bool) {
	p, ok := profiles[provider]
	return p, ok
}

// Adapter serves one liquid-staking profile.
type Adapter struct {
	profile     Profile
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

// WithEndpoints replaces the profile's endpoint chain.
func WithEndpoints(endpoints ...string) Option {
	return func(a *Adapter) {
		if len(endpoints) > 0 {
			a.profile.Endpoints = endpoints
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

// New constructs an adapter for the given profile.
func New(profile Profile, opts ...Option) *Adapter {
	adapter := &Adapter{
		profile:     profile,
		httpClient:  &http.Client{Timeout: defaultCallTimeout},
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Provider implements yields.Adapter.
func (a *Adapter) Provider() yields.Provider { return a.profile.Provider }

// Name implements yields.Adapter.
func (a *Adapter) Name() string { return a.profile.Name }

// Fetch reads the staking stats, falling back to an estimate row with a
// warning when every endpoint fails.
func (a *Adapter) Fetch(ctx context.Context) yields.FetchResult {
	var result yields.FetchResult

	apy, tvl, err := a.fetchStats(ctx)
	if err != nil {
		apy, tvl = estimateAPY, 0
		result.Errors = append(result.Errors, yields.NewFetchError(
			a.Name(), "native",
			fmt.Sprintf("Using estimate, live rate unavailable: %v", err),
			yields.SeverityWarning))
	}
	result.Records = []yields.Record{a.record(apy, tvl)}
	return result
}

func (a *Adapter) fetchStats(ctx context.Context) (apy, tvl float64, err error) {
	var lastErr error
	for _, endpoint := range a.profile.Endpoints {
		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		payload, getErr := raw.GetJSON(callCtx, a.httpClient, endpoint)
		cancel()
		if getErr != nil {
			lastErr = getErr
			continue
		}
		obj, ok := payload.(map[string]interface{})
		if !ok {
			lastErr = fmt.Errorf("lst %s: unexpected payload shape from %s", a.profile.Name, endpoint)
			continue
		}
		if inner, ok := obj["data"].(map[string]interface{}); ok {
			obj = inner
		}
		apy = raw.Num(obj, a.profile.APYKeys...)
		if apy == 0 {
			lastErr = fmt.Errorf("lst %s: apy missing from payload", a.profile.Name)
			continue
		}
		if apy > 0 && apy < 1.0 {
			apy *= 100
		}
		tvl = raw.Num(obj, a.profile.TVLKeys...)
		return apy, tvl, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("lst %s: no endpoints configured", a.profile.Name)
	}
	return 0, 0, lastErr
}

func (a *Adapter) record(apy, tvl float64) yields.Record {
	record := yields.Record{
		ID:           string(a.profile.Provider) + "-" + strings.ToLower(a.profile.Symbol),
		Provider:     a.profile.Provider,
		ProviderName: a.profile.Provider.DisplayName(),
		Asset:        a.profile.Symbol,
		Symbol:       a.profile.Symbol,
		Kind:         yields.KindLST,
		APY:          apy,
		APYBase:      apy,
		Stablecoin:   false,
		ILRisk:       yields.ILRiskNo,
		LastUpdated:  time.Now(),
		URL: deeplink.Resolve(deeplink.Params{
			Provider: a.profile.Provider,
			Symbol:   a.profile.Symbol,
			Kind:     yields.KindLST,
		}),
	}
	if tvl > 0 {
		record.TVLUSD = &tvl
		record.TVLDisplay = yields.FormatTVL(tvl)
	}
	return record
}

func init() {
	yields.RegisterAdapter("lst", func(name string, cfg *yields.AdapterConfig) (yields.Adapter, error) {
		profile, ok := ProfileFor(yields.Provider(strings.ToLower(name)))
		if !ok {
			return nil, fmt.Errorf("lst adapter: no staking profile for %q", name)
		}
		opts := []Option{}
		if len(cfg.Endpoints) > 0 {
			opts = append(opts, WithEndpoints(cfg.Endpoints...))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithCallTimeout(cfg.HTTPTimeout),
				WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return New(profile, opts...), nil
	})
}
