package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/rest/pathvar"

	"yieldscan-api/internal/cache"
	"yieldscan-api/internal/svc"
	"yieldscan-api/pkg/yields"
)

type fakeAdapter struct {
	provider  yields.Provider
	name      string
	result    yields.FetchResult
	available bool
}

func (f *fakeAdapter) Provider() yields.Provider                { return f.provider }
func (f *fakeAdapter) Name() string                             { return f.name }
func (f *fakeAdapter) Fetch(ctx context.Context) yields.FetchResult { return f.result }
func (f *fakeAdapter) Available(ctx context.Context) bool       { return f.available }

func usd(v float64) *float64 { return &v }

func testContext(adapters ...yields.Adapter) *svc.ServiceContext {
	return &svc.ServiceContext{
		Engine: yields.NewEngine(adapters),
		Cache:  cache.NewStore(nil, cache.TTLSet{}),
	}
}

func testAdapters() []yields.Adapter {
	return []yields.Adapter{
		&fakeAdapter{
			provider: yields.ProviderSuilend, name: "Suilend", available: true,
			result: yields.FetchResult{Records: []yields.Record{
				{ID: "suilend-sui", Provider: yields.ProviderSuilend, Symbol: "SUI",
					Kind: yields.KindLending, APY: 4.2, TVLUSD: usd(1e8)},
				{ID: "suilend-usdc", Provider: yields.ProviderSuilend, Symbol: "USDC",
					Kind: yields.KindLending, APY: 8.1, TVLUSD: usd(2e8), Stablecoin: true},
			}},
		},
		&fakeAdapter{
			provider: yields.ProviderVolo, name: "Volo",
			result: yields.FetchResult{
				Records: []yields.Record{{ID: "volo-vsui", Provider: yields.ProviderVolo,
					Symbol: "vSUI", Kind: yields.KindLST, APY: 3.0}},
				Errors: []yields.FetchError{yields.NewFetchError("Volo", "native",
					"Using estimate, live rate unavailable", yields.SeverityWarning)},
			},
		},
	}
}

func TestYieldsHandler(t *testing.T) {
	serverCtx := testContext(testAdapters()...)

	t.Run("full table sorted by apy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/yields", nil)
		rec := httptest.NewRecorder()
		YieldsHandler(serverCtx)(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var result yields.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 3)
		require.Equal(t, "suilend-usdc", result.Records[0].ID)
		require.Len(t, result.Errors, 1)
		require.False(t, result.LastUpdated.IsZero())
	})

	t.Run("provider and kind filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/yields?provider=volo&kind=lst", nil)
		rec := httptest.NewRecorder()
		YieldsHandler(serverCtx)(rec, req)

		var result yields.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 1)
		require.Equal(t, "volo-vsui", result.Records[0].ID)
	})

	t.Run("stable filter with top", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/yields?stable=true&top=5", nil)
		rec := httptest.NewRecorder()
		YieldsHandler(serverCtx)(rec, req)

		var result yields.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 1)
		require.True(t, result.Records[0].Stablecoin)
	})

	t.Run("cold start fill survives an expired request deadline", func(t *testing.T) {
		expired, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/api/yields", nil).WithContext(expired)
		rec := httptest.NewRecorder()
		YieldsHandler(testContext(testAdapters()...))(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var result yields.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 3)
		for _, fetchErr := range result.Errors {
			require.NotEqual(t, "Timeout", fetchErr.Message)
		}
	})

	t.Run("min apy filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/yields?minApy=4", nil)
		rec := httptest.NewRecorder()
		YieldsHandler(serverCtx)(rec, req)

		var result yields.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 2)
	})
}

func TestYieldErrorsHandler(t *testing.T) {
	serverCtx := testContext(testAdapters()...)

	req := httptest.NewRequest(http.MethodGet, "/api/yields/errors", nil)
	rec := httptest.NewRecorder()
	YieldErrorsHandler(serverCtx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var classification yields.Classification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classification))
	require.Empty(t, classification.Critical)
	require.Len(t, classification.Warnings, 1)
	require.Equal(t, "Volo", classification.Warnings[0].ProviderLabel)
}

func TestProvidersHandler(t *testing.T) {
	serverCtx := testContext(testAdapters()...)

	t.Run("listing keeps priority order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/yields/providers", nil)
		rec := httptest.NewRecorder()
		ProvidersHandler(serverCtx)(rec, req)

		var infos []ProviderInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
		require.Len(t, infos, 2)
		require.Equal(t, yields.ProviderSuilend, infos[0].Provider)
		require.Nil(t, infos[0].Available, "no probe requested")
	})

	t.Run("probe fills availability", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/yields/providers?probe=true", nil)
		rec := httptest.NewRecorder()
		ProvidersHandler(serverCtx)(rec, req)

		var infos []ProviderInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
		require.NotNil(t, infos[0].Available)
		require.True(t, *infos[0].Available)
		require.NotNil(t, infos[1].Available)
		require.False(t, *infos[1].Available)
	})
}

func TestProviderYieldsHandler(t *testing.T) {
	serverCtx := testContext(testAdapters()...)

	providerRequest := func(provider string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/yields/providers/"+provider, nil)
		return pathvar.WithVars(req, map[string]string{"provider": provider})
	}

	t.Run("known provider returns its fetch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ProviderYieldsHandler(serverCtx)(rec, providerRequest("suilend"))

		require.Equal(t, http.StatusOK, rec.Code)
		var result yields.FetchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 2)
		require.Equal(t, yields.ProviderSuilend, result.Records[0].Provider)
	})

	t.Run("provider name is case-insensitive", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ProviderYieldsHandler(serverCtx)(rec, providerRequest("Volo"))

		require.Equal(t, http.StatusOK, rec.Code)
		var result yields.FetchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Records, 1)
		require.Len(t, result.Errors, 1)
	})

	t.Run("unknown provider is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ProviderYieldsHandler(serverCtx)(rec, providerRequest("nonsuch"))

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "unknown provider")
	})
}

func TestRefreshHandler(t *testing.T) {
	serverCtx := testContext(testAdapters()...)

	req := httptest.NewRequest(http.MethodPost, "/api/yields/refresh", nil)
	rec := httptest.NewRecorder()
	RefreshHandler(serverCtx)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Refreshed)
	require.Equal(t, 3, resp.Records)
	require.Equal(t, 1, resp.Errors)
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HealthHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}
