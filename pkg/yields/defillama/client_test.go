package defillama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"yieldscan-api/pkg/yields"
)

const poolsPayload = `{
	"status": "success",
	"data": [
		{"pool": "p1", "chain": "Sui", "project": "suilend", "symbol": "SUI",
		 "tvlUsd": 120000000, "apy": 4.2, "apyBase": 4.2, "stablecoin": false, "ilRisk": "no"},
		{"pool": "p2", "chain": "Sui", "project": "cetus-clmm", "symbol": "SUI-USDC",
		 "tvlUsd": 9000000, "apy": 45.5, "apyBase": 30.0, "apyReward": 15.5,
		 "rewardTokens": ["CETUS"], "stablecoin": false, "ilRisk": "yes"},
		{"pool": "p3", "chain": "Ethereum", "project": "aave-v3", "symbol": "USDC",
		 "tvlUsd": 500000000, "apy": 3.0, "stablecoin": true, "ilRisk": "no"},
		{"pool": "p4", "chain": "Sui", "project": "navi-lending", "symbol": "USDT",
		 "tvlUsd": 0, "apy": 8.0, "stablecoin": true, "ilRisk": "no"},
		{"pool": "p5", "chain": "Sui", "project": "scallop-lend", "symbol": "USDC",
		 "tvlUsd": 40000000, "apy": null, "stablecoin": true, "ilRisk": "no"}
	]
}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientPools(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by chain and drops empty rows", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, poolsPayload)
		client := NewClient(WithBaseURL(srv.URL))

		pools, err := client.Pools(ctx, "Sui")
		require.NoError(t, err)
		// p3 is the wrong chain, p4 has no TVL, p5 has no APY.
		require.Len(t, pools, 2)
		require.Equal(t, "suilend", pools[0].Project)
		require.Equal(t, "cetus-clmm", pools[1].Project)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(poolsPayload))
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL), WithMaxRetries(2))
		pools, err := client.Pools(ctx, "Sui")
		require.NoError(t, err)
		require.Len(t, pools, 2)
		require.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})

	t.Run("exhausted retries surface the error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusInternalServerError, "nope")
		client := NewClient(WithBaseURL(srv.URL), WithMaxRetries(1))

		_, err := client.Pools(ctx, "Sui")
		require.Error(t, err)
	})
}

func TestClientRecords(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, http.StatusOK, poolsPayload)
	client := NewClient(WithBaseURL(srv.URL))

	records, err := client.Records(ctx, "Sui")
	require.NoError(t, err)
	require.Len(t, records, 2)

	byProject := map[yields.Provider]yields.Record{}
	for _, r := range records {
		byProject[r.Provider] = r
	}

	suilend := byProject[yields.ProviderSuilend]
	require.Equal(t, "defillama-p1", suilend.ID)
	require.Equal(t, yields.KindLending, suilend.Kind)
	require.Equal(t, 4.2, suilend.APY)
	require.True(t, suilend.HasTVL())
	require.NotEmpty(t, suilend.URL)

	cetus := byProject[yields.ProviderCetus]
	require.Equal(t, yields.KindLP, cetus.Kind)
	require.Equal(t, 15.5, cetus.APYReward)
	require.Equal(t, []string{"CETUS"}, cetus.RewardTokens)
}

func TestClientSource(t *testing.T) {
	ctx := context.Background()

	t.Run("maps records through", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, poolsPayload)
		source := NewClient(WithBaseURL(srv.URL)).Source("Sui")

		records, errs := source(ctx)
		require.Len(t, records, 2)
		require.Empty(t, errs)
	})

	t.Run("failure becomes one critical error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusServiceUnavailable, "down")
		source := NewClient(WithBaseURL(srv.URL), WithMaxRetries(0)).Source("Sui")

		records, errs := source(ctx)
		require.Empty(t, records)
		require.Len(t, errs, 1)
		require.Equal(t, yields.SeverityCritical, errs[0].Severity)
		require.Equal(t, "DefiLlama", errs[0].ProviderLabel)
	})
}
