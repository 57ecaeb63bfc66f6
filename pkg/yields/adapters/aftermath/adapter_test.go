package aftermath

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"yieldscan-api/pkg/yields"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("bare fraction scales to a percentage", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `0.0312`)
		result := New(WithEndpoints(srv.URL)).Fetch(ctx)

		require.Empty(t, result.Errors)
		require.Len(t, result.Records, 1)
		r := result.Records[0]
		require.Equal(t, "afSUI", r.Symbol)
		require.Equal(t, yields.KindLST, r.Kind)
		require.InDelta(t, 3.12, r.APY, 1e-9)
		require.Nil(t, r.TVLUSD)
		require.Contains(t, r.URL, "aftermath.finance/stake")
	})

	t.Run("wrapped object payload", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"apy": 0.041}`)
		result := New(WithEndpoints(srv.URL)).Fetch(ctx)

		require.Empty(t, result.Errors)
		require.Len(t, result.Records, 1)
		require.InDelta(t, 4.1, result.Records[0].APY, 1e-9)
	})

	t.Run("endpoint down falls back to the estimate with a warning", func(t *testing.T) {
		srv := serve(t, http.StatusServiceUnavailable, "down")
		result := New(WithEndpoints(srv.URL)).Fetch(ctx)

		require.Len(t, result.Records, 1)
		require.InDelta(t, estimateAPY, result.Records[0].APY, 1e-9)
		require.Len(t, result.Errors, 1)
		require.Equal(t, yields.SeverityWarning, result.Errors[0].Severity)
		require.Contains(t, result.Errors[0].Message, "estimate")
	})
}
