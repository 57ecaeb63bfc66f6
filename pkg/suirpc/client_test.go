package suirpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(method string) (string, int)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		body, status := handler(req.Method)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetObject(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes object content", func(t *testing.T) {
		srv := rpcServer(t, func(method string) (string, int) {
			require.Equal(t, "sui_getObject", method)
			return `{"jsonrpc":"2.0","id":1,"result":{"data":{
				"objectId":"0xabc","version":"7",
				"content":{"dataType":"moveObject","type":"0x2::coin::Coin","fields":{"balance":"100"}}
			}}}`, http.StatusOK
		})
		client := NewClient(WithBaseURL(srv.URL))

		object, err := client.GetObject(ctx, "0xabc")
		require.NoError(t, err)
		require.Equal(t, "0xabc", object.ObjectID)
		require.NotNil(t, object.Content)
		require.Equal(t, "moveObject", object.Content.DataType)
		require.Equal(t, "100", object.Content.Fields["balance"])
	})

	t.Run("missing data is an error", func(t *testing.T) {
		srv := rpcServer(t, func(string) (string, int) {
			return `{"jsonrpc":"2.0","id":1,"result":{}}`, http.StatusOK
		})
		client := NewClient(WithBaseURL(srv.URL))

		_, err := client.GetObject(ctx, "0xmissing")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})

	t.Run("rpc errors propagate", func(t *testing.T) {
		srv := rpcServer(t, func(string) (string, int) {
			return `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"bad object id"}}`, http.StatusOK
		})
		client := NewClient(WithBaseURL(srv.URL))

		_, err := client.GetObject(ctx, "nonsense")
		require.Error(t, err)
		require.Contains(t, err.Error(), "bad object id")
	})
}

func TestObjectExists(t *testing.T) {
	ctx := context.Background()

	t.Run("readable object", func(t *testing.T) {
		srv := rpcServer(t, func(string) (string, int) {
			return `{"jsonrpc":"2.0","id":1,"result":{"data":{"objectId":"0xabc","version":"1"}}}`, http.StatusOK
		})
		require.True(t, NewClient(WithBaseURL(srv.URL)).ObjectExists(ctx, "0xabc"))
	})

	t.Run("http failure", func(t *testing.T) {
		srv := rpcServer(t, func(string) (string, int) {
			return "gateway timeout", http.StatusGatewayTimeout
		})
		require.False(t, NewClient(WithBaseURL(srv.URL)).ObjectExists(ctx, "0xabc"))
	})
}
