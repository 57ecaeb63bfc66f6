package defillama

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
)

// This test uses go-vcr to record/replay a real DefiLlama pools call.
// It skips by default if the cassette is absent and RECORD_CASSETTES != 1.
func TestClient_Pools_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "defillama_pools.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	httpClient := &http.Client{Transport: r}
	client := NewClient(WithHTTPClient(httpClient))
	pools, err := client.Pools(context.Background(), "Sui")
	assert.NoError(t, err, "Pools should not error")
	assert.NotEmpty(t, pools, "expected at least one Sui pool")
	for _, pool := range pools {
		assert.Equal(t, "Sui", pool.Chain, "chain filter should hold")
		assert.Greater(t, pool.TVLUSD, 0.0, "tvl filter should hold")
	}
}
