package yields

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func registerTestAdapterType(t *testing.T, typeName string) {
	t.Helper()
	RegisterAdapter(typeName, func(name string, cfg *AdapterConfig) (Adapter, error) {
		return &stubAdapter{provider: Provider(name), name: name}, nil
	})
}

func TestLoadConfigFromReader(t *testing.T) {
	registerTestAdapterType(t, "stub")

	t.Run("full config", func(t *testing.T) {
		yamlDoc := `
chain: Sui
order: [suilend, navi]
adapters:
  suilend:
    type: stub
    endpoints:
      - https://api.example.com/reserves
    timeout: 15s
    http_timeout: 5s
  navi:
    type: stub
fallback:
  base_url: https://yields.llama.fi/pools
  timeout: 10s
  max_retries: 2
`
		cfg, err := LoadConfigFromReader(strings.NewReader(yamlDoc))
		require.NoError(t, err)
		require.Equal(t, "Sui", cfg.Chain)
		require.Equal(t, []string{"suilend", "navi"}, cfg.Order)
		require.Equal(t, 15*time.Second, cfg.Adapters["suilend"].Timeout)
		require.Equal(t, 5*time.Second, cfg.Adapters["suilend"].HTTPTimeout)
		require.Equal(t, 10*time.Second, cfg.Fallback.Timeout)
		require.Equal(t, 2, cfg.Fallback.MaxRetries)
	})

	t.Run("chain defaults to Sui", func(t *testing.T) {
		cfg, err := LoadConfigFromReader(strings.NewReader(`adapters: {}`))
		require.NoError(t, err)
		require.Equal(t, "Sui", cfg.Chain)
	})

	t.Run("env vars expand in endpoints", func(t *testing.T) {
		t.Setenv("YIELDS_TEST_HOST", "api.example.com")
		yamlDoc := `
adapters:
  suilend:
    type: stub
    endpoints: ["https://${YIELDS_TEST_HOST}/reserves"]
`
		cfg, err := LoadConfigFromReader(strings.NewReader(yamlDoc))
		require.NoError(t, err)
		require.Equal(t, "https://api.example.com/reserves", cfg.Adapters["suilend"].Endpoints[0])
	})

	t.Run("unknown adapter type rejected", func(t *testing.T) {
		yamlDoc := `
adapters:
  mystery:
    type: never-registered
`
		_, err := LoadConfigFromReader(strings.NewReader(yamlDoc))
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported type")
	})

	t.Run("order referencing unknown adapter rejected", func(t *testing.T) {
		yamlDoc := `
order: [ghost]
adapters:
  suilend:
    type: stub
`
		_, err := LoadConfigFromReader(strings.NewReader(yamlDoc))
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown adapter")
	})

	t.Run("bad duration rejected", func(t *testing.T) {
		yamlDoc := `
adapters:
  suilend:
    type: stub
    timeout: soon
`
		_, err := LoadConfigFromReader(strings.NewReader(yamlDoc))
		require.Error(t, err)
	})
}

func TestBuildAdapters(t *testing.T) {
	registerTestAdapterType(t, "stub")

	t.Run("order first then sorted remainder", func(t *testing.T) {
		cfg := &Config{
			Order: []string{"navi", "suilend"},
			Adapters: map[string]*AdapterConfig{
				"suilend": {Type: "stub"},
				"navi":    {Type: "stub"},
				"cetus":   {Type: "stub"},
				"volo":    {Type: "stub"},
			},
		}
		adapters, err := cfg.BuildAdapters()
		require.NoError(t, err)
		require.Len(t, adapters, 4)

		names := make([]string, len(adapters))
		for i, a := range adapters {
			names[i] = a.Name()
		}
		require.Equal(t, []string{"navi", "suilend", "cetus", "volo"}, names)
	})

	t.Run("unsupported type fails the build", func(t *testing.T) {
		cfg := &Config{Adapters: map[string]*AdapterConfig{
			"x": {Type: "never-registered"},
		}}
		_, err := cfg.BuildAdapters()
		require.Error(t, err)
	})
}
