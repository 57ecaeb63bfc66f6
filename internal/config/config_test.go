package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "yieldscan-api/pkg/yields/adapters"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := t.TempDir()

	yieldsYAML := `
chain: Sui
order: [suilend]
adapters:
  suilend:
    type: suilend
    endpoints: ["${SUILEND_API_URL}"]
fallback:
  base_url: https://yields.llama.fi/pools
  timeout: 10s
  max_retries: 2
`
	writeFile(t, dir, "yields.yaml", yieldsYAML)

	mainYAML := `
Name: yieldscan-api
Host: 0.0.0.0
Port: 8890
Env: dev
Refresh:
  IntervalSeconds: 60
  TimeoutSeconds: 45
TTL:
  Short: 30
  Medium: 90
  Long: 300
Yields:
  File: yields.yaml
`
	mainPath := writeFile(t, dir, "yieldscan.yaml", mainYAML)
	t.Setenv("SUILEND_API_URL", "https://api.suilend.fi/reserves")

	cfg, err := Load(mainPath)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.IsTestEnv())
	require.Equal(t, 60, cfg.Refresh.IntervalSeconds)
	require.Equal(t, dir, cfg.BaseDir())

	require.NotNil(t, cfg.Yields.Value)
	require.Equal(t, []string{"suilend"}, cfg.Yields.Value.Order)
	require.Equal(t,
		"https://api.suilend.fi/reserves",
		cfg.Yields.Value.Adapters["suilend"].Endpoints[0])
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := t.TempDir()

	t.Run("bad env", func(t *testing.T) {
		path := writeFile(t, dir, "bad_env.yaml", `
Name: yieldscan-api
Host: 0.0.0.0
Port: 8890
Env: staging
`)
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "env must be one of")
	})

	t.Run("bad refresh interval", func(t *testing.T) {
		path := writeFile(t, dir, "bad_refresh.yaml", `
Name: yieldscan-api
Host: 0.0.0.0
Port: 8890
Refresh:
  IntervalSeconds: -5
`)
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeFile(t, dir, "minimal.yaml", `
Name: yieldscan-api
Host: 0.0.0.0
Port: 8890
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.True(t, cfg.IsTestEnv())
		require.Equal(t, 60, cfg.Refresh.IntervalSeconds)
		require.Equal(t, 30, cfg.TTL.Short)
	})
}
