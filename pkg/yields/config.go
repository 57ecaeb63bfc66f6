package yields

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"yieldscan-api/pkg/confkit"
)

// Config describes the yield aggregation pipeline: which native adapters run,
// in what order, and where the fallback index lives.
type Config struct {
	// Chain is the chain name as the fallback index spells it ("Sui").
	Chain string `yaml:"chain"`
	// Order fixes adapter registration order; the merge's first-wins rule is
	// defined over this order, not completion order.
	Order    []string                  `yaml:"order"`
	Adapters map[string]*AdapterConfig `yaml:"adapters"`
	Fallback FallbackConfig            `yaml:"fallback"`
}

// AdapterConfig configures a single native adapter.
type AdapterConfig struct {
	Type string `yaml:"type"`

	// Endpoints is the ordered candidate list for the adapter's internal
	// fallthrough chain.
	Endpoints []string `yaml:"endpoints"`
	RPCURL    string   `yaml:"rpc_url"`

	TimeoutRaw     string        `yaml:"timeout"`
	Timeout        time.Duration `yaml:"-"`
	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// FallbackConfig configures the cross-protocol yields index fetch.
type FallbackConfig struct {
	BaseURL    string        `yaml:"base_url"`
	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
	MaxRetries int           `yaml:"max_retries"`
}

// AdapterBuilder constructs an Adapter from configuration.
type AdapterBuilder func(name string, cfg *AdapterConfig) (Adapter, error)

var (
	adapterRegistry   = make(map[string]AdapterBuilder)
	adapterRegistryMu sync.RWMutex
)

// RegisterAdapter registers a native adapter constructor.
func RegisterAdapter(typeName string, builder AdapterBuilder) {
	adapterRegistryMu.Lock()
	defer adapterRegistryMu.Unlock()
	adapterRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupAdapterBuilder(typeName string) (AdapterBuilder, bool) {
	adapterRegistryMu.RLock()
	defer adapterRegistryMu.RUnlock()
	builder, ok := adapterRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads pipeline configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open yields config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads pipeline configuration from the default project location and
// panics on error.
func MustLoad() *Config {
	path := confkit.MustProjectPath("etc/yields.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yields config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yields config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Chain == "" {
		c.Chain = "Sui"
	}
	if c.Adapters == nil {
		c.Adapters = make(map[string]*AdapterConfig)
	}
	for name, adapter := range c.Adapters {
		if adapter == nil {
			adapter = &AdapterConfig{}
			c.Adapters[name] = adapter
		}
		adapter.expandEnv()
		if err := adapter.parseDurations(name); err != nil {
			return err
		}
	}
	c.Fallback.BaseURL = strings.TrimSpace(os.ExpandEnv(c.Fallback.BaseURL))
	if c.Fallback.TimeoutRaw != "" {
		d, err := time.ParseDuration(c.Fallback.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("yields fallback: invalid timeout %q: %w", c.Fallback.TimeoutRaw, err)
		}
		c.Fallback.Timeout = d
	}
	return nil
}

func (a *AdapterConfig) expandEnv() {
	a.Type = strings.TrimSpace(os.ExpandEnv(a.Type))
	a.RPCURL = strings.TrimSpace(os.ExpandEnv(a.RPCURL))
	for i, endpoint := range a.Endpoints {
		a.Endpoints[i] = strings.TrimSpace(os.ExpandEnv(endpoint))
	}
}

func (a *AdapterConfig) parseDurations(name string) error {
	if a.TimeoutRaw != "" {
		d, err := time.ParseDuration(a.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("yields adapter %s: invalid timeout %q: %w", name, a.TimeoutRaw, err)
		}
		if d <= 0 {
			return fmt.Errorf("yields adapter %s: timeout must be positive, got %s", name, d)
		}
		a.Timeout = d
	}
	if a.HTTPTimeoutRaw != "" {
		d, err := time.ParseDuration(a.HTTPTimeoutRaw)
		if err != nil {
			return fmt.Errorf("yields adapter %s: invalid http_timeout %q: %w", name, a.HTTPTimeoutRaw, err)
		}
		if d <= 0 {
			return fmt.Errorf("yields adapter %s: http_timeout must be positive, got %s", name, d)
		}
		a.HTTPTimeout = d
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	for name, adapter := range c.Adapters {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("yields config: adapter name cannot be empty")
		}
		if adapter == nil {
			return fmt.Errorf("yields config: adapter %s is nil", name)
		}
		if strings.TrimSpace(adapter.Type) == "" {
			return fmt.Errorf("yields config: adapter %s must specify type", name)
		}
		if _, ok := lookupAdapterBuilder(adapter.Type); !ok {
			return fmt.Errorf("yields config: adapter %s has unsupported type %q", name, adapter.Type)
		}
	}
	for _, name := range c.Order {
		if _, ok := c.Adapters[name]; !ok {
			return fmt.Errorf("yields config: order references unknown adapter %q", name)
		}
	}
	return nil
}

// BuildAdapters instantiates every configured adapter in deterministic order:
// names listed in Order first, then any remainder sorted alphabetically.
func (c *Config) BuildAdapters() ([]Adapter, error) {
	names := make([]string, 0, len(c.Adapters))
	seen := make(map[string]bool, len(c.Adapters))
	for _, name := range c.Order {
		if !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(c.Adapters))
	for name := range c.Adapters {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	adapters := make([]Adapter, 0, len(names))
	for _, name := range names {
		adapterCfg := c.Adapters[name]
		builder, ok := lookupAdapterBuilder(adapterCfg.Type)
		if !ok {
			return nil, fmt.Errorf("yields adapter %s: unsupported type %q", name, adapterCfg.Type)
		}
		adapter, err := builder(name, adapterCfg)
		if err != nil {
			return nil, fmt.Errorf("yields adapter %s: %w", name, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
