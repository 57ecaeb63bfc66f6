package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"

	"yieldscan-api/pkg/confkit"
	yieldspkg "yieldscan-api/pkg/yields"
)

type CacheTTL struct {
	Short  int `json:",default=30"` // seconds
	Medium int `json:",default=90"`
	Long   int `json:",default=300"`
}

// RefreshConf controls the background aggregation loop.
type RefreshConf struct {
	IntervalSeconds int `json:",default=60"`
	TimeoutSeconds  int `json:",default=45"`
}

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	Env   string          `json:",default=test"`
	Redis redis.RedisConf `json:",optional"`
	TTL   CacheTTL        `json:",optional"`

	Refresh RefreshConf `json:",optional"`

	Yields confkit.Section[yieldspkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if err := c.validateTTL(); err != nil {
		return err
	}
	if c.Refresh.IntervalSeconds <= 0 {
		return errors.New("config: refresh.intervalSeconds must be positive")
	}
	if c.Refresh.TimeoutSeconds <= 0 {
		return errors.New("config: refresh.timeoutSeconds must be positive")
	}
	return nil
}

func (c *Config) validateTTL() error {
	if c.TTL.Short <= 0 {
		return errors.New("config: ttl.short must be positive")
	}
	if c.TTL.Medium <= 0 {
		return errors.New("config: ttl.medium must be positive")
	}
	if c.TTL.Long <= 0 {
		return errors.New("config: ttl.long must be positive")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Yields.Hydrate(c.baseDir, yieldspkg.LoadConfig); err != nil {
		return fmt.Errorf("load yields config: %w", err)
	}
	return nil
}

// YieldsConfig returns the hydrated aggregation config, loading the project
// default when the main file does not reference one.
func (c *Config) YieldsConfig() *yieldspkg.Config {
	if c.Yields.Value != nil {
		return c.Yields.Value
	}
	return yieldspkg.MustLoad()
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
