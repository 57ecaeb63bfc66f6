package svc

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/redis"

	"yieldscan-api/internal/cache"
	"yieldscan-api/internal/config"
	"yieldscan-api/pkg/yields"
	_ "yieldscan-api/pkg/yields/adapters"
	"yieldscan-api/pkg/yields/defillama"
)

type ServiceContext struct {
	Config config.Config

	YieldsConfig *yields.Config
	Engine       *yields.Engine
	Cache        *cache.Store
	TTL          cache.TTLSet
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config: c,
		TTL:    cache.NewTTLSet(c.TTL),
	}

	svc.YieldsConfig = c.YieldsConfig()

	adapters, err := svc.YieldsConfig.BuildAdapters()
	if err != nil {
		log.Fatalf("svc: build yield adapters: %v", err)
	}

	fallbackOpts := []defillama.Option{}
	if svc.YieldsConfig.Fallback.BaseURL != "" {
		fallbackOpts = append(fallbackOpts, defillama.WithBaseURL(svc.YieldsConfig.Fallback.BaseURL))
	}
	if svc.YieldsConfig.Fallback.MaxRetries > 0 {
		fallbackOpts = append(fallbackOpts, defillama.WithMaxRetries(svc.YieldsConfig.Fallback.MaxRetries))
	}
	if svc.YieldsConfig.Fallback.Timeout > 0 {
		fallbackOpts = append(fallbackOpts, defillama.WithHTTPClient(&http.Client{Timeout: svc.YieldsConfig.Fallback.Timeout}))
	}
	fallback := defillama.NewClient(fallbackOpts...)

	engineOpts := []yields.EngineOption{
		yields.WithFallback(fallback.Source(svc.YieldsConfig.Chain)),
	}
	if c.Refresh.TimeoutSeconds > 0 {
		perAdapter := time.Duration(c.Refresh.TimeoutSeconds) * time.Second
		if perAdapter > 15*time.Second {
			perAdapter = 15 * time.Second
		}
		engineOpts = append(engineOpts, yields.WithAdapterTimeout(perAdapter))
	}
	svc.Engine = yields.NewEngine(adapters, engineOpts...)

	var rds *redis.Redis
	if strings.TrimSpace(c.Redis.Host) != "" {
		rds = redis.MustNewRedis(c.Redis)
	}
	svc.Cache = cache.NewStore(rds, svc.TTL)

	return svc
}
