package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"yieldscan-api/internal/svc"
	"yieldscan-api/pkg/yields"
)

const probeTimeout = 5 * time.Second

// ProviderInfo describes one configured adapter for the providers listing.
type ProviderInfo struct {
	Provider  yields.Provider `json:"provider"`
	Name      string          `json:"name"`
	Homepage  string          `json:"homepage,omitempty"`
	Available *bool           `json:"available,omitempty"`
}

// ProvidersHandler lists configured adapters in priority order. Adapters
// that expose a health probe report availability; the probe is advisory and
// a missing probe leaves the field unset rather than guessing.
func ProvidersHandler(serverCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		probe := r.URL.Query().Get("probe") == "true"

		adapters := serverCtx.Engine.Adapters()
		infos := make([]ProviderInfo, 0, len(adapters))
		for _, adapter := range adapters {
			info := ProviderInfo{
				Provider: adapter.Provider(),
				Name:     adapter.Name(),
				Homepage: adapter.Provider().Homepage(),
			}
			if probe {
				if checker, ok := adapter.(yields.HealthChecker); ok {
					probeCtx, cancel := contextWithTimeout(r, probeTimeout)
					available := checker.Available(probeCtx)
					cancel()
					info.Available = &available
				}
			}
			infos = append(infos, info)
		}
		httpx.OkJsonCtx(r.Context(), w, infos)
	}
}

// ProviderYieldsHandler runs one provider's fetch for diagnostics, serving
// from the short-TTL per-provider snapshot when one exists. The live fetch
// detaches from the request deadline like the full-table cold-start fill.
func ProviderYieldsHandler(serverCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			Provider string `path:"provider"`
		}
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(ctx, w, err)
			return
		}
		provider := yields.Provider(strings.ToLower(strings.TrimSpace(req.Provider)))

		cached, err := serverCtx.Cache.LatestProviderResult(ctx, string(provider))
		if err != nil {
			logx.WithContext(ctx).Errorf("handler: provider snapshot read failed, running live: %v", err)
		}
		if cached != nil {
			httpx.OkJsonCtx(ctx, w, cached)
			return
		}

		result, ok := serverCtx.Engine.FetchOne(context.WithoutCancel(ctx), provider)
		if !ok {
			httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]string{
				"error": "unknown provider: " + string(provider),
			})
			return
		}
		if err := serverCtx.Cache.SaveProviderResult(ctx, string(provider), &result); err != nil {
			logx.WithContext(ctx).Errorf("handler: provider snapshot write failed: %v", err)
		}
		httpx.OkJsonCtx(ctx, w, result)
	}
}
