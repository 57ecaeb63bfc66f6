package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"yieldscan-api/internal/svc"
)

// RefreshResponse summarises one forced pipeline run.
type RefreshResponse struct {
	Refreshed bool   `json:"refreshed"`
	Records   int    `json:"records"`
	Errors    int    `json:"errors"`
	Message   string `json:"message,omitempty"`
}

// RefreshHandler forces a pipeline run. The refresh lock keeps concurrent
// forced refreshes from stampeding the upstream APIs.
func RefreshHandler(serverCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		acquired, err := serverCtx.Cache.TryRefreshLock(ctx)
		if err != nil {
			httpx.ErrorCtx(ctx, w, err)
			return
		}
		if !acquired {
			httpx.OkJsonCtx(ctx, w, RefreshResponse{
				Refreshed: false,
				Message:   "refresh already in progress",
			})
			return
		}
		defer serverCtx.Cache.ReleaseRefreshLock(context.WithoutCancel(ctx))

		result := serverCtx.Engine.Aggregate(ctx)
		if err := serverCtx.Cache.SaveResult(ctx, result); err != nil {
			logx.WithContext(ctx).Errorf("handler: refresh snapshot write failed: %v", err)
		}

		httpx.OkJsonCtx(ctx, w, RefreshResponse{
			Refreshed: true,
			Records:   len(result.Records),
			Errors:    len(result.Errors),
		})
	}
}

// HealthHandler is a plain liveness endpoint.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, map[string]string{"status": "ok"})
	}
}

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}
