package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"yieldscan-api/internal/svc"
	"yieldscan-api/pkg/yields"
)

// YieldsHandler serves the merged yield table. It prefers the cached
// snapshot written by the refresh loop and only runs the pipeline inline
// when no snapshot exists yet.
func YieldsHandler(serverCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := latestResult(r.Context(), serverCtx)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		filter, top := parseFilter(r)
		records := filter.Apply(result.Records)
		if top > 0 {
			records = yields.Top(records, top)
		}

		httpx.OkJsonCtx(r.Context(), w, yields.Result{
			Records:     records,
			Errors:      result.Errors,
			LastUpdated: result.LastUpdated,
		})
	}
}

// YieldErrorsHandler serves the latest run's errors split into severity
// buckets.
func YieldErrorsHandler(serverCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := latestResult(r.Context(), serverCtx)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, yields.Classify(result.Errors))
	}
}

// latestResult reads the cached snapshot, falling back to a live run. The
// live fill detaches from the request deadline: the route timeout is shorter
// than a full pipeline pass, and a fill cut off mid-run would cache nothing
// but timeout errors.
func latestResult(ctx context.Context, serverCtx *svc.ServiceContext) (*yields.Result, error) {
	cached, err := serverCtx.Cache.LatestResult(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("handler: snapshot read failed, running live: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	fillCtx := context.WithoutCancel(ctx)
	result := serverCtx.Engine.Aggregate(fillCtx)
	if err := serverCtx.Cache.SaveResult(fillCtx, result); err != nil {
		logx.WithContext(ctx).Errorf("handler: snapshot write failed: %v", err)
	}
	return result, nil
}

func parseFilter(r *http.Request) (yields.Filter, int) {
	query := r.URL.Query()
	var filter yields.Filter

	if providers := query.Get("provider"); providers != "" {
		for _, p := range strings.Split(providers, ",") {
			filter.Providers = append(filter.Providers, yields.Provider(strings.ToLower(strings.TrimSpace(p))))
		}
	}
	if kinds := query.Get("kind"); kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			filter.Kinds = append(filter.Kinds, yields.Kind(strings.ToLower(strings.TrimSpace(k))))
		}
	}
	filter.Asset = query.Get("asset")
	filter.StablesOnly = query.Get("stable") == "true"
	if v, err := strconv.ParseFloat(query.Get("minApy"), 64); err == nil {
		filter.MinAPY = v
	}
	if v, err := strconv.ParseFloat(query.Get("minTvl"), 64); err == nil {
		filter.MinTVLUSD = v
	}

	top := 0
	if v, err := strconv.Atoi(query.Get("top")); err == nil && v > 0 {
		top = v
	}
	return filter, top
}
