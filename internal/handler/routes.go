package handler

import (
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/rest"

	"yieldscan-api/internal/svc"
)

// routeTimeout must cover a cold-start inline pipeline run plus the
// fallback fetch, not just a cache read.
const routeTimeout = 30 * time.Second

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodGet,
			Path:    "/api/yields",
			Handler: YieldsHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/yields/errors",
			Handler: YieldErrorsHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/yields/providers",
			Handler: ProvidersHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/yields/providers/:provider",
			Handler: ProviderYieldsHandler(serverCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/api/yields/refresh",
			Handler: RefreshHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/healthz",
			Handler: HealthHandler(),
		},
	}, rest.WithTimeout(routeTimeout))
}
