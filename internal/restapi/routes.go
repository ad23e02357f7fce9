package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache tiers in seconds.
const (
	cacheNone    = 0
	cacheShort   = 30
	cacheCatalog = 300
)

// SetRoutes registers every endpoint on mux.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", api.healthHandler)
	if api.Application != nil && api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	api.handle(mux, "GET /api/current-time", cacheShort, api.currentTimeHandler)
	api.handle(mux, "GET /api/config", cacheShort, api.configHandler)

	api.handle(mux, "GET /api/disruptions", cacheNone, api.listDisruptionsHandler)
	api.handle(mux, "POST /api/disruptions", cacheNone, api.createDisruptionHandler)
	api.handle(mux, "GET /api/disruptions/{id}", cacheNone, api.getDisruptionHandler)
	api.handle(mux, "PUT /api/disruptions/{id}", cacheNone, api.updateDisruptionHandler)
	api.handle(mux, "DELETE /api/disruptions/{id}", cacheNone, api.deleteDisruptionHandler)
	api.handle(mux, "PUT /api/disruptions/{id}/affected-entities", cacheNone, api.replaceAffectedEntitiesHandler)
	api.handle(mux, "PUT /api/disruptions/{id}/workaround-type", cacheNone, api.changeWorkaroundTypeHandler)
	api.handle(mux, "PUT /api/disruptions/{id}/workarounds", cacheNone, api.editWorkaroundHandler)
	api.handle(mux, "GET /api/disruptions/{id}/workaround-options", cacheNone, api.workaroundOptionsHandler)
	api.handle(mux, "GET /api/disruptions/{id}/workarounds.txt", cacheNone, api.workaroundsTextHandler)
	api.handle(mux, "POST /api/workarounds/preview", cacheNone, api.previewWorkaroundsHandler)

	api.handle(mux, "GET /api/routes/search", cacheCatalog, api.searchRoutesHandler)
	api.handle(mux, "GET /api/routes/{id}/shape", cacheCatalog, api.routeShapeHandler)
	api.handle(mux, "GET /api/stops/search", cacheCatalog, api.searchStopsHandler)
	api.handle(mux, "GET /api/stops/near", cacheCatalog, api.stopsNearHandler)
	api.handle(mux, "GET /api/stops/{id}/entities", cacheCatalog, api.stopEntitiesHandler)
}

// handle wraps h with the API key check, the per-key rate limit and the
// cache tier before registering it.
func (api *RestAPI) handle(mux *http.ServeMux, pattern string, cacheSeconds int, h http.HandlerFunc) {
	var handler http.Handler = h
	handler = CacheControlMiddleware(cacheSeconds, handler)
	handler = api.rateLimiter.Handler()(handler)
	handler = api.requireAPIKey(handler)
	mux.Handle(pattern, handler)
}

func (api *RestAPI) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
