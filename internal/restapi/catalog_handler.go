package restapi

import (
	"net/http"
	"strconv"
	"strings"

	"disruptions.onebusaway.org/internal/models"
	"github.com/OneBusAway/go-gtfs"
)

const (
	defaultSearchMax = 20
	maxSearchMax     = 100
	defaultRadius    = 500.0
	maxRadius        = 10000.0
	defaultNearMax   = 50
)

// queryInt reads an optional positive integer parameter bounded by upper.
func queryInt(r *http.Request, name string, def, upper int, fieldErrors map[string][]string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		fieldErrors[name] = append(fieldErrors[name], "must be a positive integer")
		return def
	}
	return min(v, upper)
}

func queryFloat(r *http.Request, name string, required bool, def float64, fieldErrors map[string][]string) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			fieldErrors[name] = append(fieldErrors[name], "is required")
		}
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], "must be a number")
		return def
	}
	return v
}

func (api *RestAPI) searchRoutesHandler(w http.ResponseWriter, r *http.Request) {
	if !api.HasCatalog() {
		api.catalogUnavailableResponse(w, r)
		return
	}

	fieldErrors := map[string][]string{}
	query := strings.TrimSpace(r.URL.Query().Get("input"))
	if query == "" {
		fieldErrors["input"] = append(fieldErrors["input"], "is required")
	}
	maxCount := queryInt(r, "maxCount", defaultSearchMax, maxSearchMax, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	routes := api.GtfsManager.SearchRoutes(query, maxCount+1)
	limitExceeded := len(routes) > maxCount
	if limitExceeded {
		routes = routes[:maxCount]
	}

	list := make([]models.RouteModel, 0, len(routes))
	for _, route := range routes {
		list = append(list, models.NewRouteModel(route))
	}
	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), limitExceeded, api.Clock))
}

func (api *RestAPI) searchStopsHandler(w http.ResponseWriter, r *http.Request) {
	if !api.HasCatalog() {
		api.catalogUnavailableResponse(w, r)
		return
	}

	fieldErrors := map[string][]string{}
	query := strings.TrimSpace(r.URL.Query().Get("input"))
	if query == "" {
		fieldErrors["input"] = append(fieldErrors["input"], "is required")
	}
	maxCount := queryInt(r, "maxCount", defaultSearchMax, maxSearchMax, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stops := api.GtfsManager.SearchStops(query, maxCount+1)
	limitExceeded := len(stops) > maxCount
	if limitExceeded {
		stops = stops[:maxCount]
	}

	list := make([]models.StopModel, 0, len(stops))
	refs := models.NewEmptyReferences()
	seenRoutes := make(map[string]bool)
	for _, stop := range stops {
		list = append(list, models.NewStopModel(stop))
		appendRouteRefs(&refs, seenRoutes, api.GtfsManager.RoutesForStop(stop.Id))
	}
	api.sendResponse(w, r, models.NewListResponse(list, refs, limitExceeded, api.Clock))
}

func appendRouteRefs(refs *models.ReferencesModel, seen map[string]bool, routes []gtfs.Route) {
	for _, route := range routes {
		if seen[route.Id] {
			continue
		}
		seen[route.Id] = true
		refs.Routes = append(refs.Routes, models.NewRouteModel(route))
	}
}

func (api *RestAPI) stopsNearHandler(w http.ResponseWriter, r *http.Request) {
	if !api.HasCatalog() {
		api.catalogUnavailableResponse(w, r)
		return
	}

	fieldErrors := map[string][]string{}
	lat := queryFloat(r, "lat", true, 0, fieldErrors)
	lon := queryFloat(r, "lon", true, 0, fieldErrors)
	radius := queryFloat(r, "radius", false, defaultRadius, fieldErrors)
	maxCount := queryInt(r, "maxCount", defaultNearMax, maxSearchMax, fieldErrors)
	if lat < -90 || lat > 90 {
		fieldErrors["lat"] = append(fieldErrors["lat"], "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		fieldErrors["lon"] = append(fieldErrors["lon"], "must be between -180 and 180")
	}
	if radius <= 0 {
		fieldErrors["radius"] = append(fieldErrors["radius"], "must be greater than 0")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	radius = min(radius, maxRadius)

	nearby := api.GtfsManager.StopsNear(lat, lon, radius, maxCount+1)
	limitExceeded := len(nearby) > maxCount
	if limitExceeded {
		nearby = nearby[:maxCount]
	}

	list := make([]models.StopModel, 0, len(nearby))
	for _, sd := range nearby {
		stop := models.NewStopModel(sd.Stop)
		distance := sd.Distance
		stop.Distance = &distance
		list = append(list, stop)
	}
	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), limitExceeded, api.Clock))
}

// stopEntitiesHandler lists the route-at-stop entities a stops disruption
// adds when the stop is picked.
func (api *RestAPI) stopEntitiesHandler(w http.ResponseWriter, r *http.Request) {
	if !api.HasCatalog() {
		api.catalogUnavailableResponse(w, r)
		return
	}

	stopID := r.PathValue("id")
	stop, ok := api.GtfsManager.FindStop(stopID)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	refs := models.NewEmptyReferences()
	refs.Stops = append(refs.Stops, models.NewStopModel(stop))
	appendRouteRefs(&refs, map[string]bool{}, api.GtfsManager.RoutesForStop(stopID))

	entities := api.GtfsManager.ExpandStop(stopID)
	api.sendResponse(w, r, models.NewListResponse(entities, refs, false, api.Clock))
}

func (api *RestAPI) routeShapeHandler(w http.ResponseWriter, r *http.Request) {
	if !api.HasCatalog() {
		api.catalogUnavailableResponse(w, r)
		return
	}

	routeID := r.PathValue("id")
	route, ok := api.GtfsManager.FindRoute(routeID)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	points, ok := api.GtfsManager.EncodedShapeForRoute(routeID)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	refs := models.NewEmptyReferences()
	refs.Routes = append(refs.Routes, models.NewRouteModel(route))
	entry := models.ShapeModel{RouteID: routeID, Points: points}
	api.sendResponse(w, r, models.NewEntryResponse(entry, refs, api.Clock))
}
