package restapi

import (
	"encoding/json"
	"net/http"

	"disruptions.onebusaway.org/internal/logging"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	// Catalog is "ready", "starting", "stale" or "disabled".
	Catalog string `json:"catalog,omitempty"`
}

// healthHandler verifies database connectivity and reports the transit
// catalog state. The catalog is optional, so only a store failure or a
// catalog that is configured but still loading makes the instance unhealthy.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if api.Application == nil || api.Store == nil || api.Store.DB == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "database not initialized",
		})
		return
	}

	if err := api.Store.DB.PingContext(r.Context()); err != nil {
		logging.LogError(api.logger(), "disruption DB ping failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "database connection failed",
		})
		return
	}

	catalog := "disabled"
	if api.GtfsManager != nil {
		switch {
		case !api.GtfsManager.IsReady():
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthResponse{
				Status:  "starting",
				Detail:  "GTFS data is being loaded and indexed",
				Catalog: "starting",
			})
			return
		case !api.GtfsManager.IsHealthy():
			catalog = "stale"
		default:
			catalog = "ready"
		}
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:  "ok",
		Catalog: catalog,
	})
}
