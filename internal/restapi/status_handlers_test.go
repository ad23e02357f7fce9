package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"disruptions.onebusaway.org/internal/app"
	"disruptions.onebusaway.org/internal/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentTimeHandler(t *testing.T) {
	api := createTestApi(t)

	rec, resp := serveJSON(t, api, http.MethodGet, "/api/current-time", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=30", rec.Header().Get("Cache-Control"))

	entry := resp.entry(t)
	assert.Equal(t, float64(testNow.UnixMilli()), entry["time"])
	assert.Equal(t, "2026-03-02T07:00:00Z", entry["readableTime"])
}

func TestCurrentTimeHandlerRequiresValidApiKey(t *testing.T) {
	api := createTestApi(t)

	rec, resp := serveJSON(t, api, http.MethodGet, "/api/current-time?key=invalid", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "permission denied", resp.Text)
}

func TestConfigHandler(t *testing.T) {
	t.Run("with catalog", func(t *testing.T) {
		api := createTestApi(t)

		_, resp := serveJSON(t, api, http.MethodGet, "/api/config", "")
		entry := resp.entry(t)
		assert.Equal(t, "test", entry["environment"])
		assert.Equal(t, true, entry["gtfsLoaded"])
		assert.Equal(t, []interface{}{"all", "route", "stop"}, entry["workaroundTypes"])
		assert.Equal(t, []interface{}{"ROUTES", "STOPS"}, entry["disruptionTypes"])
		assert.Equal(t, []interface{}{"not-started", "in-progress", "resolved", "draft"}, entry["statuses"])

		region, ok := entry["region"].(map[string]interface{})
		require.True(t, ok)
		assert.InDelta(t, -36.8, region["lat"], 0.1)
		assert.InDelta(t, 174.76, region["lon"], 0.1)
	})

	t.Run("without catalog", func(t *testing.T) {
		api := createTestApiWithoutCatalog(t)

		_, resp := serveJSON(t, api, http.MethodGet, "/api/config", "")
		entry := resp.entry(t)
		assert.Equal(t, false, entry["gtfsLoaded"])
		assert.NotContains(t, entry, "region")
		assert.NotContains(t, entry, "gtfsLastUpdated")
	})
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthHandlerWithNilApplication(t *testing.T) {
	api := &RestAPI{Application: nil}

	rec := httptest.NewRecorder()
	api.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "database not initialized", resp.Detail)
}

func TestHealthHandlerReturnsOK(t *testing.T) {
	api := createTestApi(t)

	rec := serve(t, api, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ready", resp.Catalog)
}

func TestHealthHandlerCatalogStates(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		api := createTestApiWithoutCatalog(t)
		rec := serve(t, api, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "disabled", decodeHealth(t, rec).Catalog)
	})

	t.Run("stale", func(t *testing.T) {
		api := createTestApi(t)
		api.GtfsManager.MarkUnhealthy()
		rec := serve(t, api, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "stale", decodeHealth(t, rec).Catalog)
	})

	t.Run("starting", func(t *testing.T) {
		application := newTestApplication(t, false)
		application.GtfsManager = &gtfs.Manager{}
		api := NewRestAPI(application)
		defer api.Shutdown()

		rec := serve(t, api, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "starting", decodeHealth(t, rec).Status)
	})

	t.Run("closed database", func(t *testing.T) {
		application := newTestApplication(t, false)
		require.NoError(t, application.Store.Close())
		api := NewRestAPI(application)
		defer api.Shutdown()

		rec := serve(t, api, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "database connection failed", decodeHealth(t, rec).Detail)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	api := createTestApi(t)
	serve(t, api, http.MethodPost, "/api/disruptions", routesDisruptionBody("Counted"))

	rec := serve(t, api, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `disruptions_saved_total{operation="create"} 1`), body)
}

func TestMetricsEndpointWithoutMetrics(t *testing.T) {
	api := NewRestAPI(&app.Application{})
	defer api.Shutdown()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
