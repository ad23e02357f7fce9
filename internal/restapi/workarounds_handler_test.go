package restapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workaroundTexts(t *testing.T, entry map[string]interface{}) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, item := range entry["workarounds"].([]interface{}) {
		w := item.(map[string]interface{})
		key, _ := w["routeShortName"].(string)
		if key == "" {
			key, _ = w["stopCode"].(string)
		}
		if key == "" {
			key = "all"
		}
		out[key] = w["workaround"].(string)
	}
	return out
}

func TestWorkaroundEditingFlow(t *testing.T) {
	api := createTestApi(t)
	rec := serve(t, api, http.MethodPost, "/api/disruptions", routesDisruptionBody("Motorway closed"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("options list one field per route", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodGet, "/api/disruptions/1/workaround-options", "")
		require.Equal(t, http.StatusOK, rec.Code)

		entry := resp.entry(t)
		options := entry["options"].([]interface{})
		require.Len(t, options, 2)
		assert.Equal(t, []string{"NX2", "NX1"}, collectAllIdsFromObjects(t, options, "workaroundKey"))
		assert.Equal(t, "Take the train", options[0].(map[string]interface{})["workaroundText"])
		assert.Equal(t, "", options[1].(map[string]interface{})["workaroundText"])

		disabled := entry["disabled"].(map[string]interface{})
		assert.Equal(t, false, disabled["all"])
		assert.Equal(t, false, disabled["route"])
		assert.Equal(t, true, disabled["stop"])
	})

	t.Run("editing one group leaves the others", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/workarounds", `{"workaroundKey":"NX1","workaround":"  Walk  "}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]string{"NX2": "Take the train", "NX1": "Walk"}, workaroundTexts(t, resp.entry(t)))
	})

	t.Run("unknown group key", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/workarounds", `{"workaroundKey":"999","workaround":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, resp.fieldErrors(t), "workaroundKey")
	})

	t.Run("dropping a route drops its workaround", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/affected-entities", `{"affectedEntities":[{"routeId":"NX1-203"}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]string{"NX1": "Walk"}, workaroundTexts(t, resp.entry(t)))
	})

	t.Run("plain text summary", func(t *testing.T) {
		rec := serve(t, api, http.MethodGet, "/api/disruptions/1/workarounds.txt", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "[NX1]Walk", rec.Body.String())
	})

	t.Run("disabled workaround type is rejected", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/workaround-type", `{"workaroundType":"stop"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, resp.fieldErrors(t), "workaroundType")
	})

	t.Run("changing type clears workarounds", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/workaround-type", `{"workaroundType":"all"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		entry := resp.entry(t)
		assert.Equal(t, "all", entry["workaroundType"])
		assert.Empty(t, entry["workarounds"])
	})

	t.Run("all takes a single text", func(t *testing.T) {
		rec, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/workarounds", `{"workaround":"Use the ferry"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]string{"all": "Use the ferry"}, workaroundTexts(t, resp.entry(t)))

		rec = serve(t, api, http.MethodGet, "/api/disruptions/1/workarounds.txt?separator=%20%7C%20", "")
		assert.Equal(t, "Use the ferry", rec.Body.String())
	})

	t.Run("empty text removes the workaround", func(t *testing.T) {
		_, resp := serveJSON(t, api, http.MethodPut, "/api/disruptions/1/workarounds", `{"workaround":""}`)
		assert.Empty(t, resp.entry(t)["workarounds"])
	})
}

func TestWorkaroundEndpoints_UnknownDisruption(t *testing.T) {
	api := createTestApi(t)

	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/disruptions/5/workaround-options", ""},
		{http.MethodGet, "/api/disruptions/5/workarounds.txt", ""},
		{http.MethodPut, "/api/disruptions/5/workarounds", `{"workaround":"x"}`},
		{http.MethodPut, "/api/disruptions/5/workaround-type", `{"workaroundType":"all"}`},
		{http.MethodPut, "/api/disruptions/5/affected-entities", `{"affectedEntities":[]}`},
	}
	for _, tt := range requests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := serve(t, api, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestPreviewWorkaroundsHandler(t *testing.T) {
	api := createTestApi(t)

	body := `{
		"disruptionType": "STOPS",
		"workaroundType": "stop",
		"affectedEntities": [
			{"stopId": "4222-a", "routeId": "NX1-203"},
			{"stopId": "4222-a", "routeId": "NX2-202"},
			{"stopId": "7037-a", "routeId": "NX2-202"}
		],
		"workarounds": [
			{"type": "stop", "stopCode": "4222", "workaround": "Board at Lower Albert"},
			{"type": "stop", "stopCode": "1234", "workaround": "Stale"}
		]
	}`
	rec, resp := serveJSON(t, api, http.MethodPost, "/api/workarounds/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entry := resp.entry(t)
	workarounds := entry["workarounds"].([]interface{})
	require.Len(t, workarounds, 2, "one record per entity in the 4222 group; the stale group is dropped")
	for _, w := range workarounds {
		assert.Equal(t, "4222", w.(map[string]interface{})["stopCode"])
	}
	assert.Equal(t, "[4222]Board at Lower Albert", entry["workaroundsText"])

	options := entry["options"].([]interface{})
	assert.Equal(t, []string{"4222", "7037"}, collectAllIdsFromObjects(t, options, "workaroundKey"))

	entities := entry["affectedEntities"].([]interface{})
	assert.Equal(t, "Britomart Train Station", entities[0].(map[string]interface{})["stopName"])
	assert.Equal(t, "NX1", entities[0].(map[string]interface{})["routeShortName"])

	_, count := serveJSON(t, api, http.MethodGet, "/api/disruptions", "")
	assert.Empty(t, count.list(t), "preview never stores anything")
}

func TestPreviewWorkaroundsHandler_Validation(t *testing.T) {
	api := createTestApi(t)

	rec, resp := serveJSON(t, api, http.MethodPost, "/api/workarounds/preview", `{"disruptionType":"BOTH","workaroundType":"all"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"must be one of ROUTES, STOPS"}, resp.fieldErrors(t)["disruptionType"])

	tooMany := `{"disruptionType":"ROUTES","workaroundType":"all","affectedEntities":[`
	for i := 0; i < 501; i++ {
		if i > 0 {
			tooMany += ","
		}
		tooMany += fmt.Sprintf(`{"routeId":"r%d"}`, i)
	}
	tooMany += `]}`
	_, resp = serveJSON(t, api, http.MethodPost, "/api/workarounds/preview", tooMany)
	assert.Equal(t, []interface{}{"must have at most 500 items"}, resp.fieldErrors(t)["affectedEntities"])
}
