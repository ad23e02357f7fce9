package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"disruptions.onebusaway.org/disruptiondb"
	"disruptions.onebusaway.org/internal/app"
	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/gtfs"
	"disruptions.onebusaway.org/internal/metrics"
	gogtfs "github.com/OneBusAway/go-gtfs"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "TEST"

var testNow = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func ptr(f float64) *float64 { return &f }

// testStatic: NX1 and NX2 call at Britomart (4222); NX2 continues to
// Akoranga (7037) along a shape; route 83 has no trips.
func testStatic() *gogtfs.Static {
	agency := &gogtfs.Agency{Id: "AT", Name: "Auckland Transport"}
	data := &gogtfs.Static{
		Agencies: []gogtfs.Agency{*agency},
		Routes: []gogtfs.Route{
			{Id: "NX2-202", Agency: agency, ShortName: "NX2", LongName: "Hibiscus Coast To City"},
			{Id: "NX1-203", Agency: agency, ShortName: "NX1", LongName: "Northern Express"},
			{Id: "83-207", Agency: agency, ShortName: "83", LongName: "Massey University To Takapuna"},
		},
		Stops: []gogtfs.Stop{
			{Id: "4222-a", Code: "4222", Name: "Britomart Train Station", Latitude: ptr(-36.8442), Longitude: ptr(174.7676)},
			{Id: "7037-a", Code: "7037", Name: "Akoranga Station", Latitude: ptr(-36.7863), Longitude: ptr(174.7597)},
			{Id: "4223-a", Code: "4223", Name: "Lower Albert Street", Latitude: ptr(-36.8449), Longitude: ptr(174.7652)},
		},
		Shapes: []gogtfs.Shape{
			{ID: "nx2-shape", Points: []gogtfs.ShapePoint{
				{Latitude: -36.8442, Longitude: 174.7676},
				{Latitude: -36.8150, Longitude: 174.7600},
				{Latitude: -36.7863, Longitude: 174.7597},
			}},
		},
	}
	nx2, nx1 := &data.Routes[0], &data.Routes[1]
	britomart, akoranga := &data.Stops[0], &data.Stops[1]
	data.Trips = []gogtfs.ScheduledTrip{
		{ID: "nx1-1", Route: nx1, StopTimes: []gogtfs.ScheduledStopTime{{Stop: britomart}}},
		{ID: "nx2-1", Route: nx2, Shape: &data.Shapes[0], StopTimes: []gogtfs.ScheduledStopTime{{Stop: britomart}, {Stop: akoranga}}},
	}
	return data
}

func newTestApplication(t *testing.T, withCatalog bool) *app.Application {
	t.Helper()

	store, err := disruptiondb.NewClient(disruptiondb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	c := clock.NewMockClock(testNow)
	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := &disruptions.Service{Store: store, Metrics: m, Clock: c, Logger: logger}
	var manager *gtfs.Manager
	if withCatalog {
		manager = gtfs.NewManagerFromStatic(gtfs.Config{}, testStatic())
		svc.Catalog = manager
	}

	return &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			ApiKeys:   []string{testAPIKey},
			RateLimit: 100,
		},
		Logger:      logger,
		GtfsManager: manager,
		Store:       store,
		Disruptions: svc,
		Clock:       c,
		Metrics:     m,
	}
}

func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	api := NewRestAPI(newTestApplication(t, true))
	t.Cleanup(api.Shutdown)
	return api
}

func createTestApiWithoutCatalog(t *testing.T) *RestAPI {
	t.Helper()
	api := NewRestAPI(newTestApplication(t, false))
	t.Cleanup(api.Shutdown)
	return api
}

// testResponse mirrors models.ResponseModel with Data left generic.
type testResponse struct {
	Code        int                    `json:"code"`
	CurrentTime int64                  `json:"currentTime"`
	Data        map[string]interface{} `json:"data"`
	Text        string                 `json:"text"`
	Version     int                    `json:"version"`
}

func (r testResponse) entry(t *testing.T) map[string]interface{} {
	t.Helper()
	entry, ok := r.Data["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry missing in %+v", r.Data)
	return entry
}

func (r testResponse) list(t *testing.T) []interface{} {
	t.Helper()
	list, ok := r.Data["list"].([]interface{})
	require.True(t, ok, "data.list missing in %+v", r.Data)
	return list
}

func (r testResponse) references(t *testing.T) map[string]interface{} {
	t.Helper()
	refs, ok := r.Data["references"].(map[string]interface{})
	require.True(t, ok, "data.references missing in %+v", r.Data)
	return refs
}

func (r testResponse) fieldErrors(t *testing.T) map[string]interface{} {
	t.Helper()
	fields, ok := r.Data["fieldErrors"].(map[string]interface{})
	require.True(t, ok, "data.fieldErrors missing in %+v", r.Data)
	return fields
}

// serve runs one request through a mux carrying every route. The API key
// is appended unless the target already names one.
func serve(t *testing.T, api *RestAPI, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	if !strings.Contains(target, "key=") {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "key=" + testAPIKey
	}

	mux := http.NewServeMux()
	api.SetRoutes(mux)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func serveJSON(t *testing.T, api *RestAPI, method, target, body string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	rec := serve(t, api, method, target, body)
	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return rec, resp
}
