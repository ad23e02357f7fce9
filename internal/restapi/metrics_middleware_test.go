package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"disruptions.onebusaway.org/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsHandler_NilMetrics(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	MetricsHandler(nil)(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsHandler_LabelsByPattern(t *testing.T) {
	m := metrics.New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/disruptions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := MetricsHandler(m)(mux)

	for _, id := range []string{"1", "2", "3"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/disruptions/"+id, nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "GET /api/disruptions/{id}", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetricsHandler_StatusCodes(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError} {
		m := metrics.New()
		handler := MetricsHandler(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, status, rec.Code)
		assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal))
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	w := newStatusRecorder(rec)
	assert.Equal(t, http.StatusOK, w.status)

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	assert.Equal(t, http.StatusTeapot, w.status, "first status wins")
	assert.Same(t, rec, w.Unwrap())
}
