package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheControlMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		maxAge   int
		method   string
		status   int
		expected string
	}{
		{"catalog tier", cacheCatalog, http.MethodGet, http.StatusOK, "public, max-age=300"},
		{"short tier", cacheShort, http.MethodGet, http.StatusOK, "public, max-age=30"},
		{"no cache tier", cacheNone, http.MethodGet, http.StatusOK, "no-cache, no-store, must-revalidate"},
		{"error responses are never cached", cacheCatalog, http.MethodGet, http.StatusNotFound, "no-cache, no-store, must-revalidate"},
		{"writes are never cached", cacheCatalog, http.MethodPost, http.StatusCreated, "no-cache, no-store, must-revalidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CacheControlMiddleware(tt.maxAge, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/x", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.expected, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestCacheControlMiddleware_ImplicitOK(t *testing.T) {
	handler := CacheControlMiddleware(cacheShort, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	assert.Equal(t, "public, max-age=30", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "body", rec.Body.String())
}

func TestCacheControlOnRoutes(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		endpoint string
		expected string
	}{
		{"/api/stops/search?input=42", "public, max-age=300"},
		{"/api/current-time", "public, max-age=30"},
		{"/api/disruptions", "no-cache, no-store, must-revalidate"},
		{"/api/disruptions/77", "no-cache, no-store, must-revalidate"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			rec := serve(t, api, http.MethodGet, tt.endpoint, "")
			assert.Equal(t, tt.expected, rec.Header().Get("Cache-Control"))
		})
	}
}
