package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(port int) appconf.Config {
	return appconf.Config{
		Port:      port,
		Env:       appconf.Test,
		ApiKeys:   []string{"test"},
		Verbose:   false,
		RateLimit: 100,
		DataPath:  ":memory:",
	}
}

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single key", "test-key", []string{"test-key"}},
		{"multiple keys", "key1,key2,key3", []string{"key1", "key2", "key3"}},
		{"keys with spaces", " key1 , key2 , key3 ", []string{"key1", "key2", "key3"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{"", "", "", ""}},
		{"trailing comma", "key1,", []string{"key1", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAPIKeys(tt.input))
		})
	}
}

func TestBuildApplicationWithMemoryDB(t *testing.T) {
	cfg := testConfig(4000)

	coreApp, err := BuildApplication(cfg, gtfs.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.Store.Close()
	})

	assert.NotNil(t, coreApp.Logger)
	assert.Equal(t, cfg, coreApp.Config)
	assert.Nil(t, coreApp.GtfsManager, "no feed configured")
	assert.False(t, coreApp.HasCatalog())
	require.NotNil(t, coreApp.Disruptions)
	assert.Nil(t, coreApp.Disruptions.Catalog)
	assert.Same(t, coreApp.Store, coreApp.Disruptions.Store)
}

func TestBuildApplicationErrorHandling(t *testing.T) {
	t.Run("invalid GTFS path", func(t *testing.T) {
		_, err := BuildApplication(testConfig(4000), gtfs.Config{GtfsURL: "/nonexistent/path/to/gtfs.zip"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize GTFS manager")
	})

	t.Run("missing data path", func(t *testing.T) {
		cfg := testConfig(4000)
		cfg.DataPath = ""
		_, err := BuildApplication(cfg, gtfs.Config{})
		assert.Error(t, err)
	})

	t.Run("file store in test environment", func(t *testing.T) {
		cfg := testConfig(4000)
		cfg.DataPath = "disruptions.db"
		_, err := BuildApplication(cfg, gtfs.Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open disruption store")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := testConfig(4000)
		cfg.Timezone = "Mars/Olympus_Mons"
		_, err := BuildApplication(cfg, gtfs.Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timezone")
	})
}

func TestBuildClock(t *testing.T) {
	c, err := buildClock("")
	require.NoError(t, err)
	assert.IsType(t, clock.RealClock{}, c)

	c, err = buildClock("Pacific/Auckland")
	require.NoError(t, err)
	assert.Equal(t, "Pacific/Auckland", c.Now().Location().String())
}

func TestCreateServer(t *testing.T) {
	cfg := testConfig(8080)
	coreApp, err := BuildApplication(cfg, gtfs.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.Store.Close()
	})

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
}

func TestCreateServerHandlerResponds(t *testing.T) {
	cfg := testConfig(8080)
	coreApp, err := BuildApplication(cfg, gtfs.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.Store.Close()
	})

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	t.Run("api route with request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/current-time?key=test", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("gzip when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/config?key=test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")
	})

	t.Run("debug page outside production", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/debug?dataType=tables", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "disruptions")
	})

	t.Run("health without catalog", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServerStartsAndStopsCleanly(t *testing.T) {
	cfg := testConfig(0)
	coreApp, err := BuildApplication(cfg, gtfs.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.Store.Close()
	})

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	done := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			done <- err
			return
		}
		done <- nil
	}()

	time.Sleep(50 * time.Millisecond)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(shutdownCtx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
