package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"disruptions.onebusaway.org/disruptiondb"
	"disruptions.onebusaway.org/internal/app"
	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/gtfs"
	"disruptions.onebusaway.org/internal/logging"
	"disruptions.onebusaway.org/internal/metrics"
	"disruptions.onebusaway.org/internal/restapi"
	"disruptions.onebusaway.org/internal/webui"
	"github.com/klauspost/compress/gzhttp"
)

const dbStatsInterval = 15 * time.Second

// ParseAPIKeys splits a comma-separated key list. Empty input yields no keys.
func ParseAPIKeys(apiKeysFlag string) []string {
	if apiKeysFlag == "" {
		return []string{}
	}
	keys := strings.Split(apiKeysFlag, ",")
	for i, key := range keys {
		keys[i] = strings.TrimSpace(key)
	}
	return keys
}

func buildClock(timezone string) (clock.Clock, error) {
	if timezone == "" {
		return clock.RealClock{}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return clock.InLocation{Clock: clock.RealClock{}, Location: loc}, nil
}

// BuildApplication opens the store, loads the transit catalog when one is
// configured, and wires the disruption service.
func BuildApplication(cfg appconf.Config, gtfsCfg gtfs.Config) (*app.Application, error) {
	logger := logging.NewLogger(os.Stdout, cfg.Env == appconf.Production, cfg.Verbose)

	appClock, err := buildClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.DataPath) == "" {
		return nil, errors.New("no data path configured for the disruption store")
	}
	store, err := disruptiondb.NewClient(disruptiondb.NewConfig(cfg.DataPath, cfg.Env, cfg.Verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to open disruption store: %w", err)
	}

	m := metrics.NewWithLogger(logger)
	m.StartDBStatsCollector(store.DB, dbStatsInterval)

	var manager *gtfs.Manager
	if gtfsCfg.Enabled() {
		manager, err = gtfs.InitGTFSManager(context.Background(), gtfsCfg)
		if err != nil {
			m.Shutdown()
			logging.SafeCloseWithLogging(store, logger, "disruption_store")
			return nil, fmt.Errorf("failed to initialize GTFS manager: %w", err)
		}
	} else {
		logging.LogOperation(logger, "gtfs_catalog_disabled")
	}

	svc := &disruptions.Service{
		Store:   store,
		Metrics: m,
		Clock:   appClock,
		Logger:  logger,
	}
	if manager != nil {
		svc.Catalog = manager
	}

	return &app.Application{
		Config:      cfg,
		GtfsConfig:  gtfsCfg,
		Logger:      logger,
		GtfsManager: manager,
		Store:       store,
		Disruptions: svc,
		Clock:       appClock,
		Metrics:     m,
	}, nil
}

// CreateServer builds the HTTP server and its middleware chain. Callers
// must Shutdown the returned RestAPI.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)
	webUI := &webui.WebUI{Application: coreApp}

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	webUI.SetWebUIRoutes(mux)

	var handler http.Handler = mux
	if coreApp.Metrics != nil {
		handler = restapi.MetricsHandler(coreApp.Metrics)(handler)
	}
	handler = gzhttp.GzipHandler(handler)
	handler = restapi.NewRequestLoggingMiddleware(coreApp.Logger)(handler)
	handler = restapi.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}
	return srv, api
}

// Run serves until SIGINT or SIGTERM, then drains connections and
// releases the catalog, metrics collector and store.
func Run(srv *http.Server, coreApp *app.Application, api *restapi.RestAPI) error {
	logger := coreApp.Logger
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "server_starting",
			slog.String("addr", srv.Addr),
			slog.String("env", coreApp.Config.Env.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = err
	case <-ctx.Done():
		logging.LogOperation(logger, "shutdown_signal_received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "server shutdown failed", err)
		runErr = errors.Join(runErr, err)
	}

	api.Shutdown()
	if coreApp.GtfsManager != nil {
		coreApp.GtfsManager.Shutdown()
	}
	if coreApp.Metrics != nil {
		coreApp.Metrics.Shutdown()
	}
	logging.SafeCloseWithLogging(coreApp.Store, logger, "disruption_store")

	logging.LogOperation(logger, "server_stopped")
	return runErr
}
