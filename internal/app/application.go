package app

import (
	"log/slog"

	"disruptions.onebusaway.org/disruptiondb"
	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/gtfs"
	"disruptions.onebusaway.org/internal/metrics"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config     appconf.Config
	GtfsConfig gtfs.Config
	Logger     *slog.Logger
	// GtfsManager is nil when no feed is configured.
	GtfsManager *gtfs.Manager
	Store       *disruptiondb.Client
	Disruptions *disruptions.Service
	Clock       clock.Clock
	Metrics     *metrics.Metrics
}

// HasCatalog reports whether a transit feed has been loaded.
func (app *Application) HasCatalog() bool {
	return app.GtfsManager != nil && app.GtfsManager.IsReady()
}
