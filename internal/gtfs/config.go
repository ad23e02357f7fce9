package gtfs

import (
	"strings"
	"time"

	"disruptions.onebusaway.org/internal/appconf"
)

// Config holds GTFS configuration for the manager.
type Config struct {
	// GtfsURL is a static GTFS zip, either an http(s) URL or a local path.
	GtfsURL               string
	StaticAuthHeaderKey   string
	StaticAuthHeaderValue string
	// RefreshInterval reloads a remote feed on this period; zero disables it.
	RefreshInterval time.Duration
	Env             appconf.Environment
	Verbose         bool
}

// Enabled reports whether a static feed is configured at all.
func (config Config) Enabled() bool {
	return strings.TrimSpace(config.GtfsURL) != ""
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")
}
