package disruptiondb

import "disruptions.onebusaway.org/internal/appconf"

// Config configures the disruption store.
type Config struct {
	// DBPath is the SQLite file, or ":memory:" for an ephemeral store.
	DBPath  string
	Env     appconf.Environment
	verbose bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
