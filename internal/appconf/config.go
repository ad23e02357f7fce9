// Package appconf holds the server-level configuration shared by every component.
package appconf

import (
	"fmt"
	"strings"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Development:
		return "development"
	case Test:
		return "test"
	case Production:
		return "production"
	}
	return fmt.Sprintf("Environment(%d)", int(e))
}

// EnvFlagToEnvironment maps the -env flag value to an Environment.
func EnvFlagToEnvironment(env string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "development", "dev":
		return Development, nil
	case "test":
		return Test, nil
	case "production", "prod":
		return Production, nil
	}
	return Development, fmt.Errorf("unknown environment %q", env)
}

// Config holds the HTTP server and storage settings.
type Config struct {
	Port          int
	Env           Environment
	ApiKeys       []string
	ExemptApiKeys []string
	Verbose       bool
	// RateLimit is requests per second per API key.
	RateLimit int
	// DataPath is the SQLite file holding disruptions.
	DataPath string
	// Timezone is the IANA zone disruption times are displayed in.
	Timezone string
}
