package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/gtfs"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of the server configuration. Pointer fields
// distinguish "absent" from a zero value.
type fileConfig struct {
	Port          *int     `yaml:"port"`
	Env           string   `yaml:"env"`
	ApiKeys       []string `yaml:"api-keys"`
	ExemptApiKeys []string `yaml:"exempt-api-keys"`
	Verbose       *bool    `yaml:"verbose"`
	RateLimit     *int     `yaml:"rate-limit"`
	DataPath      string   `yaml:"data-path"`
	Timezone      string   `yaml:"timezone"`
	Gtfs          struct {
		URL             string `yaml:"url"`
		AuthHeaderName  string `yaml:"auth-header-name"`
		AuthHeaderValue string `yaml:"auth-header-value"`
		RefreshInterval string `yaml:"refresh-interval"`
	} `yaml:"gtfs"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var fc fileConfig

	f, err := os.Open(path)
	if err != nil {
		return fc, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return fc, nil
}

// settings are the raw flag values before they are turned into configs.
type settings struct {
	configPath      string
	port            int
	env             string
	apiKeys         string
	exemptApiKeys   string
	verbose         bool
	rateLimit       int
	dataPath        string
	timezone        string
	gtfsURL         string
	gtfsAuthName    string
	gtfsAuthValue   string
	refreshInterval time.Duration
}

func newFlagSet(s *settings) *flag.FlagSet {
	fs := flag.NewFlagSet("disruptions", flag.ContinueOnError)
	fs.StringVar(&s.configPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&s.port, "port", 4000, "API server port")
	fs.StringVar(&s.env, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&s.apiKeys, "api-keys", "test", "Comma separated list of API keys")
	fs.StringVar(&s.exemptApiKeys, "exempt-api-keys", "", "Comma separated API keys exempt from rate limiting")
	fs.BoolVar(&s.verbose, "verbose", false, "Enable debug logging")
	fs.IntVar(&s.rateLimit, "rate-limit", 100, "Requests per second per API key")
	fs.StringVar(&s.dataPath, "data-path", "./disruptions.db", "SQLite file holding disruptions")
	fs.StringVar(&s.timezone, "timezone", "", "IANA timezone for displayed times")
	fs.StringVar(&s.gtfsURL, "gtfs-url", "", "Static GTFS zip URL or local path; empty disables the catalog")
	fs.StringVar(&s.gtfsAuthName, "gtfs-auth-header-name", "", "Header name sent with the GTFS download")
	fs.StringVar(&s.gtfsAuthValue, "gtfs-auth-header-value", "", "Header value sent with the GTFS download")
	fs.DurationVar(&s.refreshInterval, "gtfs-refresh-interval", 24*time.Hour, "Reload interval for a remote GTFS feed; 0 disables it")
	return fs
}

// applyFile copies file values into s for every flag not set on the
// command line.
func (s *settings) applyFile(fc fileConfig, explicit map[string]bool) error {
	setInt := func(name string, dst *int, v *int) {
		if v != nil && !explicit[name] {
			*dst = *v
		}
	}
	setString := func(name string, dst *string, v string) {
		if v != "" && !explicit[name] {
			*dst = v
		}
	}
	setList := func(name string, dst *string, v []string) {
		if v != nil && !explicit[name] {
			*dst = joinKeys(v)
		}
	}

	setInt("port", &s.port, fc.Port)
	setInt("rate-limit", &s.rateLimit, fc.RateLimit)
	setString("env", &s.env, fc.Env)
	setString("data-path", &s.dataPath, fc.DataPath)
	setString("timezone", &s.timezone, fc.Timezone)
	setString("gtfs-url", &s.gtfsURL, fc.Gtfs.URL)
	setString("gtfs-auth-header-name", &s.gtfsAuthName, fc.Gtfs.AuthHeaderName)
	setString("gtfs-auth-header-value", &s.gtfsAuthValue, fc.Gtfs.AuthHeaderValue)
	setList("api-keys", &s.apiKeys, fc.ApiKeys)
	setList("exempt-api-keys", &s.exemptApiKeys, fc.ExemptApiKeys)
	if fc.Verbose != nil && !explicit["verbose"] {
		s.verbose = *fc.Verbose
	}
	if fc.Gtfs.RefreshInterval != "" && !explicit["gtfs-refresh-interval"] {
		d, err := time.ParseDuration(fc.Gtfs.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid gtfs refresh-interval %q: %w", fc.Gtfs.RefreshInterval, err)
		}
		s.refreshInterval = d
	}
	return nil
}

func joinKeys(keys []string) string {
	return strings.Join(keys, ",")
}

// parseConfig reads flags from args and, with -config, a YAML file.
// Flags given on the command line win over file values.
func parseConfig(args []string) (appconf.Config, gtfs.Config, error) {
	var s settings
	fs := newFlagSet(&s)
	if err := fs.Parse(args); err != nil {
		return appconf.Config{}, gtfs.Config{}, err
	}

	if s.configPath != "" {
		fc, err := loadConfigFile(s.configPath)
		if err != nil {
			return appconf.Config{}, gtfs.Config{}, err
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := s.applyFile(fc, explicit); err != nil {
			return appconf.Config{}, gtfs.Config{}, err
		}
	}

	env, err := appconf.EnvFlagToEnvironment(s.env)
	if err != nil {
		return appconf.Config{}, gtfs.Config{}, err
	}

	cfg := appconf.Config{
		Port:          s.port,
		Env:           env,
		ApiKeys:       ParseAPIKeys(s.apiKeys),
		ExemptApiKeys: ParseAPIKeys(s.exemptApiKeys),
		Verbose:       s.verbose,
		RateLimit:     s.rateLimit,
		DataPath:      s.dataPath,
		Timezone:      s.timezone,
	}
	gtfsCfg := gtfs.Config{
		GtfsURL:               s.gtfsURL,
		StaticAuthHeaderKey:   s.gtfsAuthName,
		StaticAuthHeaderValue: s.gtfsAuthValue,
		RefreshInterval:       s.refreshInterval,
		Env:                   env,
		Verbose:               s.verbose,
	}
	return cfg, gtfsCfg, nil
}
