// Package config loads the Trip Manager's runtime configuration: flags in
// the style of the teacher's main.go flag.* calls, with environment
// variable overrides in the style of rideshare-platform's shared/config.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config is the flat settings struct the cmd/tripmanager entrypoint wires
// into the logger, the collaborators, and the optional HTTP server.
type Config struct {
	Environment string
	LogLevel    string

	HTTPPort int

	ScenarioPath string

	// PathfindingUpfront mirrors spec §4.3: when true, start_trip expects
	// a precomputed path and never calls the pathfinder lazily.
	PathfindingUpfront bool

	Seed int64
}

// Parse builds a Config from command-line flags, then applies any
// matching TRIPMANAGER_* environment variable on top — flags set
// defaults, env vars override them, matching the override order
// rideshare-platform's config loader documents.
func Parse(args []string) *Config {
	fs := flag.NewFlagSet("tripmanager", flag.ExitOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.Environment, "environment", "development", "deployment environment (development|production)")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "logrus level")
	fs.IntVar(&cfg.HTTPPort, "http-port", 8080, "introspection HTTP server port")
	fs.StringVar(&cfg.ScenarioPath, "scenario", "", "path to a scenario JSON file")
	fs.BoolVar(&cfg.PathfindingUpfront, "pathfinding-upfront", false, "require precomputed paths at start_trip")
	var seed int64
	fs.Int64Var(&seed, "seed", 1, "RNG seed for the pathfinder stand-in")

	_ = fs.Parse(args)
	cfg.Seed = seed

	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRIPMANAGER_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("TRIPMANAGER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TRIPMANAGER_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = n
		}
	}
	if v := os.Getenv("TRIPMANAGER_SCENARIO"); v != "" {
		cfg.ScenarioPath = v
	}
	if v := os.Getenv("TRIPMANAGER_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
}
