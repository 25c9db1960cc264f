// Package config reads server settings from flags, falling back to
// LEGALCHESS_* environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

type Config struct {
	Addr             string
	AllowOrigins     string
	DataDir          string
	LogLevel         log.Level
	Clock            time.Duration
	MatchInterval    time.Duration
	MaxPerftDepth    int
	ShutdownDeadline time.Duration
}

// Load parses args (without the program name).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	addr := fs.String("addr", env("LEGALCHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allow-origins", env("LEGALCHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	dataDir := fs.String("data-dir", env("LEGALCHESS_DATA_DIR", ""), "badger directory, empty for in-memory")
	level := fs.String("log-level", env("LEGALCHESS_LOG_LEVEL", "info"), "debug, info, warn, error or fatal")
	clock := fs.String("clock", env("LEGALCHESS_CLOCK", "10m"), "time per side, 0 disables clocks")
	interval := fs.String("match-interval", env("LEGALCHESS_MATCH_INTERVAL", "1s"), "matchmaking tick")
	depth := fs.String("max-perft-depth", env("LEGALCHESS_MAX_PERFT_DEPTH", "5"), "deepest perft the API will run")
	shutdown := fs.Duration("shutdown-deadline", 5*time.Second, "graceful shutdown deadline")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:             *addr,
		AllowOrigins:     strings.TrimSpace(*origins),
		DataDir:          *dataDir,
		ShutdownDeadline: *shutdown,
	}

	var err error
	if cfg.LogLevel, err = log.ParseLevel(*level); err != nil {
		return nil, fmt.Errorf("log level %q: %w", *level, err)
	}
	if cfg.Clock, err = time.ParseDuration(*clock); err != nil || cfg.Clock < 0 {
		return nil, fmt.Errorf("invalid clock %q", *clock)
	}
	if cfg.MatchInterval, err = time.ParseDuration(*interval); err != nil || cfg.MatchInterval <= 0 {
		return nil, fmt.Errorf("invalid match interval %q", *interval)
	}
	if cfg.MaxPerftDepth, err = strconv.Atoi(*depth); err != nil || cfg.MaxPerftDepth < 1 {
		return nil, fmt.Errorf("invalid max perft depth %q", *depth)
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("empty listen address")
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
