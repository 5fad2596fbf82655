// Package config holds the server settings, read from flags with environment
// fallbacks.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// AllowOrigins is the comma separated CORS and WebSocket origin list.
	AllowOrigins string
	// Debug switches to development logging.
	Debug bool
	// MatchInterval is how often queued players are paired.
	MatchInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		MatchInterval: time.Second,
	}
}

// Load parses args (without the program name). Environment variables provide
// the defaults that flags override.
func Load(args []string) (Config, error) {
	def := Default()
	cfg := Config{}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", getenv("CHESS_ADDR", def.Addr), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", getenv("CHESS_ALLOW_ORIGINS", def.AllowOrigins), "comma-separated allowed origins")
	fs.BoolVar(&cfg.Debug, "debug", getenvBool("CHESS_DEBUG", def.Debug), "development logging")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", def.MatchInterval, "matchmaking pairing interval")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.MatchInterval <= 0 {
		cfg.MatchInterval = def.MatchInterval
	}
	return cfg, nil
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
