// Package config loads process configuration from the environment,
// with an optional local .env file for development.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every knob the transport and matching core need at
// startup.
type Config struct {
	Addr                string `env:"ADDR" envDefault:":8080"`
	AuthToken           string `env:"AUTH_TOKEN" envDefault:""`
	CORSOrigin          string `env:"CORS_ORIGIN" envDefault:"*"`
	SnapshotDepth       int    `env:"SNAPSHOT_DEPTH" envDefault:"10"`
	RecentTradesDefault int    `env:"RECENT_TRADES_DEFAULT" envDefault:"200"`
	TradeHistorySize    int    `env:"TRADE_HISTORY_SIZE" envDefault:"1000"`
	Development         bool   `env:"DEV" envDefault:"false"`
}

// Load reads a local .env file if present, then parses process
// environment variables into a Config.
func Load() (Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
