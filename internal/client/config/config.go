package config

import "time"

// Config holds runtime settings for the promptmanager CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the users REST backend.
//   - StoragePath: SQLite file for the session and theme; empty keeps them in memory.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: per-request HTTP timeout; 0 waits on transport defaults.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL       string
	StoragePath         string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:5000"
	c.StoragePath = "promptmanager.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 0
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
