// Package config handles configuration for the CLI client. Values are
// layered: defaults, then an optional JSON file, then command-line flags.
// Later sources win.
package config

import "time"

// Config holds runtime settings for the Manana CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API, without a trailing slash.
//   - RequestTimeout: per-request deadline for API calls.
//   - StateDirName: subdirectory of the user's home where the session token
//     cache lives.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StateDirName   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.StateDirName = ".manana"
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
