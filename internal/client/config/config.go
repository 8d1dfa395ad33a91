package config

import (
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Config holds runtime settings for the treeboard CLI.
//
// Fields:
//   - DatabaseDSN: Postgres connection string of the shared board. Empty
//     means the client starts in offline mode against the local cache.
//   - CachePath: location of the local SQLite cache file.
//   - OnlineCheckInterval: how often the client probes backend reachability.
type Config struct {
	DatabaseDSN         string
	CachePath           string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = ""
	c.CachePath = defaultCachePath()
	c.OnlineCheckInterval = 3 * time.Second
}

func defaultCachePath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "treeboard-cache.db"
	}
	return filepath.Join(home, ".treeboard", "cache.db")
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
