package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the defaults applied to every reported event
type Config struct {
	DSN         string            `toml:"dsn"`
	Release     string            `toml:"release"`
	Dist        string            `toml:"dist"`
	Environment string            `toml:"environment"`
	ServerName  string            `toml:"server_name"`
	Tags        map[string]string `toml:"tags"`
}

// Load reads the TOML file at path, when given, and overlays SENTRY_* environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	cfg.DSN = getenv("SENTRY_DSN", cfg.DSN)
	cfg.Release = getenv("SENTRY_RELEASE", cfg.Release)
	cfg.Dist = getenv("SENTRY_DIST", cfg.Dist)
	cfg.Environment = getenv("SENTRY_ENVIRONMENT", cfg.Environment)
	cfg.ServerName = getenv("SENTRY_SERVER_NAME", cfg.ServerName)

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
