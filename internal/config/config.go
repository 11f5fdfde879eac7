// README: Config loader with env defaults for HTTP, Redis, and the state slot.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	State struct {
		// Key is the durable slot; Channel carries cross-instance change signals.
		Key     string
		Channel string
	}
	Maps struct {
		// APIKey enables the optional geocoder; empty disables it.
		APIKey string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FLEETBOOK_HTTP_ADDR", ":8080")
	cfg.Redis.Addr = envOrDefault("FLEETBOOK_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = envOrDefault("FLEETBOOK_REDIS_PASSWORD", "")
	cfg.Redis.DB = envOrDefaultInt("FLEETBOOK_REDIS_DB", 0)
	cfg.State.Key = envOrDefault("FLEETBOOK_STATE_KEY", "fleetbook:state")
	cfg.State.Channel = envOrDefault("FLEETBOOK_SYNC_CHANNEL", "fleetbook:state:changed")
	cfg.Maps.APIKey = envOrDefault("FLEETBOOK_MAPS_API_KEY", "")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
