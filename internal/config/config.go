package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type AppConfig struct {
	OpenWeatherAPIKey  string `validate:"required"`
	OpenWeatherBaseURL string `validate:"required,url"`

	// HTTPTimeout bounds outbound provider calls (0 = no client timeout).
	HTTPTimeout time.Duration

	// Session retention.
	SessionMaxAge        time.Duration // idle time before a session is evicted (0 = never)
	SessionSweepInterval time.Duration // how often idle sessions are evicted (0 = disabled)

	// DiscardStaleResponses ignores provider responses older than the latest request.
	DiscardStaleResponses bool

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	discard, err := strconv.ParseBool(getenvDefault("DISCARD_STALE_RESPONSES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISCARD_STALE_RESPONSES: %w", err)
	}
	cfg.DiscardStaleResponses = discard

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
