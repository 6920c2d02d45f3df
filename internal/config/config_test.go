package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "HTTP_TIMEOUT",
		"SESSION_MAX_AGE", "SESSION_SWEEP_INTERVAL", "DISCARD_STALE_RESPONSES", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenWeatherBaseURL != "https://api.openweathermap.org" {
		t.Fatalf("unexpected base url %s", cfg.OpenWeatherBaseURL)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("expected no client timeout by default, got %s", cfg.HTTPTimeout)
	}
	if cfg.SessionMaxAge != 24*time.Hour || cfg.SessionSweepInterval != 15*time.Minute {
		t.Fatalf("unexpected session retention %s / %s", cfg.SessionMaxAge, cfg.SessionSweepInterval)
	}
	if cfg.DiscardStaleResponses {
		t.Fatalf("expected stale responses to be kept by default")
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %s", cfg.Port)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without OPENWEATHER_API_KEY")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("OPENWEATHER_BASE_URL", "http://localhost:9999")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("DISCARD_STALE_RESPONSES", "true")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherBaseURL != "http://localhost:9999" || cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.DiscardStaleResponses || cfg.Port != "9090" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"HTTP_TIMEOUT":            "soon",
		"SESSION_MAX_AGE":         "-1h",
		"DISCARD_STALE_RESPONSES": "maybe",
		"PORT":                    "http",
		"OPENWEATHER_BASE_URL":    "not a url",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENWEATHER_API_KEY", "secret")
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
