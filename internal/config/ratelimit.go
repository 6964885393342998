package config

import (
	"strings"
	"time"
)

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        parseBoolEnv("RATE_LIMIT_ENABLED", "true"),
		Capacity:       intEnv("RATE_LIMIT_CAPACITY", 30),
		RefillTokens:   intEnv("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: durationEnv("RATE_LIMIT_REFILL_INTERVAL", 2*time.Second),
		TTL:            durationEnv("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    strings.ToLower(getEnv("RATE_LIMIT_KEY_STRATEGY", "ip_route")),
		Prefix:         getEnv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// A bucket must outlive several refills or it resets to full too early.
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
