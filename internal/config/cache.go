package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache. Methods holds upper-cased
// HTTP methods eligible for caching.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
	methods := map[string]bool{}
	for _, m := range splitList(getEnv("CACHE_METHODS", "GET")) {
		methods[strings.ToUpper(m)] = true
	}
	return CacheConfig{
		Enabled:      parseBoolEnv("CACHE_ENABLED", "true"),
		Methods:      methods,
		TTL:          durationEnv("CACHE_TTL", 30*time.Second),
		Prefix:       getEnv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: intEnv("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
