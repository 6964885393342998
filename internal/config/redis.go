package config

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads REDIS_*. REDIS_HOST and REDIS_PORT take precedence
// over REDIS_ADDR when both are set.
func LoadRedisConfig() RedisConfig {
	addr := strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	host, port := strings.TrimSpace(getEnv("REDIS_HOST", "")), strings.TrimSpace(getEnv("REDIS_PORT", ""))
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Enabled:  parseBoolEnv("REDIS_ENABLED", "true"),
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       intEnv("REDIS_DB", 0),
		TLS:      parseBoolEnv("REDIS_TLS", "false"),
	}
}

// NewRedisClient connects and pings Redis. It returns nil when Redis is
// disabled or unreachable; rate limiting and caching then become no-ops.
func NewRedisClient(ctx context.Context, cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
