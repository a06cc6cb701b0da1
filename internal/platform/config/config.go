package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the registry.
type Server struct {
	Addr          string
	AdminPassword string
	DatabaseURL   string
	Redis         RedisConfig
}

// RedisConfig holds connection settings for the optional Redis lookup store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
//
// MOTOREG_ADMIN_PASSWORD is the single shared secret gating update and delete
// operations. It is compared by exact equality, no hashing, no rotation.
func FromEnv() Server {
	addr := os.Getenv("MOTOREG_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr:          addr,
		AdminPassword: os.Getenv("MOTOREG_ADMIN_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}
