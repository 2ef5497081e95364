package redis

import (
	"errors"
	"strings"
)

// Config holds connection and keyspace settings for the Redis leaderboard
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every key, so several deployments can share one database
	KeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "rushmax",
	}
}

func (c Config) validate() error {
	if c.URL == "" {
		return errors.New("redis url is required")
	}
	if strings.ContainsAny(c.KeyPrefix, " :") {
		return errors.New("redis key prefix must not contain spaces or colons")
	}
	return nil
}
