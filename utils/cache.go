// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"findmyspot/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to the configured Redis server using the given logical DB
// and verifies the connection with a ping.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// NewCacheClient returns the generic cache client (lot status and friends).
func NewCacheClient() (*redis.Client, error) {
	return NewRedisClient(config.AppConfig.RedisCacheDB)
}

// NewAuthCacheClient returns the Redis client dedicated to verified-token caching.
func NewAuthCacheClient() (*redis.Client, error) {
	return NewRedisClient(config.AppConfig.RedisAuthDB)
}
