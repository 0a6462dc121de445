package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// ConnectRedis initializes the Redis client used for the printer status
// cache. Redis is optional: when REDIS_ADDR is unset the status proxy
// simply polls on every request.
func ConnectRedis(cfg *Config) error {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, printer status caching disabled")
		return nil
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		redisClient = nil
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("Redis connection established successfully")
	return nil
}

// GetRedis returns the Redis client, or nil when caching is disabled
func GetRedis() *redis.Client {
	return redisClient
}

// SetRedis replaces the Redis client (primarily for testing)
func SetRedis(client *redis.Client) {
	redisClient = client
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
