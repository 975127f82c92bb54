package cache

import (
	"context"
	"fmt"
	"log"
	"time"
	"dsa_tracker/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

// RedisSummaryCache stores serialized summary payloads under a per-user key.
type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(userID string) string {
	return "summary:" + userID
}

func (c *RedisSummaryCache) Get(ctx context.Context, userID string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, summaryKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("RedisSummaryCache.Get: %w", err)
	}
	return val, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, userID string, payload []byte) error {
	if err := c.rdb.Set(ctx, summaryKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("RedisSummaryCache.Set: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, summaryKey(userID)).Err(); err != nil {
		return fmt.Errorf("RedisSummaryCache.Invalidate: %w", err)
	}
	return nil
}
