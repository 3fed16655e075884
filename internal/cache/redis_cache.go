package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "multigen:"

// Key builders for cached API responses
func LeaguesKey() string { return keyPrefix + "leagues" }

func MultisKey() string { return keyPrefix + "multis:latest" }

func MatchesKey(league string, upcomingOnly bool, round int) string {
	return fmt.Sprintf("%smatches:%s:%s:%d", keyPrefix, normalize(league), strconv.FormatBool(upcomingOnly), round)
}

func MatchKey(league, id string) string {
	return fmt.Sprintf("%smatch:%s:%s", keyPrefix, normalize(league), id)
}

func RoundsKey(league string) string {
	return fmt.Sprintf("%srounds:%s", keyPrefix, normalize(league))
}

func normalize(league string) string {
	if league == "" {
		return "all"
	}
	return strings.ToUpper(league)
}

// RedisCache stores JSON encoded responses in Redis with per-key TTLs
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get decodes the value at key into out. A missing key yields ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string, out interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", key, err)
	}
	return nil
}

// Set stores value at key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// WriteMultis stores the latest generation so API reads skip the pipeline
func (c *RedisCache) WriteMultis(ctx context.Context, resp models.MultiResponse, ttl time.Duration) error {
	return c.Set(ctx, MultisKey(), resp, ttl)
}

// Health pings Redis and returns the round trip time
func (c *RedisCache) Health(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("redis ping: %w", err)
	}
	return time.Since(start), nil
}

// Invalidate removes every cached response
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scanning cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("deleting cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
