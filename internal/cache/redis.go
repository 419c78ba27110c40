package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mlb_lineups/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps a Redis client
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// HandLookup resolves a pitcher's throwing hand
type HandLookup interface {
	PitchHand(ctx context.Context, pitcherID int) (string, error)
}

// PitchHandCache serves pitcher handedness from Redis and falls through to
// the wrapped lookup on a miss. Handedness never changes, so answers are
// kept for a long TTL. Redis errors degrade to the wrapped lookup.
type PitchHandCache struct {
	cache *RedisCache
	next  HandLookup
	ttl   time.Duration
}

// NewPitchHandCache wraps next with a Redis cache.
// A nil cache disables caching.
func NewPitchHandCache(cache *RedisCache, next HandLookup, ttl time.Duration) *PitchHandCache {
	return &PitchHandCache{
		cache: cache,
		next:  next,
		ttl:   ttl,
	}
}

func pitchHandKey(pitcherID int) string {
	return "mlb:pitcher_hand:" + strconv.Itoa(pitcherID)
}

// PitchHand implements HandLookup
func (c *PitchHandCache) PitchHand(ctx context.Context, pitcherID int) (string, error) {
	if c.cache == nil {
		return c.next.PitchHand(ctx, pitcherID)
	}

	key := pitchHandKey(pitcherID)
	hand, err := c.cache.client.Get(ctx, key).Result()
	switch {
	case err == nil && hand != "":
		metrics.RecordCacheHit()
		return hand, nil
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheMiss()
	case err != nil:
		metrics.RecordCacheMiss()
		metrics.RecordError("cache", "get")
		log.Debug().Err(err).Int("pitcher_id", pitcherID).Msg("Pitcher hand cache read failed")
	}

	hand, err = c.next.PitchHand(ctx, pitcherID)
	if err != nil {
		// Failures are not cached so a later run can resolve them
		return "", err
	}

	if err := c.cache.client.Set(ctx, key, hand, c.ttl).Err(); err != nil {
		metrics.RecordError("cache", "set")
		log.Debug().Err(err).Int("pitcher_id", pitcherID).Msg("Pitcher hand cache write failed")
	}

	return hand, nil
}
