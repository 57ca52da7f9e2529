package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"job-portal/internal/config"

	"github.com/redis/go-redis/v9"
)

const revokedSessionPrefix = "session:revoked:"

// Redis is a best-effort cache. When the server is unreachable every
// operation degrades to a no-op so requests fall through to the database.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		if logger != nil {
			logger.Printf("[Cache] REDIS_HOST not set, cache disabled")
		}
		return &Redis{logger: logger, ttl: ttl}
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
		}
		_ = client.Close()
		return &Redis{logger: logger, ttl: ttl}
	}

	return &Redis{client: client, logger: logger, ttl: ttl}
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration, logger *log.Logger) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Redis{client: client, logger: logger, ttl: ttl}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis error, continuing without cache: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if !r.Available() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil && r.logger != nil {
			r.logger.Printf("[Cache] Redis delete error key=%s pattern=%s err=%v", k, pattern, err)
		}
	}
	return iter.Err()
}

func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return ok, nil
}

// Revoke marks a token id as revoked until the token would have expired anyway.
func (r *Redis) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if !r.Available() || tokenID == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedSessionPrefix+tokenID, "1", ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !r.Available() || tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedSessionPrefix+tokenID).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return n > 0, nil
}
