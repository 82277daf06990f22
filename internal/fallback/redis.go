package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

const redisKeyPrefix = "gateway:fallback:"

// Redis stores fallback entries in Redis so multiple gateway instances share
// one cache. With ttl = 0 entries never expire.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects a Redis-backed store from a redis:// URL.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, name string) (*resource.Result, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fallback get %q: %w", name, err)
	}

	var res resource.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("decode fallback entry %q: %w", name, err)
	}
	return &res, true, nil
}

func (r *Redis) Set(ctx context.Context, res *resource.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode fallback entry %q: %w", res.Resource, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+res.Resource, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("fallback set %q: %w", res.Resource, err)
	}
	return nil
}

func (r *Redis) Stats(ctx context.Context) map[string]interface{} {
	keys, err := r.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return map[string]interface{}{"backend": "redis", "error": err.Error()}
	}
	return map[string]interface{}{
		"backend":    "redis",
		"total_keys": len(keys),
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
