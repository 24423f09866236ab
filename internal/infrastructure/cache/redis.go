package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/logger"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis is a JSON cache. A nil *Redis, or one built while the server was
// unreachable, is a no-op cache: reads miss and writes succeed.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *Redis {
	log = logger.Named(log, "cache")
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.Addr),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing cache", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return &Redis{logger: log, ttl: cfg.ListTTL}
	}

	return &Redis{client: client, logger: log, ttl: cfg.ListTTL}
}

// NewWithClient wraps an existing client without probing it.
func NewWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger.Named(log, "cache"), ttl: ttl}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis command failed, cache degraded", zap.Error(err))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

// GetJSON decodes the value at key into out and reports whether it was a hit.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, errors.Wrapf(err, "cache get %s", key)
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, errors.Wrapf(err, "cache decode %s", key)
	}
	return true, nil
}

// SetJSON stores value under key. A non-positive ttl falls back to the
// configured listing TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "cache encode %s", key)
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return errors.Wrapf(err, "cache set %s", key)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return errors.Wrapf(err, "cache delete %s", key)
	}
	return nil
}

// DeleteByPattern removes every key matching a SCAN glob.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.isUnavailable() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			r.logger.Warn("cache delete failed", zap.String("key", k), zap.String("pattern", pattern), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		r.warnUnavailableOnce(err)
		return errors.Wrapf(err, "cache scan %s", pattern)
	}
	return nil
}
