package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veraticus/pinpoint/internal/model"
)

const redisKeyPrefix = "pinpoint:pin:"

// RedisStore shares PIN lookups between processes. Redis failures degrade
// to cache misses and dropped writes; they never fail a lookup.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// OpenRedis connects to the Redis server at url and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps client. A zero ttl keeps entries until evicted by Redis.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached reference for pin.
func (s *RedisStore) Get(ctx context.Context, pin string) (model.PostalReference, bool) {
	data, err := s.client.Get(ctx, redisKey(pin)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("redis cache read failed", "pin", pin, "error", err)
		}
		return model.PostalReference{}, false
	}

	ref, err := decodeReference(data)
	if err != nil {
		s.logger.Warn("discarding corrupt cache entry", "pin", pin, "error", err)
		return model.PostalReference{}, false
	}
	return ref, true
}

// Set stores ref for pin.
func (s *RedisStore) Set(ctx context.Context, pin string, ref model.PostalReference) {
	data, err := encodeReference(ref)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "pin", pin, "error", err)
		return
	}
	if err := s.client.Set(ctx, redisKey(pin), data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis cache write failed", "pin", pin, "error", err)
	}
}

// Close closes the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(pin string) string {
	return redisKeyPrefix + pin
}

func encodeReference(ref model.PostalReference) ([]byte, error) {
	return json.Marshal(ref)
}

func decodeReference(data []byte) (model.PostalReference, error) {
	var ref model.PostalReference
	if err := json.Unmarshal(data, &ref); err != nil {
		return model.PostalReference{}, err
	}
	switch ref.Status {
	case model.ReferenceVerified, model.ReferenceUnverified:
		return ref, nil
	default:
		return model.PostalReference{}, fmt.Errorf("unknown reference status %q", ref.Status)
	}
}
