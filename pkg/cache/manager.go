package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/zerr"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = zerr.New("cache miss")

	// ErrInvalidTTL indicates a write was attempted without a positive TTL
	ErrInvalidTTL = zerr.New("cache ttl must be positive")
)

// Manager handles menu caching operations with Redis backend.
type Manager struct {
	redis redis.Cmdable
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient redis.Cmdable) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{
		redis: redisClient,
	}
}

// Get retrieves the stored menu bytes by key.
// Returns ErrCacheMiss if the key doesn't exist.
func (m *Manager) Get(ctx context.Context, key Key) ([]byte, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, zerr.Wrap(err, "redis get")
	}

	CacheHits.Inc()
	return data, nil
}

// Set stores data under key with the given TTL as a single SET ... EX command.
func (m *Manager) Set(ctx context.Context, key Key, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	if err := m.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return zerr.Wrap(err, "redis set")
	}

	CacheWrittenBytes.Add(float64(len(data)))
	return nil
}

// Ping checks that Redis is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.redis.Ping(ctx).Err(); err != nil {
		CacheErrors.WithLabelValues("ping").Inc()
		return zerr.Wrap(err, "redis ping")
	}
	return nil
}
