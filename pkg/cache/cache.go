package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLResolved  = 5 * time.Minute
	TTLLanguages = 10 * time.Minute
	TTLDefault   = 5 * time.Minute
)

// Key prefixes
const (
	PrefixResolved  = "resolved:"
	PrefixLanguages = "languages:"
)

// ErrMiss is returned by Get when the key is absent or the cache is disabled
var ErrMiss = errors.New("cache miss")

// Service caches resolution results. A nil client turns every write into a no-op
// and every read into a miss, so callers never have to branch on availability.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Resolved views
	GetResolved(ctx context.Context, kind string, repositoryID uint64, languageCode string, dest interface{}) error
	SetResolved(ctx context.Context, kind string, repositoryID uint64, languageCode string, value interface{}) error
	InvalidateRepository(ctx context.Context, kind string, repositoryID uint64) error
	InvalidateKind(ctx context.Context, kind string) error
	InvalidateAllResolved(ctx context.Context) error

	// Active language list
	GetLanguages(ctx context.Context, dest interface{}) error
	SetLanguages(ctx context.Context, value interface{}) error
	InvalidateLanguages(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service; client may be nil
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ResolvedKey is resolved:{kind}:{repository}:{language}. An empty language
// means no preference was given.
func ResolvedKey(kind string, repositoryID uint64, languageCode string) string {
	if languageCode == "" {
		languageCode = "_"
	}
	return fmt.Sprintf("%s%s:%d:%s", PrefixResolved, kind, repositoryID, languageCode)
}

func (c *redisCache) GetResolved(ctx context.Context, kind string, repositoryID uint64, languageCode string, dest interface{}) error {
	return c.Get(ctx, ResolvedKey(kind, repositoryID, languageCode), dest)
}

func (c *redisCache) SetResolved(ctx context.Context, kind string, repositoryID uint64, languageCode string, value interface{}) error {
	return c.Set(ctx, ResolvedKey(kind, repositoryID, languageCode), value, TTLResolved)
}

func (c *redisCache) InvalidateRepository(ctx context.Context, kind string, repositoryID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s%s:%d:*", PrefixResolved, kind, repositoryID))
}

func (c *redisCache) InvalidateKind(ctx context.Context, kind string) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixResolved+kind+":*")
}

func (c *redisCache) InvalidateAllResolved(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixResolved+"*")
}

func (c *redisCache) GetLanguages(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, PrefixLanguages+"active", dest)
}

func (c *redisCache) SetLanguages(ctx context.Context, value interface{}) error {
	return c.Set(ctx, PrefixLanguages+"active", value, TTLLanguages)
}

func (c *redisCache) InvalidateLanguages(ctx context.Context) error {
	return c.Delete(ctx, PrefixLanguages+"active")
}

// deleteByPattern removes every key matching the pattern
func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
