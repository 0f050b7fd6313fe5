package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/aryan595/Movie-Recommendation-System/internal/config"
	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
)

// Cache is a thin JSON layer over Redis. A nil or disabled Cache misses on
// every read and drops every write, so callers never branch on it.
type Cache struct {
	client *redis.Client
}

// NewRedis connects to cfg.RedisAddr. When the address is empty or the
// server does not answer, the returned cache is disabled and the API keeps
// working without it.
func NewRedis(ctx context.Context, cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		logging.Info().Msg("redis disabled: REDIS_ADDR empty")
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		logging.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache disabled")
		_ = client.Close()
		return &Cache{}
	}
	logging.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	return &Cache{client: client}
}

// NewWithClient wraps an existing client.
func NewWithClient(c *redis.Client) *Cache {
	return &Cache{client: c}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the value at key into dest. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key. A zero ttl stores without expiry.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// SimilarKey is the cache key of a similar-movies list. Keys embed the
// snapshot generation, so a restart with a new catalog never reads stale
// entries.
func SimilarKey(generation string, movieID, k int) string {
	return fmt.Sprintf("similar:%s:%d:%d", generation, movieID, k)
}
