package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/infrastructure/config"
)

// RedisComboCache is a read-through cache in front of a
// catalog.ComboRepository. Combo definitions change rarely compared to
// how often checkout reads them, so a short TTL is enough; Save writes
// through and drops the cached entry.
type RedisComboCache struct {
	client    *redis.Client
	inner     catalog.ComboRepository
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisComboCache connects to Redis and wraps the given repository
func NewRedisComboCache(cfg config.RedisConfig, inner catalog.ComboRepository, logger *zap.Logger) (*RedisComboCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisComboCacheWithClient(client, inner, logger), nil
}

// NewRedisComboCacheWithClient wraps an existing Redis client. Useful
// when sharing a client across components.
func NewRedisComboCacheWithClient(client *redis.Client, inner catalog.ComboRepository, logger *zap.Logger) *RedisComboCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisComboCache{
		client:    client,
		inner:     inner,
		keyPrefix: "catalog:combo:",
		ttl:       config.CombosCacheTTL,
		logger:    logger,
	}
}

func (c *RedisComboCache) comboKey(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

// FindByID returns the cached combo when present, otherwise loads it
// from the inner repository and caches the result. Cache failures fall
// back to the repository rather than failing the lookup.
func (c *RedisComboCache) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ComboDefinition, error) {
	if combo := c.fetch(ctx, id); combo != nil {
		return combo, nil
	}

	combo, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, combo)
	return combo, nil
}

// FindByIDs resolves each ID through the cache and batches the misses
// into a single repository call
func (c *RedisComboCache) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ComboDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	combos := make([]catalog.ComboDefinition, 0, len(ids))
	var misses []uuid.UUID
	for _, id := range ids {
		if combo := c.fetch(ctx, id); combo != nil {
			combos = append(combos, *combo)
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) > 0 {
		loaded, err := c.inner.FindByIDs(ctx, misses)
		if err != nil {
			return nil, err
		}
		for i := range loaded {
			c.store(ctx, &loaded[i])
		}
		combos = append(combos, loaded...)
	}
	return combos, nil
}

// FindAll always hits the inner repository; full listings are not
// cached because a listing cannot tell whether a combo is missing or
// merely expired
func (c *RedisComboCache) FindAll(ctx context.Context) ([]catalog.ComboDefinition, error) {
	return c.inner.FindAll(ctx)
}

// Save writes through to the inner repository and invalidates the
// cached entry
func (c *RedisComboCache) Save(ctx context.Context, combo *catalog.ComboDefinition) error {
	if err := c.inner.Save(ctx, combo); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.comboKey(combo.ID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate cached combo",
			zap.String("combo_id", combo.ID.String()),
			zap.Error(err))
	}
	return nil
}

// Close closes the Redis client
func (c *RedisComboCache) Close() error {
	return c.client.Close()
}

func (c *RedisComboCache) fetch(ctx context.Context, id uuid.UUID) *catalog.ComboDefinition {
	payload, err := c.client.Get(ctx, c.comboKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("combo cache read failed",
				zap.String("combo_id", id.String()),
				zap.Error(err))
		}
		return nil
	}

	var combo catalog.ComboDefinition
	if err := json.Unmarshal(payload, &combo); err != nil {
		c.logger.Warn("discarding undecodable cached combo",
			zap.String("combo_id", id.String()),
			zap.Error(err))
		return nil
	}
	return &combo
}

func (c *RedisComboCache) store(ctx context.Context, combo *catalog.ComboDefinition) {
	payload, err := json.Marshal(combo)
	if err != nil {
		c.logger.Warn("failed to encode combo for cache",
			zap.String("combo_id", combo.ID.String()),
			zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.comboKey(combo.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("combo cache write failed",
			zap.String("combo_id", combo.ID.String()),
			zap.Error(err))
	}
}

// Ensure RedisComboCache implements ComboRepository
var _ catalog.ComboRepository = (*RedisComboCache)(nil)
