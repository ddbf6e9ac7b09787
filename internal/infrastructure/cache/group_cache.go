package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	groupCacheKey = "auth-groups"
	groupCacheTTL = 24 * time.Hour
)

// GroupCache wraps a GroupRepository with a Redis cache of the full catalog.
// The cached entry is flushed on every group mutation so the permission
// resolver always observes the current graph. A Redis failure on read falls
// through to the repository; a failure there propagates so callers deny
// rather than trust a stale broader set.
type GroupCache struct {
	repo   domain.GroupRepository
	client *redis.Client
	logger *zap.Logger
}

// NewGroupCache creates a GroupCache backed by the given repository
func NewGroupCache(repo domain.GroupRepository, client *redis.Client, logger *zap.Logger) *GroupCache {
	return &GroupCache{
		repo:   repo,
		client: client,
		logger: logger,
	}
}

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// FindAllGroups returns the cached catalog, filling the cache on a miss
func (c *GroupCache) FindAllGroups(ctx context.Context) (*domain.GroupList, error) {
	cached, err := c.client.Get(ctx, groupCacheKey).Bytes()
	if err == nil {
		list := &domain.GroupList{}
		decodeErr := json.Unmarshal(cached, list)
		if decodeErr == nil {
			return list, nil
		}
		c.logger.Warn("Discarding undecodable group cache entry", zap.Error(decodeErr))
	} else if err != redis.Nil {
		c.logger.Warn("Group cache read failed, falling through to repository", zap.Error(err))
	}

	list, err := c.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(list)
	if err == nil {
		if err := c.client.Set(ctx, groupCacheKey, encoded, groupCacheTTL).Err(); err != nil {
			c.logger.Warn("Group cache write failed", zap.Error(err))
		}
	}

	return list, nil
}

// FindAll satisfies domain.GroupRepository so the cache can stand in front of
// the repository everywhere
func (c *GroupCache) FindAll(ctx context.Context) (*domain.GroupList, error) {
	return c.FindAllGroups(ctx)
}

// FindByKey finds a group by its stable key, bypassing the cache
func (c *GroupCache) FindByKey(ctx context.Context, key string) (*domain.Group, error) {
	return c.repo.FindByKey(ctx, key)
}

// Create creates a group and flushes the catalog cache
func (c *GroupCache) Create(ctx context.Context, group *domain.Group) error {
	if err := c.repo.Create(ctx, group); err != nil {
		return err
	}
	c.flush(ctx)
	return nil
}

// Update updates a group and flushes the catalog cache
func (c *GroupCache) Update(ctx context.Context, group *domain.Group) error {
	if err := c.repo.Update(ctx, group); err != nil {
		return err
	}
	c.flush(ctx)
	return nil
}

// Delete deletes a group and flushes the catalog cache
func (c *GroupCache) Delete(ctx context.Context, key string) error {
	if err := c.repo.Delete(ctx, key); err != nil {
		return err
	}
	c.flush(ctx)
	return nil
}

func (c *GroupCache) flush(ctx context.Context) {
	if err := c.client.Del(ctx, groupCacheKey).Err(); err != nil {
		c.logger.Error("Group cache flush failed", zap.Error(err))
	}
}
