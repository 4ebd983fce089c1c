package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shortlink/shortener-service/internal/api/metrics"
	"github.com/shortlink/shortener-service/internal/core/domain"
	"github.com/shortlink/shortener-service/internal/core/ports"
)

const linkKeyPrefix = "link:"

// errCacheMiss is internal; misses never leave the package.
var errCacheMiss = errors.New("cache miss")

// LinkCache wraps a ports.LinkRepository with a Redis read-through cache.
// Entries hold the redirect data only; click statistics always come from the
// wrapped store. Cache failures are logged and the store is used instead.
type LinkCache struct {
	store  ports.LinkRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLinkCache creates a cached repository decorator.
func NewLinkCache(store ports.LinkRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *LinkCache {
	return &LinkCache{
		store:  store,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "link_cache").Logger(),
	}
}

// Insert stores the link and, on success, writes it through to the cache.
func (c *LinkCache) Insert(ctx context.Context, link *domain.Link) error {
	if err := c.store.Insert(ctx, link); err != nil {
		return err
	}
	c.put(ctx, link)
	return nil
}

// FindByCode checks the cache first. Unknown codes are not cached.
func (c *LinkCache) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	link, err := c.get(ctx, code)
	switch {
	case err == nil:
		metrics.CacheRequestsTotal.WithLabelValues(metrics.ResultHit).Inc()
		return link, nil
	case errors.Is(err, errCacheMiss):
		metrics.CacheRequestsTotal.WithLabelValues(metrics.ResultMiss).Inc()
	default:
		metrics.CacheRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
		c.log.Warn().Err(err).Str("code", code).Msg("cache read failed, using store")
	}

	link, err = c.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	c.put(ctx, link)
	return link, nil
}

// RecordVisit goes straight to the store.
func (c *LinkCache) RecordVisit(ctx context.Context, code string, at time.Time) error {
	return c.store.RecordVisit(ctx, code, at)
}

func (c *LinkCache) get(ctx context.Context, code string) (*domain.Link, error) {
	result, err := c.client.HGetAll(ctx, linkKeyPrefix+code).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || result["original_url"] == "" {
		return nil, errCacheMiss
	}

	var createdAt time.Time
	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &domain.Link{
		Code:        code,
		OriginalURL: result["original_url"],
		OwnerID:     result["owner_id"],
		CreatedAt:   createdAt,
	}, nil
}

func (c *LinkCache) put(ctx context.Context, link *domain.Link) {
	key := linkKeyPrefix + link.Code

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"original_url": link.OriginalURL,
		"owner_id":     link.OwnerID,
		"created_at":   link.CreatedAt.UnixNano(),
	})
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Str("code", link.Code).Msg("cache write failed")
	}
}

var _ ports.LinkRepository = (*LinkCache)(nil)
