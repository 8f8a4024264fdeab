package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"organicfoods/internal/domain"
	applog "organicfoods/internal/log"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores fetched product lists under a key.
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.Product, error)
	Set(ctx context.Context, key string, products []domain.Product) error
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, baseTTL: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]domain.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	return products, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	// jitter spreads expiry so replicas do not refetch together
	ttl := r.baseTTL + time.Duration(rand.Int63n(int64(r.baseTTL)/10+1))
	if err := r.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func cacheKey(key string) string { return "catalog:" + key }

// Cached serves product lists from a Cache and falls back to the wrapped Source on a miss.
// Lookups search the cached full list. Cache failures are logged and never returned.
type Cached struct {
	src   Source
	cache Cache
	sfg   singleflight.Group
}

func NewCached(src Source, cache Cache) *Cached {
	return &Cached{src: src, cache: cache}
}

func (c *Cached) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.load(ctx, "products", c.src.ListProducts)
}

func (c *Cached) ListFeatured(ctx context.Context, n int) ([]domain.Product, error) {
	return c.load(ctx, fmt.Sprintf("featured:%d", n), func(ctx context.Context) ([]domain.Product, error) {
		return c.src.ListFeatured(ctx, n)
	})
}

func (c *Cached) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return Find(products, id)
}

// load collapses concurrent misses for key into one fetch. The fetch runs detached from the
// caller that started it, so one caller giving up does not fail the others; each caller still
// stops waiting when its own ctx is done.
func (c *Cached) load(ctx context.Context, key string, fetch func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	ch := c.sfg.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		products, err := c.cache.Get(fctx, key)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			applog.Error(nil, "catalog.cache.get", err, map[string]any{"key": key})
		}

		products, err = fetch(fctx)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(fctx, key, products); err != nil {
			applog.Error(nil, "catalog.cache.set", err, map[string]any{"key": key})
		}
		return products, nil
	})
	select {
	case <-ctx.Done():
		return nil, &FetchError{Op: "catalog.cache." + key, Kind: KindNetwork, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Product), nil
	}
}
