package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"shop-backend-service/internal/entity"
)

// RedisProductCache implements ProductCache on a redis client, storing
// products as JSON under "product:<id>".
type RedisProductCache struct {
	rdb *redis.Client
}

func NewRedisProductCache(rdb *redis.Client) *RedisProductCache {
	return &RedisProductCache{rdb: rdb}
}

func cacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id string) (*entity.Product, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product entity.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *entity.Product, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(p.ID.Hex()), raw, ttl).Err()
}

func (c *RedisProductCache) Del(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, cacheKey(id)).Err()
}
