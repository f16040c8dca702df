package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"bharathbhent-backend/internal/models"
)

var ErrMiss = errors.New("cache miss")

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// Redis caches product documents as JSON.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, id string) (*models.Product, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Redis) Set(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(p.ID.Hex()), raw, c.ttl).Err()
}

func (c *Redis) Del(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Product, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, *models.Product) error           { return nil }
func (Noop) Del(context.Context, ...string) error                 { return nil }
