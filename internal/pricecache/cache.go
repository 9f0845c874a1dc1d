package pricecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
)

// Cache keeps the last good feed entry per product in redis. When a fetch
// run fails for one product, the cached entry stands in so the written feed
// does not regress to "N/A" for a transient error.
type Cache struct {
	rdb *redis.Client
	TTL time.Duration
}

func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Cache{rdb: redis.NewClient(opts), TTL: 7 * 24 * time.Hour}, nil
}

func (c *Cache) Put(ctx context.Context, e model.PriceEntry) error {
	if e.MatchKey == "" {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(e.MatchKey), data, c.TTL).Err()
}

func (c *Cache) Get(ctx context.Context, matchKey string) (model.PriceEntry, bool) {
	data, err := c.rdb.Get(ctx, key(matchKey)).Bytes()
	if err != nil {
		return model.PriceEntry{}, false
	}
	var e model.PriceEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return model.PriceEntry{}, false
	}
	return e, true
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func key(matchKey string) string {
	return "price:last_good:" + matchKey
}
