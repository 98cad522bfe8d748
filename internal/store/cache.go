package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/listenlabs/swapindexer-engine/pkg/models"
)

// Cache implements the price:{mint} and metadata:{mint} KV sinks
// described in the external-interfaces section: two narrowly-typed
// wrappers over the same shared *redis.Client the Store uses for
// pipelines.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) PutPrice(ctx context.Context, mint string, update models.PriceUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal price update: %w", err)
	}
	return c.client.Set(ctx, "price:"+mint, data, 0).Err()
}

func (c *Cache) GetMetadata(ctx context.Context, mint string) (*models.TokenMetadata, error) {
	data, err := c.client.Get(ctx, "metadata:"+mint).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", mint, err)
	}
	var m models.TokenMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal metadata %s: %w", mint, err)
	}
	return &m, nil
}

func (c *Cache) PutMetadata(ctx context.Context, mint string, meta models.TokenMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return c.client.Set(ctx, "metadata:"+mint, data, 0).Err()
}
