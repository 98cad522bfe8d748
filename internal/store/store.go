// Package store implements the pipeline store (component H): a
// Redis-backed key-value layer persisting user-owned pipeline graphs
// under pipeline:{user_id}:{id}.
//
// Grounded on ethdb/redisdb's simpleClient interface (Keys/MGet/Get/
// Set/Del) and its batched-multi-get shape, adapted from a generic
// byte-oriented KeyValueStore into a Pipeline-typed store.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
)

const scanBatchSize = 100

// Store wraps a shared *redis.Client handle — cheap to copy, safe for
// concurrent use, the same "shared immutable handle" shape the spec's
// resource model calls for.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userID string, id uuid.UUID) string {
	return fmt.Sprintf("pipeline:%s:%s", userID, id.String())
}

func (s *Store) Save(ctx context.Context, p *pipeline.Pipeline) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pipeline: %w", err)
	}
	if err := s.client.Set(ctx, key(p.UserID, p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("save pipeline %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.client.Del(ctx, key(userID, id)).Err(); err != nil {
		return fmt.Errorf("delete pipeline %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, userID string, id uuid.UUID) (*pipeline.Pipeline, error) {
	data, err := s.client.Get(ctx, key(userID, id)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("get pipeline %s: %w", id, err)
	}
	var p pipeline.Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pipeline %s: %w", id, err)
	}
	return &p, nil
}

// GetAll scans the full pipeline:* keyspace and returns every pipeline,
// batching the value fetch at scanBatchSize keys per MGET round trip.
func (s *Store) GetAll(ctx context.Context) ([]*pipeline.Pipeline, error) {
	return s.scanAndGet(ctx, "pipeline:*")
}

// GetUserPipelines scans only the given user's pipelines.
func (s *Store) GetUserPipelines(ctx context.Context, userID string) ([]*pipeline.Pipeline, error) {
	return s.scanAndGet(ctx, fmt.Sprintf("pipeline:%s:*", userID))
}

func (s *Store) scanAndGet(ctx context.Context, match string) ([]*pipeline.Pipeline, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", match, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	var pipelines []*pipeline.Pipeline
	for i := 0; i < len(keys); i += scanBatchSize {
		end := i + scanBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		values, err := s.client.MGet(ctx, keys[i:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("mget pipelines: %w", err)
		}
		for _, v := range values {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var p pipeline.Pipeline
			if err := json.Unmarshal([]byte(str), &p); err != nil {
				continue
			}
			pipelines = append(pipelines, &p)
		}
	}
	return pipelines, nil
}
