package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/triage-service/internal/domain"
)

const latestBatchKey = "triage:latest"

// BatchCache keeps the most recent processed batch in Redis so dashboard
// reads skip the snapshot file. Every method is safe on a nil cache or nil
// client; cache trouble can only ever cause a miss.
type BatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBatchCache(client *redis.Client, ttl time.Duration) *BatchCache {
	return &BatchCache{client: client, ttl: ttl}
}

// Store caches the batch under the latest key, replacing any previous one.
func (c *BatchCache) Store(ctx context.Context, batch domain.Batch) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, latestBatchKey, payload, c.ttl).Err()
}

// Latest returns the cached batch, reporting false on a miss or any error.
func (c *BatchCache) Latest(ctx context.Context) (domain.Batch, bool) {
	if c == nil || c.client == nil {
		return domain.Batch{}, false
	}
	payload, err := c.client.Get(ctx, latestBatchKey).Bytes()
	if err != nil {
		return domain.Batch{}, false
	}
	var batch domain.Batch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return domain.Batch{}, false
	}
	return batch, true
}

// Invalidate drops the cached batch.
func (c *BatchCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, latestBatchKey).Err()
}
