package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"boq-ai/internal/model"
)

type BoqCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewBoqCache(client *redisv9.Client, ttl time.Duration) *BoqCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &BoqCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *BoqCache) GetBoq(ctx context.Context, planID string) (*model.BoqSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.boqKey(planID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get boq failed: %w", err)
	}

	var entry model.BoqSnapshot
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached boq failed: %w", err)
	}
	return &entry, true, nil
}

func (c *BoqCache) SetBoq(ctx context.Context, entry model.BoqSnapshot) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal boq cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.boqKey(entry.PlanID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set boq failed: %w", err)
	}
	return nil
}

func (c *BoqCache) DeleteBoq(ctx context.Context, planID string) error {
	if err := c.client.Del(ctx, c.boqKey(planID)).Err(); err != nil {
		return fmt.Errorf("redis delete boq failed: %w", err)
	}
	return nil
}

func (c *BoqCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *BoqCache) boqKey(planID string) string {
	return "boq:plan:" + planID
}
