package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyEvent(eventID string) string { return "offer:current:" + eventID }

// GetOffer tenta ler a oferta corrente do cache populado pelo
// offer-processor; retorna false em cache miss
func (c *Cache) GetOffer(ctx context.Context, eventID string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyEvent(eventID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetOffer(ctx context.Context, eventID string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyEvent(eventID), b, ttl).Err()
}
