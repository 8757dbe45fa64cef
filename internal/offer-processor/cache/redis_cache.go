package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// RedisCache encapsula o cache da oferta corrente de cada partida
// Client: cliente Redis
// TTL: tempo de expiração dos registros (ofertas viram lixo quando a
// rodada seguinte chega, o TTL só garante a limpeza)
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis da oferta corrente de uma partida
func key(eventID string) string { return "offer:current:" + eventID }

// roundKey indexa os event_ids da rodada corrente
const roundKey = "offer:round:current"

// SetCurrent armazena a oferta corrente de uma partida no Redis
func (r *RedisCache) SetCurrent(ctx context.Context, e events.MatchOffer) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, key(e.EventID), b, r.TTL).Err(); err != nil {
		return err
	}
	return r.Client.SAdd(ctx, roundKey, e.EventID).Err()
}

// GetCurrent devolve a oferta corrente de uma partida, se presente
func (r *RedisCache) GetCurrent(ctx context.Context, eventID string) (*events.MatchOffer, error) {
	b, err := r.Client.Get(ctx, key(eventID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e events.MatchOffer
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ResetRound troca o índice da rodada pelos event_ids informados
// Chamado quando uma oferta de rodada nova chega
func (r *RedisCache) ResetRound(ctx context.Context, eventIDs []string) error {
	pipe := r.Client.TxPipeline()
	pipe.Del(ctx, roundKey)
	if len(eventIDs) > 0 {
		members := make([]any, len(eventIDs))
		for i, id := range eventIDs {
			members[i] = id
		}
		pipe.SAdd(ctx, roundKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// CurrentRoundEventIDs lista os event_ids da rodada corrente
func (r *RedisCache) CurrentRoundEventIDs(ctx context.Context) ([]string, error) {
	return r.Client.SMembers(ctx, roundKey).Result()
}
