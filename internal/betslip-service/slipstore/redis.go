package slipstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mugisha/virtubet-platform/internal/betting/slip"
)

// Store guarda o rascunho de betslip de cada usuário no Redis
// O slip é estado transitório de UI; some sozinho depois do TTL
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(c *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: c, TTL: ttl}
}

func key(userID string) string { return "slip:" + userID }

// Get retorna o slip atual do usuário; ausência vira slip vazio
func (s *Store) Get(ctx context.Context, userID string) (slip.Slip, error) {
	b, err := s.Client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return slip.Slip{}, nil
	}
	if err != nil {
		return slip.Slip{}, err
	}
	var out slip.Slip
	if err := json.Unmarshal(b, &out); err != nil {
		return slip.Slip{}, err
	}
	return out, nil
}

// Save persiste o slip com TTL renovado
func (s *Store) Save(ctx context.Context, userID string, sl slip.Slip) error {
	b, err := json.Marshal(sl)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(userID), b, s.TTL).Err()
}

// Clear descarta o rascunho (após commit ou limpeza explícita)
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, key(userID)).Err()
}
