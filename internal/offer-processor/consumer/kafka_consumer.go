package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/offer-processor/cache"
	"github.com/mugisha/virtubet-platform/internal/offer-processor/pubsub"
	"github.com/mugisha/virtubet-platform/internal/offer-processor/repository"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// Processor consome ofertas de partidas do Kafka, faz cache e persiste no banco
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log         *zap.Logger
	Reader      *kafka.Reader
	Repo        *repository.PostgresRepo
	Cache       *cache.RedisCache
	Broadcaster *pubsub.RedisBroadcaster
	Channel     string

	OnConsumed func()       // métricas (counter++)
	OnCached   func()       // métricas
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase

	round int
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var ev events.MatchOffer
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.EventID == "" {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			continue
		}

		p.trackRound(ctx, ev)

		// Atualiza cache Redis com a oferta corrente
		if err := p.Cache.SetCurrent(ctx, ev); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
			// não bloqueia persistência se falhar o cache
		} else if p.OnCached != nil {
			p.OnCached() // callback de métrica: cache atualizado
		}

		// Persiste/atualiza oferta corrente e histórico no Postgres
		if err := p.Repo.UpsertCurrent(ctx, ev); err != nil {
			p.Log.Warn("db upsert failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_upsert")
			}
			continue
		}
		if err := p.Repo.InsertHistory(ctx, ev); err != nil {
			p.Log.Warn("db insert history failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_history")
			}
			continue
		}
		if p.OnPersist != nil {
			p.OnPersist() // callback de métrica: persistência concluída
		}

		// Broadcast para os WS conectados no offer-service
		if p.Broadcaster != nil {
			payload, _ := json.Marshal(pubsub.WSUpdate{EventID: ev.EventID, Payload: ev})
			if err := p.Broadcaster.Publish(ctx, p.Channel, payload); err != nil {
				p.Log.Warn("redis publish failed", zap.Error(err))
				if p.OnError != nil {
					p.OnError("broadcast")
				}
			}
		}
	}
}

// trackRound zera o índice da rodada no cache quando a primeira oferta
// de uma rodada nova chega; SetCurrent reinsere cada event_id depois
func (p *Processor) trackRound(ctx context.Context, ev events.MatchOffer) {
	if ev.Round > p.round {
		p.round = ev.Round
		if err := p.Cache.ResetRound(ctx, nil); err != nil {
			p.Log.Warn("round reset failed", zap.Error(err))
		}
	}
}
