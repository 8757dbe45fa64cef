package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/settlement"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// Worker consome resultados de partidas do Kafka e aciona a liquidação
// Mensagens que não decodificam vão para a DLQ (quando configurada);
// erro de processamento não comita avanço, a mensagem volta no retry
type Worker struct {
	Log          *zap.Logger
	Reader       *kafka.Reader
	Orchestrator *settlement.Orchestrator
	DLQ          *kafka.Writer

	OnConsumed func()       // métricas (counter++)
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo de resultados
func (w *Worker) Run(ctx context.Context) error {
	for {
		m, err := w.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.Log.Warn("kafka read failed", zap.Error(err))
			if w.OnError != nil {
				w.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if w.OnConsumed != nil {
			w.OnConsumed()
		}

		var res events.MatchResult
		if err := json.Unmarshal(m.Value, &res); err != nil || res.EventID == "" {
			w.Log.Warn("invalid match_result message", zap.Error(err))
			if w.OnError != nil {
				w.OnError("decode")
			}
			if w.DLQ != nil {
				_ = w.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value})
			}
			continue
		}

		if err := w.Orchestrator.Apply(ctx, []events.MatchResult{res}); err != nil {
			w.Log.Error("settlement apply failed",
				zap.String("eventId", res.EventID), zap.Error(err))
			if w.OnError != nil {
				w.OnError("apply")
			}
			// backoff simples; reaplicar o mesmo resultado é seguro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// RunReconcileLoop roda a varredura de créditos pendentes em intervalo fixo
func (w *Worker) RunReconcileLoop(ctx context.Context, every time.Duration, batch int) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := w.Orchestrator.Reconcile(ctx, batch); err != nil {
				w.Log.Warn("reconcile sweep failed", zap.Error(err))
			}
		}
	}
}
