package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/results-ingest/publisher"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// WSClient consome o feed WebSocket do simulador de partidas virtuais
// e roteia cada mensagem para o tópico Kafka correspondente:
// ofertas para match_offers, resultados para match_results.
type WSClient struct {
	URL     string                    // URL do endpoint WebSocket do feed
	Log     *zap.Logger               // Logger estruturado
	Offers  *publisher.KafkaPublisher // tópico match_offers
	Results *publisher.KafkaPublisher // tópico match_results

	OnIngested func(kind string) // métricas (counter por tipo)
}

// Start inicia o loop de conexão e escuta do WebSocket.
// Em caso de desconexão, tenta reconectar automaticamente com backoff.
func (c *WSClient) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("context canceled, stopping WS client")
			return
		default:
			if err := c.connectAndListen(ctx); err != nil {
				c.Log.Warn("connection closed", zap.Error(err))
				time.Sleep(3 * time.Second) // Aguarda antes de tentar reconectar
			}
		}
	}
}

// connectAndListen estabelece a conexão WebSocket e processa mensagens recebidas.
func (c *WSClient) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("connected to feed WS", zap.String("url", c.URL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.Error("read message failed", zap.Error(err))
			return err
		}

		if err := c.Route(ctx, message); err != nil {
			c.Log.Error("failed to publish to Kafka", zap.Error(err))
		}
	}
}

// Route decodifica o envelope do feed e publica no tópico certo.
// Mensagens de tipo desconhecido ou sem event_id são descartadas com log.
func (c *WSClient) Route(ctx context.Context, raw []byte) error {
	var msg events.FeedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.Log.Warn("invalid feed envelope", zap.Error(err))
		return nil
	}

	switch msg.Type {
	case events.FeedTypeOffer:
		var offer events.MatchOffer
		if err := json.Unmarshal(msg.Payload, &offer); err != nil || offer.EventID == "" {
			c.Log.Warn("invalid offer payload", zap.Error(err))
			return nil
		}
		if err := c.Offers.Publish(ctx, offer.EventID, offer); err != nil {
			return err
		}
	case events.FeedTypeResult:
		var res events.MatchResult
		if err := json.Unmarshal(msg.Payload, &res); err != nil || res.EventID == "" {
			c.Log.Warn("invalid result payload", zap.Error(err))
			return nil
		}
		if err := c.Results.Publish(ctx, res.EventID, res); err != nil {
			return err
		}
	default:
		c.Log.Warn("unknown feed message type", zap.String("type", msg.Type))
		return nil
	}

	if c.OnIngested != nil {
		c.OnIngested(msg.Type)
	}
	return nil
}
