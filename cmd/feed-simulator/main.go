package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/feed-simulator/engine"
	"github.com/mugisha/virtubet-platform/internal/shared/config"
	"github.com/mugisha/virtubet-platform/internal/shared/logger"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feed_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
	roundsPlayed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_rounds_played_total",
		Help: "Rodadas virtuais concluídas",
	})
)

// Representa uma conexão de cliente WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// Estrutura responsável por gerenciar os clientes conectados via WebSocket
// e realizar broadcast de mensagens para todos eles.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

// Adiciona um novo cliente ao hub e incrementa a métrica de conexões
func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

// Remove um cliente do hub e decrementa a métrica de conexões
func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

// Envia uma mensagem do feed para todos os clientes conectados
func (h *hub) broadcast(msgType string, payload any) {
	b, _ := json.Marshal(payload)
	msg, _ := json.Marshal(events.FeedMessage{Type: msgType, Payload: b})

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(wsConnections, wsMessagesSent, roundsPlayed)

	h := newHub(log)
	eng := engine.New(time.Now().UnixNano(), "feed-simulator")

	// Ciclo da rodada virtual: oferta, intervalo e placar final
	// Cada rodada dura 90s: ofertas em t0, parciais em t+30s, finais em t+60s
	go func() {
		for {
			kickoff := time.Now().UTC().Add(30 * time.Second)
			offers := eng.NextRound(kickoff)
			for _, offer := range offers {
				h.broadcast(events.FeedTypeOffer, offer)
			}
			log.Info("round offered", zap.Int("round", eng.Round()), zap.Int("matches", len(offers)))
			time.Sleep(30 * time.Second)

			// partidas decididas no kickoff; parciais de meio tempo primeiro
			finals := make([]events.MatchResult, 0, len(offers))
			for _, offer := range offers {
				final := eng.Play(offer, time.Now().UTC())
				finals = append(finals, final)
				h.broadcast(events.FeedTypeResult, engine.HalfTime(final, time.Now().UTC()))
			}
			time.Sleep(30 * time.Second)

			for _, final := range finals {
				final.Ts = time.Now().UTC()
				h.broadcast(events.FeedTypeResult, final)
			}
			roundsPlayed.Inc()
			log.Info("round completed", zap.Int("round", eng.Round()))
			time.Sleep(30 * time.Second)
		}
	}()

	// ==== MUX PÚBLICO (HTTP principal): /ws
	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				// Lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	// Servidor de métricas em goroutine
	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("feed simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// Servidor público (WS do feed)
	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("feed simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
