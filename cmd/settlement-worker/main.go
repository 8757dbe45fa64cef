package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/settlement"
	"github.com/mugisha/virtubet-platform/internal/settlement/consumer"
	"github.com/mugisha/virtubet-platform/internal/settlement/producer"
	srepo "github.com/mugisha/virtubet-platform/internal/settlement/repo"
	"github.com/mugisha/virtubet-platform/internal/shared/config"
	"github.com/mugisha/virtubet-platform/internal/shared/db"
	"github.com/mugisha/virtubet-platform/internal/shared/kafka"
	"github.com/mugisha/virtubet-platform/internal/shared/logger"
	"github.com/mugisha/virtubet-platform/internal/walletclient"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres: resultados de partidas e apostas pendentes
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer (consumer group settlement-worker)
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMatchResults, "settlement-worker")
	defer reader.Close()

	// Kafka producer: wager_settled e DLQ de resultados inválidos
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
	defer settledWriter.Close()

	var dlqWriter *kafka.Writer
	if cfg.TopicMatchResultsDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMatchResultsDLQ)
		defer dlqWriter.Close()
	}

	// Métricas Prometheus para monitoramento da liquidação
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_results_consumed_total", Help: "resultados consumidos"})
	settled := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_wagers_settled_total", Help: "apostas liquidadas por status"}, []string{"status"})
	credited := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_payouts_credited_total", Help: "prêmios creditados"})
	unknownMkt := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_unknown_markets_total", Help: "seleções com mercado desconhecido"}, []string{"market"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, settled, credited, unknownMkt, errorsBy)

	orch := &settlement.Orchestrator{
		Log:             log,
		Store:           srepo.NewPostgres(pg),
		Wallet:          walletclient.New(cfg.WalletURL),
		Pub:             producer.NewKafkaPublisher(settledWriter),
		Now:             func() time.Time { return time.Now().UTC() },
		OnSettled:       func(status string) { settled.WithLabelValues(status).Inc() },
		OnCredited:      func() { credited.Inc() },
		OnUnknownMarket: func(m string) { unknownMkt.WithLabelValues(m).Inc() },
		OnError:         func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	worker := &consumer.Worker{
		Log:          log,
		Reader:       reader,
		Orchestrator: orch,
		DLQ:          dlqWriter,
		OnConsumed:   func() { consumed.Inc() },
		OnError:      func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Varredura periódica de prêmios não creditados
	go worker.RunReconcileLoop(ctx, 30*time.Second, 100)

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicMatchResults),
		zap.String("publish", cfg.TopicWagerSettled),
	)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("worker stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
