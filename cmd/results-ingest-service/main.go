package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/results-ingest/publisher"
	"github.com/mugisha/virtubet-platform/internal/results-ingest/service"
	"github.com/mugisha/virtubet-platform/internal/shared/config"
	"github.com/mugisha/virtubet-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brokers := strings.Split(cfg.KafkaBrokers, ",")

	// Um publisher por tópico do feed
	offers := publisher.NewKafkaPublisher(brokers, cfg.TopicMatchOffers, log)
	defer offers.Close()
	results := publisher.NewKafkaPublisher(brokers, cfg.TopicMatchResults, log)
	defer results.Close()

	ingested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_feed_messages_total",
		Help: "mensagens do feed roteadas por tipo",
	}, []string{"type"})
	prometheus.MustRegister(ingested)

	// WS Client
	wsClient := &service.WSClient{
		URL:        cfg.FeedWSURL,
		Log:        log,
		Offers:     offers,
		Results:    results,
		OnIngested: func(kind string) { ingested.WithLabelValues(kind).Inc() },
	}
	go wsClient.Start(ctx)

	// Metrics e health
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}
