package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bhttp "github.com/mugisha/virtubet-platform/internal/betslip-service/http"
	kpub "github.com/mugisha/virtubet-platform/internal/betslip-service/producer"
	"github.com/mugisha/virtubet-platform/internal/betslip-service/repo"
	"github.com/mugisha/virtubet-platform/internal/betslip-service/slipstore"
	sharedcache "github.com/mugisha/virtubet-platform/internal/shared/cache"
	"github.com/mugisha/virtubet-platform/internal/shared/config"
	"github.com/mugisha/virtubet-platform/internal/shared/db"
	"github.com/mugisha/virtubet-platform/internal/shared/kafka"
	"github.com/mugisha/virtubet-platform/internal/shared/logger"
	"github.com/mugisha/virtubet-platform/internal/walletclient"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres (apostas comprometidas)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis (rascunhos de slip por usuário)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic wager_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	slips := &slipstore.Store{Client: rdb, TTL: 24 * time.Hour}
	wcli := walletclient.New(cfg.WalletURL)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicWagerPlaced)

	// HTTP público
	api := bhttp.NewServer(log, slips, repository, wcli, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("betslip-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
