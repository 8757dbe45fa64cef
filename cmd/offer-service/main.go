package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	ocache "github.com/mugisha/virtubet-platform/internal/offer-service/cache"
	ohttp "github.com/mugisha/virtubet-platform/internal/offer-service/http"
	"github.com/mugisha/virtubet-platform/internal/offer-service/repo"
	"github.com/mugisha/virtubet-platform/internal/offer-service/ws"
	sharedcache "github.com/mugisha/virtubet-platform/internal/shared/cache"
	"github.com/mugisha/virtubet-platform/internal/shared/config"
	"github.com/mugisha/virtubet-platform/internal/shared/db"
	"github.com/mugisha/virtubet-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// Postgres de leitura (ofertas e resultados)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	// Redis: cache de ofertas + canal Pub/Sub do broadcast
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	api := &ohttp.API{
		ReadRepo: &repo.ReadRepo{DB: pg},
		Cache:    ocache.New(redisClient),
	}

	// WS hub: clientes assinam partidas e recebem ofertas atualizadas
	hub := ws.NewHub(func(r *http.Request) bool { return true })

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ws.StartRedisSubscriber(ctx, redisClient, hub)

	root := chi.NewRouter()
	root.Mount("/", api.Router())
	root.Get("/ws", hub.HandleWS)

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: root,
	}

	// Servidor de métricas e health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		hctx, hcancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer hcancel()

		if err := pg.PingContext(hctx); err != nil {
			http.Error(w, "postgres not healthy: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(hctx).Err(); err != nil {
			http.Error(w, "redis not healthy: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("offer-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
