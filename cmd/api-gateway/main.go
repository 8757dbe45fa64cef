package main

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/shared/config"
	"github.com/mugisha/virtubet-platform/internal/shared/logger"
	"github.com/mugisha/virtubet-platform/internal/shared/metrics"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	offersURL := os.Getenv("OFFERS_URL")
	if offersURL == "" {
		offersURL = "http://localhost:8080"
	}
	walletURL := os.Getenv("WALLET_URL")
	if walletURL == "" {
		walletURL = "http://localhost:8082"
	}
	betslipURL := os.Getenv("BETSLIP_URL")
	if betslipURL == "" {
		betslipURL = "http://localhost:8083"
	}
	offers := rp(offersURL)
	wallet := rp(walletURL)
	betslip := rp(betslipURL)

	mux := http.NewServeMux()

	// ofertas e resultados (ex.: /api/offers/* -> offer-service)
	mux.Handle("/api/offers/", http.StripPrefix("/api/offers", offers))

	// wallet (ex.: /api/wallet/* -> wallet-service)
	mux.Handle("/api/wallet/", http.StripPrefix("/api/wallet", wallet))

	// slip e apostas (ex.: /api/bets/* -> betslip-service)
	mux.Handle("/api/bets/", http.StripPrefix("/api/bets", betslip))

	// métricas e health do próprio gateway
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
