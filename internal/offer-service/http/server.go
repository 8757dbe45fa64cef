package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mugisha/virtubet-platform/internal/offer-service/cache"
	"github.com/mugisha/virtubet-platform/internal/offer-service/repo"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// API expõe os endpoints REST de consulta de ofertas e resultados
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	ReadRepo *repo.ReadRepo // acesso ao banco de dados
	Cache    *cache.Cache   // cache de ofertas
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/events", a.listEvents)             // Lista partidas da rodada corrente
	r.Get("/v1/events/{id}/offer", a.getOffer)    // Oferta completa de uma partida
	r.Get("/v1/results", a.listResults)           // Últimos placares finais
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listEvents retorna as partidas da rodada mais recente
func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	ev, err := a.ReadRepo.ListEvents(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// getOffer retorna a oferta de uma partida, preferencialmente do cache
func (a *API) getOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fromCache events.MatchOffer
	if ok, _ := a.Cache.GetOffer(r.Context(), id, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	offer, err := a.ReadRepo.GetOfferByEvent(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = a.Cache.SetOffer(r.Context(), id, offer, 30*time.Second)
	writeJSON(w, http.StatusOK, offer)
}

// listResults retorna os últimos placares finais (?limit=N, default 10)
func (a *API) listResults(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	res, err := a.ReadRepo.ListRecentResults(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
