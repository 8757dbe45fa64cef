package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/betslip-service/dto"
	"github.com/mugisha/virtubet-platform/internal/betting/slip"
	"github.com/mugisha/virtubet-platform/internal/betting/wager"
	"github.com/mugisha/virtubet-platform/internal/walletclient"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// WagerRepo é a persistência de apostas usada pelo handler
type WagerRepo interface {
	Create(ctx context.Context, w wager.Wager) error
	GetByID(ctx context.Context, id string) (wager.Wager, error)
	ListByOwner(ctx context.Context, ownerID, status string) ([]wager.Wager, error)
}

// SlipStore guarda o rascunho de slip por usuário (Redis em produção)
type SlipStore interface {
	Get(ctx context.Context, userID string) (slip.Slip, error)
	Save(ctx context.Context, userID string, s slip.Slip) error
	Clear(ctx context.Context, userID string) error
}

// Publisher emite o evento de aposta feita
type Publisher interface {
	PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error
}

// Server expõe a API do betslip: mutações do rascunho, leitura dos valores
// derivados e o commit que congela o slip em aposta
type Server struct {
	log   *zap.Logger
	slips SlipStore
	repo  WagerRepo
	wcli  *walletclient.Client
	publ  Publisher
}

func NewServer(log *zap.Logger, slips SlipStore, repo WagerRepo, wcli *walletclient.Client, publ Publisher) *Server {
	return &Server{log: log, slips: slips, repo: repo, wcli: wcli, publ: publ}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/slip", s.getSlip)
	r.Post("/v1/slip/selections", s.applySelection)
	r.Delete("/v1/slip/selections/{id}", s.removeSelection)
	r.Put("/v1/slip/stake", s.setStake)
	r.Put("/v1/slip/open", s.setOpen)
	r.Delete("/v1/slip", s.clearSlip)
	r.Post("/v1/wagers", s.commit)
	r.Get("/v1/wagers", s.listWagers)
	r.Get("/v1/wagers/{id}", s.getWager)
	return r
}

func userID(r *http.Request) string { return r.URL.Query().Get("userId") }

// getSlip devolve o rascunho com odd combinada e retorno potencial
func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	sl, err := s.slips.Get(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSlipResponse(sl))
}

// applySelection aplica uma seleção com semântica de toggle:
// clique repetido remove, outra odd da mesma partida substitui
func (s *Server) applySelection(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplySelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.EventID == "" || req.Market == "" || req.Outcome == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	odds, err := decimal.NewFromString(req.Odds)
	if err != nil || !odds.IsPositive() {
		http.Error(w, "invalid odds", http.StatusBadRequest)
		return
	}

	sl, err := s.slips.Get(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sl = sl.Apply(slip.NewSelection(req.EventID, req.HomeTeam, req.AwayTeam, req.Market, req.Outcome, odds))
	if err := s.slips.Save(r.Context(), req.UserID, sl); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSlipResponse(sl))
}

// removeSelection tira uma seleção pelo id composto; no-op se ausente
func (s *Server) removeSelection(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")
	if uid == "" || id == "" {
		http.Error(w, "userId and id required", http.StatusBadRequest)
		return
	}
	sl, err := s.slips.Get(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sl = sl.Remove(id)
	if err := s.slips.Save(r.Context(), uid, sl); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSlipResponse(sl))
}

// setStake define o stake; negativos são levados a zero no domínio
func (s *Server) setStake(w http.ResponseWriter, r *http.Request) {
	var req dto.SetStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	sl, err := s.slips.Get(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sl = sl.WithStake(req.StakeCents)
	if err := s.slips.Save(r.Context(), req.UserID, sl); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSlipResponse(sl))
}

// setOpen alterna a visibilidade do slip na UI
func (s *Server) setOpen(w http.ResponseWriter, r *http.Request) {
	var req dto.SetOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	sl, err := s.slips.Get(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sl = sl.WithOpen(req.IsOpen)
	if err := s.slips.Save(r.Context(), req.UserID, sl); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSlipResponse(sl))
}

// clearSlip descarta o rascunho inteiro
func (s *Server) clearSlip(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	if err := s.slips.Clear(r.Context(), uid); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSlipResponse(slip.Slip{}))
}

// commit congela o slip em aposta: débito do stake na carteira e insert
// da aposta, nessa ordem; se o insert falhar o débito é estornado
// (compensação) para não sobrar débito órfão
func (s *Server) commit(w http.ResponseWriter, r *http.Request) {
	var req dto.CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}

	sl, err := s.slips.Get(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	wg, err := wager.New(req.UserID, sl, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, wager.ErrEmptySlip):
			http.Error(w, "empty slip", http.StatusUnprocessableEntity)
		case errors.Is(err, wager.ErrInvalidStake):
			http.Error(w, "invalid stake", http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// 1) Debita o stake (idempotente por wagerID no wallet)
	if _, err := s.wcli.Debit(r.Context(), req.UserID, wg.StakeCents, wg.ID); err != nil {
		if errors.Is(err, walletclient.ErrInsufficientFunds) {
			http.Error(w, "insufficient balance", http.StatusConflict)
			return
		}
		http.Error(w, "wallet debit failed", http.StatusBadGateway)
		return
	}

	// 2) Persiste a aposta congelada; falha aqui estorna o débito
	if err := s.repo.Create(r.Context(), wg); err != nil {
		s.log.Error("wager insert failed, refunding stake",
			zap.String("wagerId", wg.ID), zap.Error(err))
		if rerr := s.wcli.Refund(r.Context(), req.UserID, wg.ID); rerr != nil {
			// estorno falho fica para conciliação manual via ledger
			s.log.Error("stake refund failed", zap.String("wagerId", wg.ID), zap.Error(rerr))
		}
		http.Error(w, "wager create failed", http.StatusInternalServerError)
		return
	}

	// 3) Limpa o rascunho e publica o evento
	if err := s.slips.Clear(r.Context(), req.UserID); err != nil {
		s.log.Warn("slip clear failed", zap.String("userId", req.UserID), zap.Error(err))
	}
	_ = s.publ.PublishWagerPlaced(r.Context(), events.WagerPlaced{
		WagerID:           wg.ID,
		OwnerID:           wg.OwnerID,
		EventIDs:          wg.EventIDs,
		Selections:        len(wg.Selections),
		StakeCents:        wg.StakeCents,
		TotalOdds:         wg.TotalOdds.String(),
		PotentialWinCents: wg.PotentialWinCents,
		DebitRef:          wg.ID,
	})

	writeJSON(w, http.StatusCreated, wg)
}

// listWagers devolve o histórico do usuário; ?status=pending|won|lost filtra
func (s *Server) listWagers(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	status := r.URL.Query().Get("status")
	switch status {
	case "", "pending", "won", "lost":
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	ws, err := s.repo.ListByOwner(r.Context(), uid, status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ws == nil {
		ws = []wager.Wager{}
	}
	writeJSON(w, http.StatusOK, ws)
}

// getWager devolve uma aposta pelo id
func (s *Server) getWager(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wg, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, wg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
