package settlement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mugisha/virtubet-platform/internal/betting/market"
	"github.com/mugisha/virtubet-platform/internal/betting/settle"
	"github.com/mugisha/virtubet-platform/internal/betting/wager"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// WagerStore é a persistência usada na liquidação (resultados + apostas)
type WagerStore interface {
	UpsertResult(ctx context.Context, e events.MatchResult) error
	ResultsByEvents(ctx context.Context, eventIDs []string) (map[string]events.MatchResult, error)
	PendingWagersByEvents(ctx context.Context, eventIDs []string) ([]wager.Wager, error)
	Settle(ctx context.Context, wagerID string, status wager.Status, settledAt time.Time) (bool, error)
	MarkCredited(ctx context.Context, wagerID string, at time.Time) error
	WonUncredited(ctx context.Context, limit int) ([]wager.Wager, error)
}

// BalanceClient credita prêmios na carteira do apostador
type BalanceClient interface {
	Credit(ctx context.Context, userID string, cents int64, externalRef string) error
}

// Publisher emite eventos de aposta liquidada
type Publisher interface {
	PublishWagerSettled(ctx context.Context, e events.WagerSettled) error
}

// Orchestrator aplica lotes de resultados sobre as apostas pendentes
//
// O caminho do prêmio tem três travas contra pagamento duplo:
// update condicional do status (só uma instância vence a corrida),
// crédito idempotente por external_ref no wallet e a marca credited_at
// que diz para a reconciliação o que ainda falta pagar
type Orchestrator struct {
	Log    *zap.Logger
	Store  WagerStore
	Wallet BalanceClient
	Pub    Publisher
	Now    func() time.Time

	OnSettled       func(status string) // métricas (counter por status)
	OnCredited      func()              // métricas
	OnUnknownMarket func(market string) // métricas
	OnError         func(stage string)  // métricas por fase
}

// CreditRef devolve o external_ref do crédito de prêmio de uma aposta
func CreditRef(wagerID string) string { return "settle-win:" + wagerID }

// Apply grava um lote de resultados e reavalia as apostas pendentes
// que tocam os eventos finalizados do lote
// Reaplicar o mesmo lote é seguro: resultados completed não regridem e
// apostas já liquidadas não são tocadas de novo
func (o *Orchestrator) Apply(ctx context.Context, batch []events.MatchResult) error {
	finals := make([]string, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, res := range batch {
		if err := o.Store.UpsertResult(ctx, res); err != nil {
			o.fail("result_upsert")
			return err
		}
		if !res.Final() {
			continue
		}
		if _, ok := seen[res.EventID]; ok {
			continue
		}
		seen[res.EventID] = struct{}{}
		finals = append(finals, res.EventID)
	}
	if len(finals) == 0 {
		return nil
	}

	pending, err := o.Store.PendingWagersByEvents(ctx, finals)
	if err != nil {
		o.fail("wager_load")
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	// Uma aposta pode depender de eventos fora do lote; carrega a união
	results, err := o.Store.ResultsByEvents(ctx, unionEventIDs(pending))
	if err != nil {
		o.fail("result_load")
		return err
	}

	for _, w := range pending {
		o.settleOne(ctx, w, results)
	}
	return nil
}

func (o *Orchestrator) settleOne(ctx context.Context, w wager.Wager, results map[string]events.MatchResult) {
	for _, sel := range w.Selections {
		if market.ParseKind(sel.Market) == market.KindUnknown {
			o.Log.Warn("unknown market on pending wager",
				zap.String("wagerId", w.ID), zap.String("market", sel.Market))
			if o.OnUnknownMarket != nil {
				o.OnUnknownMarket(sel.Market)
			}
		}
	}

	status := settle.Decide(w.Selections, results)
	if status == wager.StatusPending {
		return
	}

	now := o.Now()
	changed, err := o.Store.Settle(ctx, w.ID, status, now)
	if err != nil {
		o.Log.Error("wager settle update", zap.String("wagerId", w.ID), zap.Error(err))
		o.fail("settle_update")
		return
	}
	if !changed {
		// outra instância chegou primeiro
		return
	}
	if o.OnSettled != nil {
		o.OnSettled(string(status))
	}

	ev := events.WagerSettled{
		WagerID: w.ID,
		OwnerID: w.OwnerID,
		Status:  string(status),
		Ts:      now,
	}

	if status == wager.StatusWon {
		if err := o.Wallet.Credit(ctx, w.OwnerID, w.PotentialWinCents, CreditRef(w.ID)); err != nil {
			// status já é won; a varredura de reconciliação refaz o crédito
			o.Log.Error("payout credit failed, left for reconcile",
				zap.String("wagerId", w.ID), zap.Error(err))
			o.fail("credit")
			return
		}
		if err := o.Store.MarkCredited(ctx, w.ID, o.Now()); err != nil {
			o.Log.Warn("mark credited", zap.String("wagerId", w.ID), zap.Error(err))
		}
		if o.OnCredited != nil {
			o.OnCredited()
		}
		ev.PayoutCents = w.PotentialWinCents
	}

	if err := o.Pub.PublishWagerSettled(ctx, ev); err != nil {
		o.Log.Warn("publish wager_settled", zap.String("wagerId", w.ID), zap.Error(err))
	}

	o.Log.Info("wager settled",
		zap.String("wagerId", w.ID),
		zap.String("status", string(status)),
		zap.Int64("payoutCents", ev.PayoutCents),
	)
}

// Reconcile refaz créditos de apostas ganhas que ficaram sem pagamento
// (queda entre o update de status e o crédito)
// O wallet é idempotente por external_ref, então repetir o crédito de
// uma aposta já paga não altera saldo
func (o *Orchestrator) Reconcile(ctx context.Context, limit int) error {
	ws, err := o.Store.WonUncredited(ctx, limit)
	if err != nil {
		o.fail("reconcile_load")
		return err
	}
	for _, w := range ws {
		if err := o.Wallet.Credit(ctx, w.OwnerID, w.PotentialWinCents, CreditRef(w.ID)); err != nil {
			o.Log.Error("reconcile credit", zap.String("wagerId", w.ID), zap.Error(err))
			o.fail("credit")
			continue
		}
		if err := o.Store.MarkCredited(ctx, w.ID, o.Now()); err != nil {
			o.Log.Warn("mark credited", zap.String("wagerId", w.ID), zap.Error(err))
			continue
		}
		if o.OnCredited != nil {
			o.OnCredited()
		}
		o.Log.Info("reconciled payout", zap.String("wagerId", w.ID),
			zap.Int64("payoutCents", w.PotentialWinCents))
	}
	return nil
}

func (o *Orchestrator) fail(stage string) {
	if o.OnError != nil {
		o.OnError(stage)
	}
}

func unionEventIDs(ws []wager.Wager) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range ws {
		for _, id := range w.EventIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
