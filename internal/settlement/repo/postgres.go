package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mugisha/virtubet-platform/internal/betting/wager"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// Postgres reúne as operações de liquidação: resultados de partidas e
// mudança de status das apostas pendentes
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{DB: db} }

// UpsertResult grava o resultado de uma partida
// A cláusula WHERE impede downgrade: um resultado "completed" nunca
// volta para "in_progress", mesmo com redelivery fora de ordem
func (r *Postgres) UpsertResult(ctx context.Context, e events.MatchResult) error {
	const q = `
		INSERT INTO match_results
		  (event_id, home_team, away_team, home_score, away_score, half_time_score, full_time_score, status, round, ts)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (event_id) DO UPDATE SET
		  home_team       = EXCLUDED.home_team,
		  away_team       = EXCLUDED.away_team,
		  home_score      = EXCLUDED.home_score,
		  away_score      = EXCLUDED.away_score,
		  half_time_score = EXCLUDED.half_time_score,
		  full_time_score = EXCLUDED.full_time_score,
		  status          = EXCLUDED.status,
		  round           = EXCLUDED.round,
		  ts              = EXCLUDED.ts
		WHERE match_results.status <> 'completed'
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.EventID, e.HomeTeam, e.AwayTeam, e.HomeScore, e.AwayScore,
		e.HalfTimeScore, e.FullTimeScore, e.Status, e.Round, e.Ts,
	)
	return err
}

// ResultsByEvents carrega os resultados conhecidos dos eventos informados
// Eventos sem resultado simplesmente não aparecem no mapa
func (r *Postgres) ResultsByEvents(ctx context.Context, eventIDs []string) (map[string]events.MatchResult, error) {
	const q = `
		SELECT event_id, home_team, away_team, home_score, away_score, half_time_score, full_time_score, status, round, ts
		FROM match_results WHERE event_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]events.MatchResult, len(eventIDs))
	for rows.Next() {
		var e events.MatchResult
		if err := rows.Scan(&e.EventID, &e.HomeTeam, &e.AwayTeam, &e.HomeScore, &e.AwayScore,
			&e.HalfTimeScore, &e.FullTimeScore, &e.Status, &e.Round, &e.Ts); err != nil {
			return nil, err
		}
		out[e.EventID] = e
	}
	return out, rows.Err()
}

// PendingWagersByEvents retorna as apostas pendentes que referenciam
// pelo menos um dos eventos (overlap no índice event_ids)
func (r *Postgres) PendingWagersByEvents(ctx context.Context, eventIDs []string) ([]wager.Wager, error) {
	const q = `
		SELECT id, owner_id, selections, stake_cents, total_odds, potential_win_cents, status, created_at, settled_at, event_ids
		FROM wagers
		WHERE status = 'pending' AND event_ids && $1`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWagers(rows)
}

// Settle aplica a transição pending -> won|lost via update condicional
// Retorna false quando outra instância já liquidou (corrida perdida),
// o que torna o processamento de lotes repetidos um no-op
func (r *Postgres) Settle(ctx context.Context, wagerID string, status wager.Status, settledAt time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE wagers SET status=$2, settled_at=$3
		WHERE id=$1 AND status='pending'`,
		wagerID, string(status), settledAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkCredited registra que o prêmio da aposta chegou à carteira
func (r *Postgres) MarkCredited(ctx context.Context, wagerID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE wagers SET credited_at=$2 WHERE id=$1 AND status='won'`, wagerID, at)
	return err
}

// WonUncredited lista apostas ganhas cujo crédito ainda não confirmou,
// insumo da varredura de reconciliação
func (r *Postgres) WonUncredited(ctx context.Context, limit int) ([]wager.Wager, error) {
	const q = `
		SELECT id, owner_id, selections, stake_cents, total_odds, potential_win_cents, status, created_at, settled_at, event_ids
		FROM wagers
		WHERE status = 'won' AND credited_at IS NULL
		ORDER BY settled_at ASC
		LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWagers(rows)
}

func collectWagers(rows *sql.Rows) ([]wager.Wager, error) {
	var out []wager.Wager
	for rows.Next() {
		var (
			w         wager.Wager
			sels      []byte
			totalOdds string
			status    string
			settledAt sql.NullTime
			eventIDs  pq.StringArray
		)
		if err := rows.Scan(&w.ID, &w.OwnerID, &sels, &w.StakeCents, &totalOdds,
			&w.PotentialWinCents, &status, &w.CreatedAt, &settledAt, &eventIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sels, &w.Selections); err != nil {
			return nil, err
		}
		odds, err := decimal.NewFromString(totalOdds)
		if err != nil {
			return nil, err
		}
		w.TotalOdds = odds
		w.Status = wager.Status(status)
		if settledAt.Valid {
			t := settledAt.Time
			w.SettledAt = &t
		}
		w.EventIDs = eventIDs
		out = append(out, w)
	}
	return out, rows.Err()
}
