package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// PostgresRepo implementa a persistência de ofertas de partidas virtuais
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertCurrent insere ou atualiza a oferta corrente de uma partida na
// tabela offers_current. Utiliza ON CONFLICT para garantir atomicidade
// e evitar duplicidade por event_id
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, e events.MatchOffer) error {
	markets, err := json.Marshal(e.Markets)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO offers_current
		  (event_id, home_team, away_team, round, kickoff_at, markets, source, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (event_id) DO UPDATE SET
		  home_team  = EXCLUDED.home_team,
		  away_team  = EXCLUDED.away_team,
		  round      = EXCLUDED.round,
		  kickoff_at = EXCLUDED.kickoff_at,
		  markets    = EXCLUDED.markets,
		  source     = EXCLUDED.source,
		  updated_at = EXCLUDED.updated_at
	`
	_, err = r.DB.ExecContext(ctx, q,
		e.EventID, e.HomeTeam, e.AwayTeam, e.Round, e.KickoffAt,
		markets, e.Source, e.UpdatedAt,
	)
	return err
}

// InsertHistory insere a oferta no histórico (offers_history), mantendo
// a trilha do que foi ofertado em cada rodada
func (r *PostgresRepo) InsertHistory(ctx context.Context, e events.MatchOffer) error {
	markets, err := json.Marshal(e.Markets)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO offers_history
		  (event_id, round, markets, updated_at)
		VALUES
		  ($1,$2,$3,$4)
	`
	_, err = r.DB.ExecContext(ctx, q, e.EventID, e.Round, markets, e.UpdatedAt)
	return err
}
