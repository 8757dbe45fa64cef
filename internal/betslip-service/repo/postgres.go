package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mugisha/virtubet-platform/internal/betting/slip"
	"github.com/mugisha/virtubet-platform/internal/betting/wager"
)

// Postgres implementa a persistência de apostas comprometidas
// Apostas nunca são deletadas (trilha de auditoria); o status só muda
// via update condicional feito pelo settlement-worker
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Create insere a aposta congelada com status pending
func (p *Postgres) Create(ctx context.Context, w wager.Wager) error {
	sels, err := json.Marshal(w.Selections)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO wagers
		  (id, owner_id, selections, stake_cents, total_odds, potential_win_cents, status, created_at, event_ids)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		w.ID, w.OwnerID, sels, w.StakeCents, w.TotalOdds.String(),
		w.PotentialWinCents, string(w.Status), w.CreatedAt, pq.Array(w.EventIDs),
	)
	return err
}

// GetByID retorna uma aposta pelo id
func (p *Postgres) GetByID(ctx context.Context, id string) (wager.Wager, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, owner_id, selections, stake_cents, total_odds, potential_win_cents, status, created_at, settled_at, event_ids
		FROM wagers WHERE id=$1`, id)
	return scanWager(row)
}

// ListByOwner retorna as apostas do usuário, mais recentes primeiro
// status vazio lista tudo (histórico de apostas)
func (p *Postgres) ListByOwner(ctx context.Context, ownerID, status string) ([]wager.Wager, error) {
	const q = `
		SELECT id, owner_id, selections, stake_cents, total_odds, potential_win_cents, status, created_at, settled_at, event_ids
		FROM wagers
		WHERE owner_id=$1 AND ($2 = '' OR status=$2)
		ORDER BY created_at DESC`
	rows, err := p.db.QueryContext(ctx, q, ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wager.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWager(row scanner) (wager.Wager, error) {
	var (
		w         wager.Wager
		sels      []byte
		totalOdds string
		status    string
		settledAt sql.NullTime
		eventIDs  pq.StringArray
	)
	if err := row.Scan(&w.ID, &w.OwnerID, &sels, &w.StakeCents, &totalOdds,
		&w.PotentialWinCents, &status, &w.CreatedAt, &settledAt, &eventIDs); err != nil {
		return wager.Wager{}, err
	}
	if err := json.Unmarshal(sels, &w.Selections); err != nil {
		return wager.Wager{}, err
	}
	odds, err := decimal.NewFromString(totalOdds)
	if err != nil {
		return wager.Wager{}, err
	}
	w.TotalOdds = odds
	w.Status = wager.Status(status)
	if settledAt.Valid {
		t := settledAt.Time
		w.SettledAt = &t
	}
	w.EventIDs = eventIDs
	if w.Selections == nil {
		w.Selections = []slip.Selection{}
	}
	return w, nil
}
