package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mugisha/virtubet-platform/internal/offer-service/dto"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

type ReadRepo struct {
	DB *sql.DB
}

// ListEvents lista as partidas da rodada mais recente ofertada
func (r *ReadRepo) ListEvents(ctx context.Context) ([]dto.Event, error) {
	const q = `
		SELECT event_id, home_team, away_team, round
		FROM offers_current
		WHERE round = (SELECT COALESCE(MAX(round), 0) FROM offers_current)
		ORDER BY event_id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Event
	for rows.Next() {
		var e dto.Event
		if err := rows.Scan(&e.EventID, &e.HomeTeam, &e.AwayTeam, &e.Round); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetOfferByEvent devolve a oferta completa (todos os mercados) de uma partida
func (r *ReadRepo) GetOfferByEvent(ctx context.Context, eventID string) (events.MatchOffer, error) {
	const q = `
		SELECT event_id, home_team, away_team, round, kickoff_at, markets, source, updated_at
		FROM offers_current
		WHERE event_id = $1;
	`
	var (
		offer   events.MatchOffer
		markets []byte
	)
	err := r.DB.QueryRowContext(ctx, q, eventID).Scan(
		&offer.EventID, &offer.HomeTeam, &offer.AwayTeam, &offer.Round,
		&offer.KickoffAt, &markets, &offer.Source, &offer.UpdatedAt,
	)
	if err != nil {
		return events.MatchOffer{}, err
	}
	if err := json.Unmarshal(markets, &offer.Markets); err != nil {
		return events.MatchOffer{}, err
	}
	return offer, nil
}

// ListRecentResults lista os últimos placares finais, mais recentes primeiro
func (r *ReadRepo) ListRecentResults(ctx context.Context, limit int) ([]dto.Result, error) {
	const q = `
		SELECT event_id, home_team, away_team, home_score, away_score, half_time_score, full_time_score, round
		FROM match_results
		WHERE status = 'completed'
		ORDER BY ts DESC
		LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Result
	for rows.Next() {
		var res dto.Result
		if err := rows.Scan(&res.EventID, &res.HomeTeam, &res.AwayTeam, &res.HomeScore,
			&res.AwayScore, &res.HalfTimeScore, &res.FullTimeScore, &res.Round); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
