package events

import "time"

// OutcomeOffer é uma seleção ofertada dentro de um mercado
// Odds em decimal com 2 casas, serializada como string (ex: "1.85")
type OutcomeOffer struct {
	Name string `json:"name"` // ex: "1", "X", "Over 2.5", "2:1", "Yes"
	Odds string `json:"odds"`
}

// MarketOffer agrupa as seleções ofertadas de um mercado
type MarketOffer struct {
	Name     string         `json:"name"` // ex: "Full Time Result"
	Outcomes []OutcomeOffer `json:"outcomes"`
}

// Oferta de mercados de uma partida virtual, publicada no tópico "match_offers"
type MatchOffer struct {
	EventID   string        `json:"event_id"`
	HomeTeam  string        `json:"home_team"`
	AwayTeam  string        `json:"away_team"`
	Round     int           `json:"round"` // incrementado a cada rodada virtual
	KickoffAt time.Time     `json:"kickoff_at"`
	Markets   []MarketOffer `json:"markets"`
	Source    string        `json:"source"` // "feed-simulator"
	UpdatedAt time.Time     `json:"updated_at"`
}
