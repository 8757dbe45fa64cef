package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// Catálogo fixo de times virtuais para sorteio das partidas
var teamCatalog = []string{
	"V-Atl.Madrid", "V-Villarreal",
	"V-Newcastle", "V-Arsenal",
	"V-Lyon", "V-Marseille",
	"V-Chelsea", "V-Man.City",
	"V-Barcelona", "V-Milan",
	"V-Inter", "V-Liverpool",
}

// Tabelas base de odds por mercado; cada rodada aplica um jitter
// aleatório por outcome antes de ofertar
var (
	baseFullTime   = []events.OutcomeOffer{{Name: "1", Odds: "2.10"}, {Name: "X", Odds: "3.20"}, {Name: "2", Odds: "3.40"}}
	baseFirstHalf  = []events.OutcomeOffer{{Name: "1", Odds: "2.60"}, {Name: "X", Odds: "2.08"}, {Name: "2", Odds: "4.28"}}
	baseTotalGoals = []events.OutcomeOffer{
		{Name: "Under 1.5", Odds: "2.65"}, {Name: "Over 1.5", Odds: "1.75"},
		{Name: "Under 2.5", Odds: "1.80"}, {Name: "Over 2.5", Odds: "1.90"},
		{Name: "Under 3.5", Odds: "1.25"}, {Name: "Over 3.5", Odds: "3.55"},
	}
	baseCorrectScore = []events.OutcomeOffer{
		{Name: "1:0", Odds: "6.30"}, {Name: "0:0", Odds: "13.00"}, {Name: "0:1", Odds: "13.00"},
		{Name: "2:0", Odds: "8.00"}, {Name: "1:1", Odds: "5.90"}, {Name: "0:2", Odds: "22.00"},
		{Name: "2:1", Odds: "8.00"}, {Name: "2:2", Odds: "14.00"}, {Name: "1:2", Odds: "14.00"},
	}
	baseBTTS          = []events.OutcomeOffer{{Name: "Yes", Odds: "1.85"}, {Name: "No", Odds: "1.30"}}
	baseBTTSFirstHalf = []events.OutcomeOffer{{Name: "Yes", Odds: "4.90"}, {Name: "No", Odds: "1.16"}}
)

// Distribuição de gols por time em 90 minutos (pesos para 0..4 gols)
var goalWeights = []int{30, 34, 22, 10, 4}

// Engine gera rodadas de partidas virtuais: ofertas com odds sorteadas
// e, ao fim de cada rodada, os placares de meio tempo e tempo final
// Determinístico para uma mesma seed
type Engine struct {
	rng    *rand.Rand
	round  int
	nextID int
	source string
}

func New(seed int64, source string) *Engine {
	return &Engine{
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 170,
		source: source,
	}
}

// Round devolve o número da rodada corrente (0 antes da primeira)
func (e *Engine) Round() int { return e.round }

// NextRound sorteia a próxima rodada: 6 partidas com times embaralhados
// do catálogo e odds jitteradas sobre as tabelas base
func (e *Engine) NextRound(kickoff time.Time) []events.MatchOffer {
	e.round++

	teams := make([]string, len(teamCatalog))
	copy(teams, teamCatalog)
	e.rng.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })

	offers := make([]events.MatchOffer, 0, len(teams)/2)
	for i := 0; i+1 < len(teams); i += 2 {
		e.nextID++
		offers = append(offers, events.MatchOffer{
			EventID:   fmt.Sprintf("%d", e.nextID),
			HomeTeam:  teams[i],
			AwayTeam:  teams[i+1],
			Round:     e.round,
			KickoffAt: kickoff,
			Markets: []events.MarketOffer{
				{Name: "Full Time Result", Outcomes: e.jitter(baseFullTime)},
				{Name: "1st Half Result", Outcomes: e.jitter(baseFirstHalf)},
				{Name: "Total Goals Over/Under", Outcomes: e.jitter(baseTotalGoals)},
				{Name: "Correct Score", Outcomes: e.jitter(baseCorrectScore)},
				{Name: "BTTS Full Time", Outcomes: e.jitter(baseBTTS)},
				{Name: "BTTS 1st Half", Outcomes: e.jitter(baseBTTSFirstHalf)},
			},
			Source:    e.source,
			UpdatedAt: kickoff,
		})
	}
	return offers
}

// Play decide o placar de uma partida ofertada
// O placar de meio tempo é um recorte consistente do placar final
// (cada gol cai no primeiro tempo com ~45% de chance)
func (e *Engine) Play(offer events.MatchOffer, ts time.Time) events.MatchResult {
	home := e.goals()
	away := e.goals()

	htHome, htAway := 0, 0
	for i := 0; i < home; i++ {
		if e.rng.Intn(100) < 45 {
			htHome++
		}
	}
	for i := 0; i < away; i++ {
		if e.rng.Intn(100) < 45 {
			htAway++
		}
	}

	return events.MatchResult{
		EventID:       offer.EventID,
		HomeTeam:      offer.HomeTeam,
		AwayTeam:      offer.AwayTeam,
		HomeScore:     home,
		AwayScore:     away,
		HalfTimeScore: fmt.Sprintf("%d:%d", htHome, htAway),
		FullTimeScore: fmt.Sprintf("%d:%d", home, away),
		Status:        events.ResultCompleted,
		Round:         offer.Round,
		Ts:            ts,
	}
}

// HalfTime devolve o resultado parcial de uma partida já decidida,
// com status in_progress e placar corrente igual ao de meio tempo
func HalfTime(final events.MatchResult, ts time.Time) events.MatchResult {
	partial := final
	var h, a int
	fmt.Sscanf(final.HalfTimeScore, "%d:%d", &h, &a)
	partial.HomeScore = h
	partial.AwayScore = a
	partial.FullTimeScore = ""
	partial.Status = events.ResultInProgress
	partial.Ts = ts
	return partial
}

func (e *Engine) goals() int {
	total := 0
	for _, w := range goalWeights {
		total += w
	}
	n := e.rng.Intn(total)
	for g, w := range goalWeights {
		if n < w {
			return g
		}
		n -= w
	}
	return 0
}

// jitter aplica variação de ±10% por outcome, com piso em 1.01
func (e *Engine) jitter(base []events.OutcomeOffer) []events.OutcomeOffer {
	out := make([]events.OutcomeOffer, len(base))
	for i, o := range base {
		odds := decimal.RequireFromString(o.Odds)
		factor := decimal.NewFromFloat(0.9 + e.rng.Float64()*0.2)
		jittered := odds.Mul(factor).Round(2)
		if jittered.LessThan(decimal.NewFromFloat(1.01)) {
			jittered = decimal.NewFromFloat(1.01)
		}
		out[i] = events.OutcomeOffer{Name: o.Name, Odds: jittered.StringFixed(2)}
	}
	return out
}
