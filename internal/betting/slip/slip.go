package slip

import (
	"github.com/shopspring/decimal"
)

// Selection é uma escolha dentro do betslip: evento + mercado + resultado
// com a odd vigente no momento do clique
type Selection struct {
	ID       string          `json:"id"` // composto: eventId|market|outcome
	EventID  string          `json:"eventId"`
	HomeTeam string          `json:"homeTeam"`
	AwayTeam string          `json:"awayTeam"`
	Market   string          `json:"market"`  // ex: "Full Time Result"
	Outcome  string          `json:"outcome"` // ex: "1", "Over 2.5", "2:1"
	Odds     decimal.Decimal `json:"odds"`
}

// NewSelection monta uma Selection com o ID composto derivado
func NewSelection(eventID, homeTeam, awayTeam, market, outcome string, odds decimal.Decimal) Selection {
	return Selection{
		ID:       CompositeID(eventID, market, outcome),
		EventID:  eventID,
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		Market:   market,
		Outcome:  outcome,
		Odds:     odds,
	}
}

// CompositeID deriva o identificador único de uma seleção dentro do slip
func CompositeID(eventID, market, outcome string) string {
	return eventID + "|" + market + "|" + outcome
}

// Slip é o rascunho de aposta do usuário: lista ordenada de seleções,
// no máximo uma por evento, mais o stake em centavos
// Operações retornam um novo valor; o slip nunca é mutado in-place
type Slip struct {
	Selections []Selection `json:"selections"`
	StakeCents int64       `json:"stakeCents"`
	IsOpen     bool        `json:"isOpen"`
}

// Apply adiciona uma seleção ao slip com semântica de toggle:
// - seleção idêntica (mesmo ID composto) já presente: remove (toggle off)
// - outra seleção do mesmo evento presente: substitui (1 odd por partida)
// - caso contrário: anexa ao final
// Nunca falha; conflitos são resolvidos silenciosamente
func (s Slip) Apply(sel Selection) Slip {
	out := s
	for _, cur := range s.Selections {
		if cur.ID == sel.ID {
			return out.Remove(sel.ID)
		}
	}

	kept := make([]Selection, 0, len(s.Selections)+1)
	for _, cur := range s.Selections {
		if cur.EventID != sel.EventID {
			kept = append(kept, cur)
		}
	}
	out.Selections = append(kept, sel)
	return out
}

// Remove retira a seleção com o ID informado; no-op se não existir
func (s Slip) Remove(id string) Slip {
	out := s
	kept := make([]Selection, 0, len(s.Selections))
	for _, cur := range s.Selections {
		if cur.ID != id {
			kept = append(kept, cur)
		}
	}
	out.Selections = kept
	return out
}

// Clear esvazia as seleções e zera o stake
func (s Slip) Clear() Slip {
	out := s
	out.Selections = nil
	out.StakeCents = 0
	return out
}

// WithStake define o stake em centavos; valores negativos são levados a zero
// Limite superior (saldo do usuário) é responsabilidade do commit
func (s Slip) WithStake(cents int64) Slip {
	out := s
	if cents < 0 {
		cents = 0
	}
	out.StakeCents = cents
	return out
}

// WithOpen define o flag de visibilidade do slip na UI
func (s Slip) WithOpen(open bool) Slip {
	out := s
	out.IsOpen = open
	return out
}

// CombinedOdds retorna o produto das odds do slip (ver CombinedOdds)
func (s Slip) CombinedOdds() decimal.Decimal {
	return CombinedOdds(s.Selections)
}

// PotentialPayoutCents retorna o retorno potencial do slip em centavos
func (s Slip) PotentialPayoutCents() int64 {
	return PotentialPayoutCents(s.StakeCents, s.CombinedOdds())
}

// CombinedOdds calcula a odd combinada do acumulador: produto das odds
// de todas as seleções, partindo de 1.0 (slip vazio => 1.0)
// Sempre recalculada, nunca armazenada; sem arredondamento intermediário
func CombinedOdds(selections []Selection) decimal.Decimal {
	total := decimal.NewFromInt(1)
	for _, sel := range selections {
		total = total.Mul(sel.Odds)
	}
	return total
}

// PotentialPayoutCents calcula stake * odd combinada, arredondando
// apenas o valor final para o centavo
func PotentialPayoutCents(stakeCents int64, combinedOdds decimal.Decimal) int64 {
	return decimal.NewFromInt(stakeCents).Mul(combinedOdds).Round(0).IntPart()
}
