package settle

import (
	"github.com/mugisha/virtubet-platform/internal/betting/market"
	"github.com/mugisha/virtubet-platform/internal/betting/slip"
	"github.com/mugisha/virtubet-platform/internal/betting/wager"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// Decide agrega os vereditos por seleção em um status de aposta,
// com semântica de acumulador (tudo ou nada):
// - qualquer seleção perdida => lost, independente das demais
//   (checado primeiro, com curto-circuito: uma perna perdida derruba a
//   aposta mesmo com eventos ainda em andamento)
// - todas ganhas => won
// - caso contrário (alguma indefinida, nenhuma perdida) => pending
//
// Função pura: sem I/O, sem conhecimento de saldo ou persistência
func Decide(selections []slip.Selection, resultsByEvent map[string]events.MatchResult) wager.Status {
	undetermined := false
	for _, sel := range selections {
		var res *events.MatchResult
		if r, ok := resultsByEvent[sel.EventID]; ok {
			res = &r
		}
		switch market.Evaluate(sel.Market, sel.Outcome, res) {
		case market.Lost:
			return wager.StatusLost
		case market.Undetermined:
			undetermined = true
		}
	}
	if undetermined {
		return wager.StatusPending
	}
	return wager.StatusWon
}
