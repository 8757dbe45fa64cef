package market

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

// Verdict é o estado terminal de uma seleção frente a um resultado
type Verdict int

const (
	Undetermined Verdict = iota // resultado ausente, não finalizado ou mercado desconhecido
	Won
	Lost
)

func (v Verdict) String() string {
	switch v {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "undetermined"
	}
}

// Kind é a taxonomia fechada de famílias de mercado suportadas
type Kind int

const (
	KindUnknown Kind = iota
	KindFullTime1X2
	KindHalfTime1X2
	KindTotalGoals
	KindCorrectScore
	KindBTTSFullTime
	KindBTTSFirstHalf
)

// ParseKind resolve o nome do mercado para a família correspondente
// Nomes não reconhecidos caem em KindUnknown e nunca liquidam como perdidos
func ParseKind(name string) Kind {
	switch name {
	case "Full Time Result", "1X2":
		return KindFullTime1X2
	case "1st Half Result", "Half Time Result":
		return KindHalfTime1X2
	case "Total Goals":
		return KindTotalGoals
	case "Correct Score":
		return KindCorrectScore
	case "BTTS Full Time", "Both Teams To Score":
		return KindBTTSFullTime
	case "BTTS 1st Half":
		return KindBTTSFirstHalf
	}
	if strings.Contains(name, "Over/Under") {
		return KindTotalGoals
	}
	return KindUnknown
}

// Evaluate decide se uma seleção ganhou, perdeu ou segue indefinida
// frente a um resultado de partida
//
// Regras:
// - resultado ausente ou ainda in_progress: Undetermined
// - mercado fora da taxonomia: Undetermined para sempre (fail-safe; o stake
//   nunca é perdido por mercado não modelado — sinalizar para revisão)
// - outcome fora do padrão do mercado: Undetermined (mesmo fail-safe)
func Evaluate(marketName, outcome string, res *events.MatchResult) Verdict {
	if res == nil || !res.Final() {
		return Undetermined
	}

	switch ParseKind(marketName) {
	case KindFullTime1X2:
		return eval1X2(outcome, res.HomeScore, res.AwayScore)

	case KindHalfTime1X2:
		h, a, ok := parseScorePair(res.HalfTimeScore)
		if !ok {
			return Undetermined
		}
		return eval1X2(outcome, h, a)

	case KindTotalGoals:
		return evalTotalGoals(outcome, res.HomeScore+res.AwayScore)

	case KindCorrectScore:
		if outcome == fmt.Sprintf("%d:%d", res.HomeScore, res.AwayScore) {
			return Won
		}
		return Lost

	case KindBTTSFullTime:
		return evalBTTS(outcome, res.HomeScore, res.AwayScore)

	case KindBTTSFirstHalf:
		h, a, ok := parseScorePair(res.HalfTimeScore)
		if !ok {
			return Undetermined
		}
		return evalBTTS(outcome, h, a)
	}

	return Undetermined
}

// eval1X2 aplica a comparação 1/X/2 sobre um par de placares
func eval1X2(outcome string, home, away int) Verdict {
	switch outcome {
	case "1":
		return verdictFrom(home > away)
	case "X":
		return verdictFrom(home == away)
	case "2":
		return verdictFrom(away > home)
	}
	return Undetermined
}

// evalTotalGoals aplica Over/Under estrito: total igual à linha perde
// para ambos os lados (semântica over/under padrão)
func evalTotalGoals(outcome string, totalGoals int) Verdict {
	side, line, ok := parseOverUnder(outcome)
	if !ok {
		return Undetermined
	}
	total := decimal.NewFromInt(int64(totalGoals))
	switch side {
	case "Over":
		return verdictFrom(total.GreaterThan(line))
	case "Under":
		return verdictFrom(total.LessThan(line))
	}
	return Undetermined
}

// evalBTTS aplica "ambas marcam": Yes exige gol dos dois lados
func evalBTTS(outcome string, home, away int) Verdict {
	bothScored := home > 0 && away > 0
	switch outcome {
	case "Yes":
		return verdictFrom(bothScored)
	case "No":
		return verdictFrom(!bothScored)
	}
	return Undetermined
}

func verdictFrom(won bool) Verdict {
	if won {
		return Won
	}
	return Lost
}

// parseScorePair interpreta um placar "h:a"
func parseScorePair(s string) (home, away int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return h, a, true
}

// parseOverUnder interpreta outcomes "Over N" / "Under N" (N decimal, ex: 2.5)
func parseOverUnder(outcome string) (side string, line decimal.Decimal, ok bool) {
	parts := strings.Fields(outcome)
	if len(parts) != 2 {
		return "", decimal.Zero, false
	}
	if parts[0] != "Over" && parts[0] != "Under" {
		return "", decimal.Zero, false
	}
	line, err := decimal.NewFromString(parts[1])
	if err != nil {
		return "", decimal.Zero, false
	}
	return parts[0], line, true
}
