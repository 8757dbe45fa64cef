package settle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mugisha/virtubet-platform/internal/betting/slip"
	"github.com/mugisha/virtubet-platform/internal/betting/wager"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

func sel(eventID, market, outcome string) slip.Selection {
	return slip.NewSelection(eventID, "V-Home", "V-Away", market, outcome, decimal.NewFromFloat(1.85))
}

func result(eventID string, home, away int, status string) events.MatchResult {
	return events.MatchResult{
		EventID:       eventID,
		HomeScore:     home,
		AwayScore:     away,
		HalfTimeScore: "0:0",
		Status:        status,
	}
}

func TestDecideAllSelectionsWonSettlesWon(t *testing.T) {
	sels := []slip.Selection{
		sel("E1", "Full Time Result", "1"),
		sel("E2", "Total Goals", "Over 2.5"),
	}
	results := map[string]events.MatchResult{
		"E1": result("E1", 2, 1, events.ResultCompleted),
		"E2": result("E2", 3, 1, events.ResultCompleted),
	}

	require.Equal(t, wager.StatusWon, Decide(sels, results))
}

func TestDecideAllOrNothing(t *testing.T) {
	// 3 seleções, exatamente uma perdida: a aposta inteira perde
	sels := []slip.Selection{
		sel("E1", "Full Time Result", "1"),
		sel("E2", "Full Time Result", "1"),
		sel("E3", "Full Time Result", "1"),
	}
	results := map[string]events.MatchResult{
		"E1": result("E1", 2, 0, events.ResultCompleted),
		"E2": result("E2", 0, 1, events.ResultCompleted), // perdida
		"E3": result("E3", 1, 0, events.ResultCompleted),
	}

	require.Equal(t, wager.StatusLost, Decide(sels, results))
}

func TestDecideLostShortCircuitsOverUndetermined(t *testing.T) {
	// E1 perdida e E2 ainda em andamento: liquida lost sem esperar E2
	sels := []slip.Selection{
		sel("E1", "Full Time Result", "1"),
		sel("E2", "Full Time Result", "1"),
	}
	results := map[string]events.MatchResult{
		"E1": result("E1", 0, 2, events.ResultCompleted),
		"E2": result("E2", 1, 0, events.ResultInProgress),
	}

	require.Equal(t, wager.StatusLost, Decide(sels, results))
}

func TestDecideMissingResultStaysPending(t *testing.T) {
	sels := []slip.Selection{
		sel("E1", "Full Time Result", "1"),
		sel("E2", "Full Time Result", "1"),
	}
	results := map[string]events.MatchResult{
		"E1": result("E1", 2, 0, events.ResultCompleted),
	}

	require.Equal(t, wager.StatusPending, Decide(sels, results))
}

func TestDecideUnknownMarketStaysPendingEvenWithWinners(t *testing.T) {
	// mercado fora da taxonomia nunca liquida a aposta: fica pendente
	sels := []slip.Selection{
		sel("E1", "Full Time Result", "1"),
		sel("E2", "Asian Handicap", "-0.5"),
	}
	results := map[string]events.MatchResult{
		"E1": result("E1", 2, 0, events.ResultCompleted),
		"E2": result("E2", 2, 0, events.ResultCompleted),
	}

	require.Equal(t, wager.StatusPending, Decide(sels, results))
}

func TestDecideIsIdempotentUnderMoreResults(t *testing.T) {
	sels := []slip.Selection{sel("E1", "Full Time Result", "1")}
	results := map[string]events.MatchResult{
		"E1": result("E1", 2, 0, events.ResultCompleted),
	}

	first := Decide(sels, results)
	results["E2"] = result("E2", 0, 0, events.ResultCompleted)
	again := Decide(sels, results)

	require.Equal(t, wager.StatusWon, first)
	require.Equal(t, first, again)
}
