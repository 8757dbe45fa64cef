package market

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

func completed(home, away int, halfTime string) *events.MatchResult {
	return &events.MatchResult{
		EventID:       "E1",
		HomeScore:     home,
		AwayScore:     away,
		HalfTimeScore: halfTime,
		Status:        events.ResultCompleted,
	}
}

func TestEvaluateMissingResultIsUndetermined(t *testing.T) {
	require.Equal(t, Undetermined, Evaluate("Full Time Result", "1", nil))
}

func TestEvaluateInProgressResultIsUndetermined(t *testing.T) {
	res := completed(2, 0, "1:0")
	res.Status = events.ResultInProgress

	require.Equal(t, Undetermined, Evaluate("Full Time Result", "1", res))
}

func TestEvaluateFullTime1X2(t *testing.T) {
	cases := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    Verdict
	}{
		{"home win pays 1", "1", 2, 1, Won},
		{"home win loses X", "X", 2, 1, Lost},
		{"home win loses 2", "2", 2, 1, Lost},
		{"draw pays X", "X", 1, 1, Won},
		{"draw loses 1", "1", 1, 1, Lost},
		{"away win pays 2", "2", 0, 3, Won},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Evaluate("Full Time Result", tc.outcome, completed(tc.home, tc.away, "0:0")))
			// alias "1X2" segue a mesma regra
			require.Equal(t, tc.want, Evaluate("1X2", tc.outcome, completed(tc.home, tc.away, "0:0")))
		})
	}
}

func TestEvaluateHalfTime1X2UsesHalfTimeScore(t *testing.T) {
	// 1º tempo 1:0, final 1:2 — o mercado de 1º tempo olha só o parcial
	res := completed(1, 2, "1:0")

	require.Equal(t, Won, Evaluate("1st Half Result", "1", res))
	require.Equal(t, Lost, Evaluate("1st Half Result", "2", res))
	require.Equal(t, Won, Evaluate("Half Time Result", "1", res))
}

func TestEvaluateHalfTimeMalformedScoreIsUndetermined(t *testing.T) {
	res := completed(1, 0, "n/a")

	require.Equal(t, Undetermined, Evaluate("1st Half Result", "1", res))
	require.Equal(t, Undetermined, Evaluate("BTTS 1st Half", "Yes", res))
}

func TestEvaluateTotalGoals(t *testing.T) {
	cases := []struct {
		outcome string
		home    int
		away    int
		want    Verdict
	}{
		{"Over 2.5", 2, 1, Won},
		{"Over 2.5", 1, 1, Lost},
		{"Under 2.5", 1, 1, Won},
		{"Under 2.5", 3, 2, Lost},
		{"Over 1.5", 0, 2, Won},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, Evaluate("Total Goals", tc.outcome, completed(tc.home, tc.away, "0:0")),
			"%s com placar %d:%d", tc.outcome, tc.home, tc.away)
	}
}

func TestEvaluateTotalGoalsTieOnLineLosesBothSides(t *testing.T) {
	// total == linha: perde para Over e para Under (desigualdade estrita)
	res := completed(1, 1, "0:0")

	require.Equal(t, Lost, Evaluate("Total Goals", "Over 2", res))
	require.Equal(t, Lost, Evaluate("Total Goals", "Under 2", res))
}

func TestEvaluateOverUnderMarketNameVariant(t *testing.T) {
	res := completed(2, 1, "1:0")

	require.Equal(t, Won, Evaluate("Over/Under 2.5", "Over 2.5", res))
}

func TestEvaluateCorrectScore(t *testing.T) {
	res := completed(2, 1, "1:0")

	require.Equal(t, Won, Evaluate("Correct Score", "2:1", res))
	require.Equal(t, Lost, Evaluate("Correct Score", "1:2", res))
}

func TestEvaluateBTTSFullTime(t *testing.T) {
	require.Equal(t, Won, Evaluate("BTTS Full Time", "Yes", completed(1, 1, "0:0")))
	require.Equal(t, Lost, Evaluate("BTTS Full Time", "No", completed(1, 1, "0:0")))
	require.Equal(t, Won, Evaluate("Both Teams To Score", "No", completed(2, 0, "1:0")))
	require.Equal(t, Lost, Evaluate("Both Teams To Score", "Yes", completed(2, 0, "1:0")))
}

func TestEvaluateBTTSFirstHalf(t *testing.T) {
	// ambas marcaram no jogo, mas só o mandante no 1º tempo
	res := completed(2, 1, "1:0")

	require.Equal(t, Lost, Evaluate("BTTS 1st Half", "Yes", res))
	require.Equal(t, Won, Evaluate("BTTS 1st Half", "No", res))
}

func TestEvaluateUnknownMarketNeverLoses(t *testing.T) {
	res := completed(2, 1, "1:0")

	require.Equal(t, Undetermined, Evaluate("Asian Handicap", "-0.75", res))
	require.Equal(t, KindUnknown, ParseKind("Asian Handicap"))
}

func TestEvaluateUnparseableOutcomeIsUndetermined(t *testing.T) {
	res := completed(2, 1, "1:0")

	require.Equal(t, Undetermined, Evaluate("Full Time Result", "3", res))
	require.Equal(t, Undetermined, Evaluate("Total Goals", "Exactly 2", res))
	require.Equal(t, Undetermined, Evaluate("BTTS Full Time", "Maybe", res))
}

func TestParseKindTaxonomy(t *testing.T) {
	cases := map[string]Kind{
		"Full Time Result":    KindFullTime1X2,
		"1X2":                 KindFullTime1X2,
		"1st Half Result":     KindHalfTime1X2,
		"Half Time Result":    KindHalfTime1X2,
		"Total Goals":         KindTotalGoals,
		"Over/Under 3.5":      KindTotalGoals,
		"Correct Score":       KindCorrectScore,
		"BTTS Full Time":      KindBTTSFullTime,
		"Both Teams To Score": KindBTTSFullTime,
		"BTTS 1st Half":       KindBTTSFirstHalf,
		"Double Chance":       KindUnknown,
	}
	for name, want := range cases {
		require.Equalf(t, want, ParseKind(name), "market %q", name)
	}
}
