package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

func TestNextRoundGeneratesSixMatches(t *testing.T) {
	e := New(42, "feed-simulator")
	kickoff := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	offers := e.NextRound(kickoff)
	require.Len(t, offers, 6)
	require.Equal(t, 1, e.Round())

	seenTeam := map[string]bool{}
	seenEvent := map[string]bool{}
	for _, o := range offers {
		require.NotEqual(t, o.HomeTeam, o.AwayTeam)
		require.False(t, seenTeam[o.HomeTeam], "team repeated in round: %s", o.HomeTeam)
		require.False(t, seenTeam[o.AwayTeam], "team repeated in round: %s", o.AwayTeam)
		seenTeam[o.HomeTeam] = true
		seenTeam[o.AwayTeam] = true

		require.False(t, seenEvent[o.EventID])
		seenEvent[o.EventID] = true

		require.Equal(t, 1, o.Round)
		require.Len(t, o.Markets, 6)
	}

	// ids seguem crescendo entre rodadas
	next := e.NextRound(kickoff.Add(5 * time.Minute))
	for _, o := range next {
		require.False(t, seenEvent[o.EventID], "event id reused: %s", o.EventID)
		require.Equal(t, 2, o.Round)
	}
}

func TestOfferedOddsAreValidDecimals(t *testing.T) {
	e := New(7, "feed-simulator")
	offers := e.NextRound(time.Now())

	for _, o := range offers {
		for _, m := range o.Markets {
			require.NotEmpty(t, m.Outcomes)
			for _, out := range m.Outcomes {
				odds, err := decimal.NewFromString(out.Odds)
				require.NoError(t, err)
				require.True(t, odds.GreaterThanOrEqual(decimal.NewFromFloat(1.01)),
					"%s/%s: odds %s below floor", m.Name, out.Name, out.Odds)
			}
		}
	}
}

func TestPlayScoresAreConsistent(t *testing.T) {
	e := New(99, "feed-simulator")
	offers := e.NextRound(time.Now())

	for _, o := range offers {
		res := e.Play(o, time.Now())

		require.Equal(t, o.EventID, res.EventID)
		require.Equal(t, events.ResultCompleted, res.Status)
		require.Equal(t, fmt.Sprintf("%d:%d", res.HomeScore, res.AwayScore), res.FullTimeScore)

		var hth, hta int
		_, err := fmt.Sscanf(res.HalfTimeScore, "%d:%d", &hth, &hta)
		require.NoError(t, err)
		require.LessOrEqual(t, hth, res.HomeScore)
		require.LessOrEqual(t, hta, res.AwayScore)
	}
}

func TestHalfTimeSnapshot(t *testing.T) {
	final := events.MatchResult{
		EventID:       "171",
		HomeScore:     3,
		AwayScore:     1,
		HalfTimeScore: "1:1",
		FullTimeScore: "3:1",
		Status:        events.ResultCompleted,
	}

	ht := HalfTime(final, time.Now())
	require.Equal(t, events.ResultInProgress, ht.Status)
	require.Equal(t, 1, ht.HomeScore)
	require.Equal(t, 1, ht.AwayScore)
	require.Empty(t, ht.FullTimeScore)
	// o final original não é tocado
	require.Equal(t, events.ResultCompleted, final.Status)
}

func TestSameSeedSameRounds(t *testing.T) {
	kickoff := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := New(1234, "feed-simulator").NextRound(kickoff)
	b := New(1234, "feed-simulator").NextRound(kickoff)
	require.Equal(t, a, b)
}
