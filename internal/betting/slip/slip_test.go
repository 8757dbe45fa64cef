package slip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sel(eventID, market, outcome, odds string) Selection {
	return NewSelection(eventID, "V-Home", "V-Away", market, outcome, dec(odds))
}

func TestApplyAppendsNewSelection(t *testing.T) {
	s := Slip{}.Apply(sel("E1", "Full Time Result", "1", "1.85"))

	require.Len(t, s.Selections, 1)
	require.Equal(t, "E1|Full Time Result|1", s.Selections[0].ID)
}

func TestApplyTogglesOffIdenticalSelection(t *testing.T) {
	pick := sel("E1", "Full Time Result", "1", "1.85")

	s := Slip{}.Apply(pick).Apply(pick)

	require.Empty(t, s.Selections)
}

func TestApplyReplacesPickOnSameEvent(t *testing.T) {
	s := Slip{}.
		Apply(sel("E1", "Full Time Result", "1", "1.85")).
		Apply(sel("E1", "Full Time Result", "X", "3.20"))

	require.Len(t, s.Selections, 1)
	require.Equal(t, "X", s.Selections[0].Outcome)
}

func TestApplyKeepsAtMostOnePickPerEvent(t *testing.T) {
	s := Slip{}.
		Apply(sel("E1", "Full Time Result", "1", "1.85")).
		Apply(sel("E2", "Total Goals", "Over 2.5", "1.90")).
		Apply(sel("E1", "Correct Score", "2:1", "8.00")).
		Apply(sel("E3", "BTTS Full Time", "Yes", "1.75")).
		Apply(sel("E2", "Total Goals", "Under 2.5", "1.80"))

	require.Len(t, s.Selections, 3)
	perEvent := map[string]int{}
	for _, cur := range s.Selections {
		perEvent[cur.EventID]++
	}
	for eventID, n := range perEvent {
		require.Equalf(t, 1, n, "event %s has %d picks", eventID, n)
	}
}

func TestRemoveIsNoOpForUnknownID(t *testing.T) {
	s := Slip{}.Apply(sel("E1", "Full Time Result", "1", "1.85"))

	require.Len(t, s.Remove("E9|Full Time Result|1").Selections, 1)
	require.Empty(t, s.Remove("E1|Full Time Result|1").Selections)
}

func TestClearResetsSelectionsAndStake(t *testing.T) {
	s := Slip{}.
		Apply(sel("E1", "Full Time Result", "1", "1.85")).
		WithStake(5000).
		Clear()

	require.Empty(t, s.Selections)
	require.Zero(t, s.StakeCents)
}

func TestWithStakeClampsNegativeToZero(t *testing.T) {
	require.Zero(t, Slip{}.WithStake(-100).StakeCents)
	require.Equal(t, int64(2500), Slip{}.WithStake(2500).StakeCents)
}

func TestCombinedOddsEmptySlipIsOne(t *testing.T) {
	require.True(t, CombinedOdds(nil).Equal(dec("1")))
}

func TestCombinedOddsIsProductOfAllOdds(t *testing.T) {
	s := Slip{}.
		Apply(sel("E1", "1X2", "1", "1.85")).
		Apply(sel("E2", "Total Goals", "Over 2.5", "1.90"))

	require.True(t, s.CombinedOdds().Equal(dec("3.515")),
		"combined odds = %s", s.CombinedOdds())
}

func TestPotentialPayoutScenario(t *testing.T) {
	s := Slip{
		Selections: []Selection{
			sel("E1", "1X2", "1", "1.85"),
			sel("E2", "Total Goals", "Over 2.5", "1.90"),
		},
		StakeCents: 10000,
	}

	require.Equal(t, int64(35150), s.PotentialPayoutCents())
}

func TestPotentialPayoutIsLinearInStake(t *testing.T) {
	odds := dec("2.50")
	require.Equal(t, int64(0), PotentialPayoutCents(0, odds))
	require.Equal(t, int64(250), PotentialPayoutCents(100, odds))
	require.Equal(t, int64(2500), PotentialPayoutCents(1000, odds))
}

func TestPotentialPayoutDoesNotRoundBetweenSelections(t *testing.T) {
	// 1.33 * 1.33 * 1.33 = 2.352637; só o valor final em centavos arredonda
	s := Slip{
		Selections: []Selection{
			sel("E1", "1X2", "1", "1.33"),
			sel("E2", "1X2", "1", "1.33"),
			sel("E3", "1X2", "1", "1.33"),
		},
		StakeCents: 10000,
	}

	require.True(t, s.CombinedOdds().Equal(dec("2.352637")))
	require.Equal(t, int64(23526), s.PotentialPayoutCents())
}
