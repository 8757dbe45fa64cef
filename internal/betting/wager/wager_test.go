package wager

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mugisha/virtubet-platform/internal/betting/slip"
)

func draft() slip.Slip {
	s := slip.Slip{}.
		Apply(slip.NewSelection("E1", "V-Lyon", "V-Marseille", "Full Time Result", "1", decimal.RequireFromString("1.85"))).
		Apply(slip.NewSelection("E2", "V-Milan", "V-Inter", "Total Goals", "Over 2.5", decimal.RequireFromString("1.90")))
	return s.WithStake(10000)
}

func TestNewFreezesOddsAndPayout(t *testing.T) {
	now := time.Now()

	w, err := New("user-1", draft(), now)

	require.NoError(t, err)
	require.NotEmpty(t, w.ID)
	require.Equal(t, StatusPending, w.Status)
	require.True(t, w.TotalOdds.Equal(decimal.RequireFromString("3.515")))
	require.Equal(t, int64(35150), w.PotentialWinCents)
	require.Equal(t, []string{"E1", "E2"}, w.EventIDs)
	require.Equal(t, now, w.CreatedAt)
	require.Nil(t, w.SettledAt)
}

func TestNewCopiesSelections(t *testing.T) {
	d := draft()
	w, err := New("user-1", d, time.Now())
	require.NoError(t, err)

	// mutações posteriores no slip não afetam a aposta congelada
	d.Selections[0].Outcome = "X"
	require.Equal(t, "1", w.Selections[0].Outcome)
}

func TestNewRejectsEmptySlip(t *testing.T) {
	_, err := New("user-1", slip.Slip{StakeCents: 1000}, time.Now())

	require.ErrorIs(t, err, ErrEmptySlip)
}

func TestNewRejectsNonPositiveStake(t *testing.T) {
	d := draft().WithStake(0)

	_, err := New("user-1", d, time.Now())

	require.ErrorIs(t, err, ErrInvalidStake)
}

func TestTouches(t *testing.T) {
	w, err := New("user-1", draft(), time.Now())
	require.NoError(t, err)

	require.True(t, w.Touches(map[string]struct{}{"E2": {}}))
	require.False(t, w.Touches(map[string]struct{}{"E9": {}}))
}
