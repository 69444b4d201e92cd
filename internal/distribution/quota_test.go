package distribution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBreakdownFor(t *testing.T) {
	tests := []struct {
		quota int
		want  Breakdown
	}{
		{quota: 6, want: Breakdown{Validated: 1, Apparel: 1, ApparelMusic: 1, New: 3}},
		{quota: 8, want: Breakdown{Validated: 1, Apparel: 1, ApparelMusic: 1, New: 5}},
		{quota: 9, want: Breakdown{Validated: 2, Apparel: 2, ApparelMusic: 1, New: 4}},
		{quota: 12, want: Breakdown{Validated: 3, Apparel: 2, ApparelMusic: 2, New: 5}},
		{quota: 15, want: Breakdown{Validated: 4, Apparel: 3, ApparelMusic: 2, New: 6}},
		{quota: 18, want: Breakdown{Validated: 5, Apparel: 3, ApparelMusic: 3, New: 7}},
		{quota: 3, want: Breakdown{Validated: 1, Apparel: 1, ApparelMusic: 1, New: 0}},
		{quota: 1, want: Breakdown{Validated: 1, Apparel: 1, ApparelMusic: 1, New: 0}},
		{quota: 0, want: Breakdown{Validated: 1, Apparel: 1, ApparelMusic: 1, New: 0}},
		{quota: -4, want: Breakdown{Validated: 1, Apparel: 1, ApparelMusic: 1, New: 0}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BreakdownFor(tt.quota), "quota %d", tt.quota)
	}
}

func TestBreakdownForTotals(t *testing.T) {
	for q := 0; q <= 60; q++ {
		b := BreakdownFor(q)

		require.Len(t, b, len(Categories))
		for c, n := range b {
			require.GreaterOrEqual(t, n, 0, "quota %d category %s", q, c)
		}
		require.Equal(t, ExpectedTotal(q), b.Total(), "quota %d", q)
		if q >= 3 {
			require.Equal(t, q, b.Total(), "quota %d", q)
		}
	}
}

func TestTiersIsOrderedCopy(t *testing.T) {
	ts := Tiers()
	for i := 1; i < len(ts); i++ {
		require.Greater(t, ts[i-1].Threshold, ts[i].Threshold)
	}
	require.Zero(t, ts[len(ts)-1].Threshold)

	ts[0].Fixed[Validated] = 99
	require.Equal(t, 5, BreakdownFor(18)[Validated])
}
