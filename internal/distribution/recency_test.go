package distribution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecencyTracker(t *testing.T) {
	tr := NewRecencyTracker(LookbackDays)

	require.Empty(t, tr.Excluded(0))

	tr.Record(0, 1, 2)
	require.Equal(t, map[int]struct{}{1: {}, 2: {}}, tr.Excluded(1))

	tr.Record(1, 3)
	tr.Record(2, 4)
	require.Equal(t, map[int]struct{}{1: {}, 2: {}, 3: {}, 4: {}}, tr.Excluded(3))

	tr.Record(3, 5)
	// day 0 falls out of the window for day 4
	require.Equal(t, map[int]struct{}{3: {}, 4: {}, 5: {}}, tr.Excluded(4))
}

func TestRecencyTrackerAdditive(t *testing.T) {
	tr := NewRecencyTracker(LookbackDays)
	tr.Record(0, 1)
	tr.Record(0, 2)
	tr.Record(0, 1)

	require.Equal(t, map[int]struct{}{1: {}, 2: {}}, tr.Excluded(1))
}

func TestRecencyTrackerZeroWindow(t *testing.T) {
	tr := NewRecencyTracker(0)
	tr.Record(0, 1)

	require.Empty(t, tr.Excluded(1))
}
