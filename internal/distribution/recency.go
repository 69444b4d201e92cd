package distribution

// LookbackDays is how many preceding days of the plan being built are
// excluded from selection.
const LookbackDays = 3

// RecencyTracker remembers which item ids each day of a plan used. Days are
// indexed from 0 and must be recorded in order: Excluded(d) only looks at
// days before d, so it is safe to call once day d-1 has been recorded.
type RecencyTracker struct {
	window int
	days   []map[int]struct{}
}

func NewRecencyTracker(window int) *RecencyTracker {
	if window < 0 {
		window = 0
	}
	return &RecencyTracker{window: window}
}

// Record adds ids to the used set of day. Recording is additive.
func (t *RecencyTracker) Record(day int, ids ...int) {
	for len(t.days) <= day {
		t.days = append(t.days, make(map[int]struct{}))
	}
	for _, id := range ids {
		t.days[day][id] = struct{}{}
	}
}

// Excluded returns the union of ids used on days max(0, day-window)..day-1.
func (t *RecencyTracker) Excluded(day int) map[int]struct{} {
	out := make(map[int]struct{})
	for d := max(0, day-t.window); d < day && d < len(t.days); d++ {
		for id := range t.days[d] {
			out[id] = struct{}{}
		}
	}
	return out
}
