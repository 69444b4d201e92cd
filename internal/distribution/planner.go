package distribution

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
)

// Mode controls whether members share a day's selection.
type Mode string

const (
	// ModeSame gives every member a copy of the first member's selection.
	ModeSame Mode = "same"
	// ModeDifferent samples each member independently.
	ModeDifferent Mode = "different"
)

// ParseMode accepts "same" or "different"; empty means different.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDifferent:
		return ModeDifferent, nil
	case ModeSame:
		return ModeSame, nil
	default:
		return "", apperr.Validation("invalid distribution mode %q, use \"same\" or \"different\"", s)
	}
}

// Member is a roster entry as the planner sees it.
type Member struct {
	ID    int
	Name  string
	Quota int
}

// Catalog holds the active items of each category.
type Catalog map[Category][]Item

func (c Catalog) Empty() bool {
	for _, items := range c {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// Input is everything a plan is built from. Members are taken in the given
// order; in ModeSame the first one is the reference member.
type Input struct {
	Members []Member
	Dates   []string
	Mode    Mode
	Catalog Catalog
}

type Planner struct {
	selector *Selector
	lookback int
}

// NewPlanner returns a planner drawing from rng (random when nil). A planner
// is meant for one Build call at a time.
func NewPlanner(rng *rand.Rand) *Planner {
	return &Planner{selector: NewSelector(rng), lookback: LookbackDays}
}

// Build produces the week plan for in. It has no side effects besides
// consuming the random source.
func (p *Planner) Build(in Input) (*Document, error) {
	if len(in.Members) == 0 {
		return nil, apperr.Validation("no active members")
	}
	if in.Catalog.Empty() {
		return nil, apperr.Validation("empty catalog: populate all categories before generating a plan")
	}
	mode, err := ParseMode(string(in.Mode))
	if err != nil {
		return nil, err
	}
	if len(in.Dates) == 0 {
		return nil, apperr.Validation("week start date is required")
	}
	week, err := WeekDates(in.Dates[0])
	if err != nil {
		return nil, err
	}
	if !slices.Equal(week, in.Dates) {
		return nil, apperr.Validation("plan dates must be %d consecutive days", WorkWeekDays)
	}

	doc := &Document{
		Version:   DocumentVersion,
		Mode:      mode,
		WeekStart: week[0],
		WeekEnd:   week[len(week)-1],
		Quotas:    make(map[int]int, len(in.Members)),
		Days:      make(map[string]map[int]MemberDay, len(week)),
	}
	for _, m := range in.Members {
		doc.Quotas[m.ID] = m.Quota
	}

	tracker := NewRecencyTracker(p.lookback)
	for day, date := range week {
		excluded := tracker.Excluded(day)
		members := make(map[int]MemberDay, len(in.Members))

		if mode == ModeSame {
			ref := in.Members[0]
			items, short := p.fill(ref.Quota, in.Catalog, excluded)
			for _, m := range in.Members {
				members[m.ID] = MemberDay{
					MemberName: m.Name,
					Quota:      m.Quota,
					Items:      cloneItems(items),
					Shortfall:  cloneShortfall(short),
				}
			}
			tracker.Record(day, flatten(items)...)
		} else {
			for _, m := range in.Members {
				items, short := p.fill(m.Quota, in.Catalog, excluded)
				members[m.ID] = MemberDay{MemberName: m.Name, Quota: m.Quota, Items: items, Shortfall: short}
				tracker.Record(day, flatten(items)...)
			}
		}
		doc.Days[date] = members
	}
	return doc, nil
}

// fill selects one member-day worth of items and reports per-category
// shortfall. Every category gets an entry in items, empty when it supplies
// nothing.
func (p *Planner) fill(quota int, catalog Catalog, excluded map[int]struct{}) (map[Category][]int, map[Category]int) {
	breakdown := BreakdownFor(quota)
	items := make(map[Category][]int, len(Categories))
	var short map[Category]int
	for _, c := range Categories {
		want := breakdown[c]
		chosen := p.selector.Select(catalog[c], want, excluded)
		ids := make([]int, 0, len(chosen))
		for _, it := range chosen {
			ids = append(ids, it.ID)
		}
		items[c] = ids
		if missing := want - len(ids); missing > 0 {
			if short == nil {
				short = make(map[Category]int)
			}
			short[c] = missing
		}
	}
	return items, short
}

func flatten(items map[Category][]int) []int {
	var ids []int
	for _, c := range Categories {
		ids = append(ids, items[c]...)
	}
	return ids
}

func cloneItems(items map[Category][]int) map[Category][]int {
	out := make(map[Category][]int, len(items))
	for c, ids := range items {
		out[c] = slices.Clone(ids)
	}
	return out
}

func cloneShortfall(short map[Category]int) map[Category]int {
	if short == nil {
		return nil
	}
	out := make(map[Category]int, len(short))
	for c, n := range short {
		out[c] = n
	}
	return out
}
