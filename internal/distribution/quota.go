package distribution

// Tier fixes the per-category counts for quotas at or above Threshold.
// Whatever the fixed categories leave goes to New.
type Tier struct {
	Threshold int
	Fixed     map[Category]int
}

// tiers is evaluated top-down; the first tier whose threshold is reached wins.
var tiers = []Tier{
	{Threshold: 18, Fixed: map[Category]int{Validated: 5, Apparel: 3, ApparelMusic: 3}},
	{Threshold: 15, Fixed: map[Category]int{Validated: 4, Apparel: 3, ApparelMusic: 2}},
	{Threshold: 12, Fixed: map[Category]int{Validated: 3, Apparel: 2, ApparelMusic: 2}},
	{Threshold: 9, Fixed: map[Category]int{Validated: 2, Apparel: 2, ApparelMusic: 1}},
	{Threshold: 0, Fixed: map[Category]int{Validated: 1, Apparel: 1, ApparelMusic: 1}},
}

// Tiers returns a copy of the quota tier table, highest threshold first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		fixed := make(map[Category]int, len(t.Fixed))
		for c, n := range t.Fixed {
			fixed[c] = n
		}
		out[i] = Tier{Threshold: t.Threshold, Fixed: fixed}
	}
	return out
}

// Breakdown maps a category to the number of items a member receives from it
// per day.
type Breakdown map[Category]int

// BreakdownFor splits a daily quota across categories. Negative quotas are
// treated as zero. For quotas below the tier's fixed sum the total exceeds
// the quota, since every fixed category always supplies its baseline.
func BreakdownFor(quota int) Breakdown {
	if quota < 0 {
		quota = 0
	}
	tier := tierFor(quota)

	b := make(Breakdown, len(Categories))
	fixed := 0
	for _, c := range Categories {
		if c == New {
			continue
		}
		b[c] = tier.Fixed[c]
		fixed += tier.Fixed[c]
	}
	b[New] = max(quota-fixed, 0)
	return b
}

func (b Breakdown) Total() int {
	total := 0
	for _, n := range b {
		total += n
	}
	return total
}

// ExpectedTotal is the number of items BreakdownFor hands out for quota.
func ExpectedTotal(quota int) int {
	if quota < 0 {
		quota = 0
	}
	fixed := 0
	for _, n := range tierFor(quota).Fixed {
		fixed += n
	}
	return max(quota, fixed)
}

func tierFor(quota int) Tier {
	for _, t := range tiers {
		if quota >= t.Threshold {
			return t
		}
	}
	return tiers[len(tiers)-1]
}
