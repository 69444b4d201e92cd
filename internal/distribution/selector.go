package distribution

import "math/rand/v2"

// Item is the part of a catalog item the planner needs.
type Item struct {
	ID       int
	Category Category
}

// Selector draws items from a category pool.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a selector drawing from rng, or from a randomly seeded
// source when rng is nil. A *rand.Rand is not safe for concurrent use, so
// neither is the selector.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{rng: rng}
}

// Select picks up to count distinct items from pool. Items outside excluded
// are drawn first, uniformly without replacement. When they run out the
// remainder is backfilled from the excluded items still in the pool, so
// recency is a preference rather than a hard rule. Only an undersized pool
// yields fewer than count items.
func (s *Selector) Select(pool []Item, count int, excluded map[int]struct{}) []Item {
	if count <= 0 || len(pool) == 0 {
		return nil
	}

	var fresh, stale []Item
	seen := make(map[int]struct{}, len(pool))
	for _, it := range pool {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		if _, used := excluded[it.ID]; used {
			stale = append(stale, it)
		} else {
			fresh = append(fresh, it)
		}
	}

	chosen := s.draw(fresh, count)
	if len(chosen) < count {
		chosen = append(chosen, s.draw(stale, count-len(chosen))...)
	}
	return chosen
}

// draw is a partial Fisher-Yates shuffle over a copy of candidates.
func (s *Selector) draw(candidates []Item, n int) []Item {
	n = min(n, len(candidates))
	if n <= 0 {
		return nil
	}
	c := append([]Item(nil), candidates...)
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(c)-i)
		c[i], c[j] = c[j], c[i]
	}
	return c[:n]
}
