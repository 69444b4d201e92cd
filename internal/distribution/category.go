package distribution

import "strings"

type Category string

const (
	Validated    Category = "validated"
	Apparel      Category = "apparel"
	ApparelMusic Category = "apparel-music"
	New          Category = "new"
)

// Categories lists every category in plan order. Selection walks categories
// in this order, which keeps seeded plans reproducible.
var Categories = []Category{Validated, Apparel, ApparelMusic, New}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

func (c Category) String() string { return string(c) }
