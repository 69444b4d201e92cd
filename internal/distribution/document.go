package distribution

import (
	"encoding/json"
	"slices"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
)

// DocumentVersion is the schema version written into every plan document.
const DocumentVersion = 1

// Document is the stored form of a week plan:
// days[date][memberID] holds that member's item ids per category.
type Document struct {
	Version   int                          `json:"version"`
	Mode      Mode                         `json:"mode"`
	WeekStart string                       `json:"week_start"`
	WeekEnd   string                       `json:"week_end"`
	Quotas    map[int]int                  `json:"quotas"`
	Days      map[string]map[int]MemberDay `json:"days"`
}

// MemberDay is one member's share of one date.
type MemberDay struct {
	MemberName string             `json:"member_name"`
	Quota      int                `json:"quota"`
	Items      map[Category][]int `json:"items"`
	Shortfall  map[Category]int   `json:"shortfall,omitempty"`
}

// ItemIDs flattens the member's items in category order.
func (m MemberDay) ItemIDs() []int {
	var ids []int
	for _, c := range Categories {
		ids = append(ids, m.Items[c]...)
	}
	return ids
}

// Shortfall is a category that supplied fewer items than the quota asked for.
type Shortfall struct {
	Date     string
	MemberID int
	Category Category
	Missing  int
}

// Dates returns the plan dates in chronological order.
func (d *Document) Dates() []string {
	dates := make([]string, 0, len(d.Days))
	for date := range d.Days {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates
}

// MemberIDs returns the members planned on date, ascending.
func (d *Document) MemberIDs(date string) []int {
	ids := make([]int, 0, len(d.Days[date]))
	for id := range d.Days[date] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (d *Document) Shortfalls() []Shortfall {
	var out []Shortfall
	for _, date := range d.Dates() {
		for _, id := range d.MemberIDs(date) {
			md := d.Days[date][id]
			for _, c := range Categories {
				if n := md.Shortfall[c]; n > 0 {
					out = append(out, Shortfall{Date: date, MemberID: id, Category: c, Missing: n})
				}
			}
		}
	}
	return out
}

// AssignmentCount is the number of assignment rows publishing would write.
func (d *Document) AssignmentCount() int {
	n := 0
	for _, members := range d.Days {
		for _, md := range members {
			n += len(md.ItemIDs())
		}
	}
	return n
}

func (d *Document) Encode() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// DecodeDocument parses and validates a stored plan document.
func DecodeDocument(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, apperr.Validation("plan document is empty")
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, apperr.Validation("malformed plan document: %v", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the structural invariants of a plan: five consecutive
// dates from WeekStart, the same member set on every date, known categories
// and no repeated item within a member's day.
func (d *Document) Validate() error {
	if d.Version != DocumentVersion {
		return apperr.Validation("unsupported plan document version %d", d.Version)
	}
	if _, err := ParseMode(string(d.Mode)); err != nil {
		return err
	}
	dates, err := WeekDates(d.WeekStart)
	if err != nil {
		return err
	}
	if d.WeekEnd != dates[len(dates)-1] {
		return apperr.Validation("plan week end %q does not match start %q", d.WeekEnd, d.WeekStart)
	}
	if len(d.Days) != len(dates) {
		return apperr.Validation("plan has %d days, want %d", len(d.Days), len(dates))
	}
	if len(d.Quotas) == 0 {
		return apperr.Validation("plan has no members")
	}
	for _, date := range dates {
		members, ok := d.Days[date]
		if !ok {
			return apperr.Validation("plan is missing date %s", date)
		}
		if len(members) != len(d.Quotas) {
			return apperr.Validation("plan date %s has %d members, want %d", date, len(members), len(d.Quotas))
		}
		for id, md := range members {
			if _, ok := d.Quotas[id]; !ok {
				return apperr.Validation("plan date %s has unknown member %d", date, id)
			}
			seen := make(map[int]struct{})
			for c, ids := range md.Items {
				if parsed, ok := ParseCategory(string(c)); !ok || parsed != c {
					return apperr.Validation("plan date %s member %d has unknown category %q", date, id, c)
				}
				for _, itemID := range ids {
					if itemID <= 0 {
						return apperr.Validation("plan date %s member %d has invalid item id %d", date, id, itemID)
					}
					if _, dup := seen[itemID]; dup {
						return apperr.Validation("plan date %s member %d repeats item %d", date, id, itemID)
					}
					seen[itemID] = struct{}{}
				}
			}
		}
	}
	return nil
}
