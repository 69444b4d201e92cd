package distribution

import (
	"strings"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
)

const (
	DateLayout   = "2006-01-02"
	WorkWeekDays = 5
)

// WeekDates returns the five consecutive dates starting at start.
func WeekDates(start string) ([]string, error) {
	start = strings.TrimSpace(start)
	if start == "" {
		return nil, apperr.Validation("week start date is required")
	}
	t, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, apperr.Validation("invalid week start date %q, expected YYYY-MM-DD", start)
	}
	dates := make([]string, WorkWeekDays)
	for i := range dates {
		dates[i] = t.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates, nil
}
