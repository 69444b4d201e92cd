package service

import (
	"context"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"
)

// DefaultHistoryDays is used when a history request names no window.
const DefaultHistoryDays = 30

// EmployeeService serves the member-facing pages: today's items, progress
// flags and history.
type EmployeeService struct {
	store store.Store
	now   func() time.Time
}

func NewEmployeeService(s store.Store) *EmployeeService {
	return &EmployeeService{store: s, now: time.Now}
}

func (s *EmployeeService) today() string { return s.now().Format(distribution.DateLayout) }

func (s *EmployeeService) Today(ctx context.Context, name string) (*model.EmployeeDay, error) {
	m, err := s.store.FindMemberByName(ctx, name)
	if err != nil {
		return nil, err
	}
	date := s.today()
	rows, err := s.store.ListAssignedItems(ctx, m.ID, date)
	if err != nil {
		return nil, err
	}
	day := &model.EmployeeDay{
		Member:   model.UserRef{ID: m.ID, Name: m.Name},
		Date:     date,
		Products: make(map[string][]model.AssignedItem, len(distribution.Categories)),
	}
	for _, c := range distribution.Categories {
		day.Products[c.String()] = []model.AssignedItem{}
	}
	for _, r := range rows {
		day.Products[r.Category] = append(day.Products[r.Category], r)
		day.Stats.Total++
		if r.Downloaded {
			day.Stats.Downloaded++
		}
		if r.VideoCompleted {
			day.Stats.Completed++
		}
	}
	return day, nil
}

func (s *EmployeeService) MarkDownloaded(ctx context.Context, name string, itemID int) error {
	return s.flag(ctx, name, itemID, store.FlagDownloaded)
}

func (s *EmployeeService) MarkCompleted(ctx context.Context, name string, itemID int) error {
	return s.flag(ctx, name, itemID, store.FlagVideoCompleted)
}

func (s *EmployeeService) flag(ctx context.Context, name string, itemID int, flag store.AssignmentFlag) error {
	m, err := s.store.FindMemberByName(ctx, name)
	if err != nil {
		return err
	}
	return s.store.SetAssignmentFlag(ctx, m.ID, itemID, s.today(), flag)
}

// History returns the member's most recent assignments, at most days times
// the member's quota rows.
func (s *EmployeeService) History(ctx context.Context, name string, days int) ([]model.AssignedItem, error) {
	m, err := s.store.FindMemberByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultHistoryDays
	}
	quota := max(m.ProductsPerDay, 1)
	rows, err := s.store.MemberHistory(ctx, m.ID, days*quota)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.AssignedItem{}
	}
	return rows, nil
}
