package service

import (
	"context"
	"errors"
	"strings"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"
)

// MinBulkQuota is the smallest quota accepted when setting every member at once.
const MinBulkQuota = 6

type TeamService struct {
	store store.Store
}

func NewTeamService(s store.Store) *TeamService { return &TeamService{store: s} }

func (s *TeamService) List(ctx context.Context) ([]model.TeamMember, error) {
	return s.store.ListMembers(ctx)
}

func (s *TeamService) Create(ctx context.Context, req model.MemberCreateRequest) (*model.TeamMember, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.ProductsPerDay < 0 {
		return nil, apperr.Validation("products_per_day must be at least 1")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	quota := req.ProductsPerDay
	if quota == 0 {
		quota = model.DefaultQuota
	}
	m := &model.TeamMember{Name: name, ProductsPerDay: quota, Active: true}
	if err := s.store.CreateMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamService) Update(ctx context.Context, id int, req model.MemberUpdateRequest) error {
	if req.ProductsPerDay != nil && *req.ProductsPerDay < 1 {
		return apperr.Validation("products_per_day must be at least 1")
	}
	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name == "" {
			return apperr.Validation("name must not be empty")
		}
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return err
		}
		req.Name = &name
	}
	return s.store.UpdateMember(ctx, id, req)
}

func (s *TeamService) SetAllQuotas(ctx context.Context, quota int) error {
	if quota < MinBulkQuota {
		return apperr.Validation("minimum of %d products per day", MinBulkQuota)
	}
	return s.store.SetAllQuotas(ctx, quota)
}

// Delete removes a member without assignment history. Members with history
// must be deactivated instead.
func (s *TeamService) Delete(ctx context.Context, id int) error {
	if _, err := s.store.GetMember(ctx, id); err != nil {
		return err
	}
	st, err := s.store.AssignmentStats(ctx, id)
	if err != nil {
		return err
	}
	if st.TotalVideos > 0 {
		return apperr.Validation("member has assignments, deactivate it instead")
	}
	return s.store.DeleteMember(ctx, id)
}

func (s *TeamService) Stats(ctx context.Context, id int) (model.MemberStats, error) {
	if _, err := s.store.GetMember(ctx, id); err != nil {
		return model.MemberStats{}, err
	}
	return s.store.AssignmentStats(ctx, id)
}

func (s *TeamService) ensureNameFree(ctx context.Context, name string, self int) error {
	existing, err := s.store.FindMemberByName(ctx, name)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.Validation("member %q already exists", name)
	}
	return nil
}
