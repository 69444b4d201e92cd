package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/metrics"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"gorm.io/datatypes"
)

// RecentPlansLimit caps the plan listing.
const RecentPlansLimit = 10

type PlanOptions struct {
	// DefaultMode applies when a request names no mode.
	DefaultMode string
	// Seed makes every generation draw the same sequence when non-zero.
	Seed uint64
}

// PlanService builds draft week plans from the active roster and catalog.
type PlanService struct {
	store   store.Store
	metrics metrics.Recorder
	logger  *slog.Logger
	opts    PlanOptions
	now     func() time.Time
}

func NewPlanService(s store.Store, rec metrics.Recorder, logger *slog.Logger, opts PlanOptions) *PlanService {
	if rec == nil {
		rec = metrics.NewNop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanService{store: s, metrics: rec, logger: logger, opts: opts, now: time.Now}
}

// GeneratePlan builds a plan for the week starting at weekStart and stores
// it as a draft.
func (s *PlanService) GeneratePlan(ctx context.Context, weekStart, mode string) (int, *distribution.Document, error) {
	dates, err := distribution.WeekDates(weekStart)
	if err != nil {
		return 0, nil, err
	}
	if mode == "" {
		mode = s.opts.DefaultMode
	}
	m, err := distribution.ParseMode(mode)
	if err != nil {
		return 0, nil, err
	}

	roster, err := s.store.ActiveMembers(ctx)
	if err != nil {
		return 0, nil, err
	}
	members := make([]distribution.Member, 0, len(roster))
	for _, r := range roster {
		members = append(members, distribution.Member{ID: r.ID, Name: r.Name, Quota: r.ProductsPerDay})
	}
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return 0, nil, err
	}

	doc, err := distribution.NewPlanner(s.rng()).Build(distribution.Input{
		Members: members,
		Dates:   dates,
		Mode:    m,
		Catalog: catalog,
	})
	if err != nil {
		s.logger.Warn("plan.generate.rejected", "week_start", weekStart, "reason", apperr.Reason(err))
		return 0, nil, err
	}
	for _, sf := range doc.Shortfalls() {
		s.logger.Warn("plan.shortfall", "date", sf.Date, "member_id", sf.MemberID,
			"category", sf.Category, "missing", sf.Missing)
		s.metrics.Shortfall(sf.Category.String(), sf.Missing)
	}

	data, err := doc.Encode()
	if err != nil {
		return 0, nil, err
	}
	id, err := s.store.SaveDraftPlan(ctx, &model.WeekPlan{
		WeekStart: doc.WeekStart,
		WeekEnd:   doc.WeekEnd,
		Mode:      string(doc.Mode),
		Document:  datatypes.JSON(data),
	})
	if err != nil {
		return 0, nil, err
	}
	s.metrics.PlanGenerated(string(doc.Mode))
	s.logger.Info("plan.generate.ok", "plan_id", id, "week_start", doc.WeekStart,
		"mode", doc.Mode, "members", len(members), "assignments", doc.AssignmentCount())
	return id, doc, nil
}

// loadCatalog reads the active items of every category.
func (s *PlanService) loadCatalog(ctx context.Context) (distribution.Catalog, error) {
	catalog := make(distribution.Catalog, len(distribution.Categories))
	for _, c := range distribution.Categories {
		rows, err := s.store.ActiveItemsByCategory(ctx, c.String())
		if err != nil {
			return nil, err
		}
		items := make([]distribution.Item, 0, len(rows))
		for _, r := range rows {
			items = append(items, distribution.Item{ID: r.ID, Category: c})
		}
		catalog[c] = items
	}
	return catalog, nil
}

func (s *PlanService) rng() *rand.Rand {
	if s.opts.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed))
}

func (s *PlanService) List(ctx context.Context) ([]model.WeekPlan, error) {
	return s.store.ListPlans(ctx, RecentPlansLimit)
}

func (s *PlanService) Get(ctx context.Context, id int) (model.WeekPlan, error) {
	return s.store.LoadPlan(ctx, id)
}

// Active returns the published plan covering today, or nil.
func (s *PlanService) Active(ctx context.Context) (*model.WeekPlan, error) {
	p, err := s.store.ActivePlan(ctx, s.now().Format(distribution.DateLayout))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
