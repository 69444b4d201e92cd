package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/metrics"
	"github.com/grupoevolution/tiktokconteudos/internal/store"
)

// Mirror receives plans after they are committed.
type Mirror interface {
	MirrorPlan(ctx context.Context, planID int, doc *distribution.Document)
}

// Publisher turns a stored plan into assignment rows.
type Publisher struct {
	store   store.Store
	metrics metrics.Recorder
	mirror  Mirror
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[int]*planLock
}

type planLock struct {
	sync.Mutex
	refs int
}

func NewPublisher(s store.Store, rec metrics.Recorder, mirror Mirror, logger *slog.Logger) *Publisher {
	if rec == nil {
		rec = metrics.NewNop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: s, metrics: rec, mirror: mirror, logger: logger, locks: map[int]*planLock{}}
}

// Publish materializes plan id in one transaction. For every member and
// date of the plan the existing rows are replaced and their usage released,
// so publishing again leaves rows and counters as a single publish would.
func (p *Publisher) Publish(ctx context.Context, id int) error {
	unlock := p.lock(id)
	defer unlock()

	plan, err := p.store.LoadPlan(ctx, id)
	if err != nil {
		return err
	}
	doc, err := distribution.DecodeDocument(plan.Document)
	if err != nil {
		p.logger.Error("plan.publish.malformed", "plan_id", id, "err", err)
		return err
	}

	var inserted int
	err = p.store.WithTx(ctx, func(tx store.Store) error {
		inserted = 0
		for _, date := range doc.Dates() {
			for _, memberID := range doc.MemberIDs(date) {
				n, err := replaceMemberDay(ctx, tx, memberID, date, doc.Days[date][memberID].ItemIDs())
				if err != nil {
					return fmt.Errorf("member %d on %s: %w", memberID, date, err)
				}
				inserted += n
			}
		}
		return tx.MarkPlanPublished(ctx, id)
	})
	if err != nil {
		p.logger.Error("plan.publish.failed", "plan_id", id, "err", err)
		return err
	}

	p.metrics.PlanPublished()
	p.metrics.AssignmentsCreated(inserted)
	p.logger.Info("plan.publish.ok", "plan_id", id, "week_start", doc.WeekStart, "assignments", inserted)
	if p.mirror != nil {
		p.mirror.MirrorPlan(ctx, id, doc)
	}
	return nil
}

func replaceMemberDay(ctx context.Context, tx store.Store, memberID int, date string, itemIDs []int) (int, error) {
	removed, err := tx.DeleteAssignments(ctx, memberID, date)
	if err != nil {
		return 0, err
	}
	for _, itemID := range removed {
		if err := tx.ReleaseItemUsage(ctx, itemID); err != nil {
			return 0, err
		}
	}
	for _, itemID := range itemIDs {
		if err := tx.InsertAssignment(ctx, memberID, itemID, date); err != nil {
			return 0, err
		}
		if err := tx.IncrementItemUsage(ctx, itemID, date); err != nil {
			return 0, err
		}
	}
	return len(itemIDs), nil
}

// lock serializes publishes of one plan id and returns the release func.
func (p *Publisher) lock(id int) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &planLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}
