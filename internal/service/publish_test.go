package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"github.com/stretchr/testify/require"
)

type row struct {
	member int
	item   int
	date   string
}

func rows(st *store.Memory) []row {
	var out []row
	for _, a := range st.Assignments() {
		out = append(out, row{member: a.MemberID, item: a.ItemID, date: a.Date})
	}
	return out
}

func usage(t *testing.T, st store.ItemStore) map[int]int {
	t.Helper()
	items, err := st.ListItems(context.Background(), model.ItemFilter{})
	require.NoError(t, err)
	out := map[int]int{}
	for _, it := range items {
		out[it.ID] = it.TimesUsed
	}
	return out
}

// draft generates a plan for two members with a quota of six.
func draft(t *testing.T, st store.Store) int {
	t.Helper()
	addMember(t, st, "ana", 6)
	addMember(t, st, "bia", 6)
	addCatalog(t, st, fullCatalog())
	id, _, err := NewPlanService(st, nil, discard(), PlanOptions{Seed: 7}).GeneratePlan(context.Background(), weekStart, "different")
	require.NoError(t, err)
	return id
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	rec := newRecorder()
	spy := &mirrorSpy{}
	pub := NewPublisher(st, rec, spy, discard())

	require.NoError(t, pub.Publish(ctx, id))

	got := rows(st)
	require.Len(t, got, 60)
	for _, a := range st.Assignments() {
		require.False(t, a.Downloaded)
		require.False(t, a.VideoCompleted)
	}

	total := 0
	for _, n := range usage(t, st) {
		total += n
	}
	require.Equal(t, 60, total)

	plan, err := st.LoadPlan(ctx, id)
	require.NoError(t, err)
	require.True(t, plan.Published)
	require.Equal(t, 1, rec.published)
	require.Equal(t, 60, rec.assignments)
	require.Equal(t, []int{id}, spy.plans)
}

func TestPublishIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	pub := NewPublisher(st, nil, nil, discard())

	require.NoError(t, pub.Publish(ctx, id))
	firstRows, firstUsage := rows(st), usage(t, st)

	require.NoError(t, pub.Publish(ctx, id))
	require.ElementsMatch(t, firstRows, rows(st))
	require.Equal(t, firstUsage, usage(t, st))
}

func TestPublishLastUsedDate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	require.NoError(t, NewPublisher(st, nil, nil, discard()).Publish(ctx, id))

	latest := map[int]string{}
	for _, r := range rows(st) {
		latest[r.item] = max(latest[r.item], r.date)
	}
	for itemID, date := range latest {
		it, err := st.GetItem(ctx, itemID)
		require.NoError(t, err)
		require.NotNil(t, it.LastUsedDate)
		require.Equal(t, date, *it.LastUsedDate)
	}
}

func TestPublishErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown plan", func(t *testing.T) {
		err := NewPublisher(store.NewMemory(), nil, nil, discard()).Publish(ctx, 404)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("malformed document", func(t *testing.T) {
		st := store.NewMemory()
		id, err := st.SaveDraftPlan(ctx, &model.WeekPlan{WeekStart: weekStart, Document: []byte(`{"version":1,"days":{}}`)})
		require.NoError(t, err)

		err = NewPublisher(st, nil, nil, discard()).Publish(ctx, id)
		require.ErrorIs(t, err, apperr.ErrValidation)
		require.Empty(t, st.Assignments())
	})

	t.Run("deleted item rolls back", func(t *testing.T) {
		st := store.NewMemory()
		id := draft(t, st)
		items, err := st.ListItems(ctx, model.ItemFilter{})
		require.NoError(t, err)
		for _, it := range items {
			require.NoError(t, st.DeleteItem(ctx, it.ID))
		}

		err = NewPublisher(st, nil, nil, discard()).Publish(ctx, id)
		require.ErrorIs(t, err, apperr.ErrNotFound)
		require.Empty(t, st.Assignments())
	})
}

func TestPublishRollsBackOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	pub := NewPublisher(st, nil, nil, discard())

	require.NoError(t, pub.Publish(ctx, id))
	before, beforeUsage := rows(st), usage(t, st)

	cause := errors.New("disk full")
	st.Fail("insert_assignment", cause)
	err := pub.Publish(ctx, id)
	require.ErrorIs(t, err, apperr.ErrStorage)
	require.ErrorIs(t, err, cause)
	require.Equal(t, before, rows(st))
	require.Equal(t, beforeUsage, usage(t, st))

	st.Fail("insert_assignment", nil)
	require.NoError(t, pub.Publish(ctx, id))
	require.ElementsMatch(t, before, rows(st))

	other := store.NewMemory()
	otherID := draft(t, other)
	other.Fail("mark_plan_published", cause)
	require.ErrorIs(t, NewPublisher(other, nil, nil, discard()).Publish(ctx, otherID), cause)
	require.Empty(t, other.Assignments())
	plan, err := other.LoadPlan(ctx, otherID)
	require.NoError(t, err)
	require.False(t, plan.Published)
}

func TestPublishConcurrent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	pub := NewPublisher(st, nil, nil, discard())

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- pub.Publish(ctx, id)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, rows(st), 60)
	total := 0
	for _, n := range usage(t, st) {
		total += n
	}
	require.Equal(t, 60, total)
	require.Empty(t, pub.locks)
}
