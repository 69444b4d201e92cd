package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"

	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, m *Memory, category, status string) model.CatalogItem {
	t.Helper()
	it := model.CatalogItem{Category: category, Status: status, ProductImage: "img.png"}
	require.NoError(t, m.CreateItem(context.Background(), &it))
	return it
}

func TestMemoryMembers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ana := model.TeamMember{Name: "ana", ProductsPerDay: 6, Active: true}
	bia := model.TeamMember{Name: "bia", ProductsPerDay: 9, Active: false}
	require.NoError(t, m.CreateMember(ctx, &ana))
	require.NoError(t, m.CreateMember(ctx, &bia))

	active, err := m.ActiveMembers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "ana", active[0].Name)

	found, err := m.FindMemberByName(ctx, " ANA ")
	require.NoError(t, err)
	require.Equal(t, ana.ID, found.ID)

	_, err = m.FindMemberByName(ctx, "carla")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	on := true
	require.NoError(t, m.UpdateMember(ctx, bia.ID, model.MemberUpdateRequest{Active: &on}))
	active, err = m.ActiveMembers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Less(t, active[0].ID, active[1].ID)

	require.ErrorIs(t, m.UpdateMember(ctx, 999, model.MemberUpdateRequest{}), apperr.ErrNotFound)

	require.NoError(t, m.SetAllQuotas(ctx, 12))
	got, err := m.GetMember(ctx, ana.ID)
	require.NoError(t, err)
	require.Equal(t, 12, got.ProductsPerDay)
}

func TestMemoryItemUsage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	it := seedItem(t, m, "validated", model.ItemStatusActive)
	seedItem(t, m, "validated", model.ItemStatusInactive)

	items, err := m.ActiveItemsByCategory(ctx, "validated")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, m.IncrementItemUsage(ctx, it.ID, "2026-10-19"))
	require.NoError(t, m.IncrementItemUsage(ctx, it.ID, "2026-10-20"))
	got, err := m.GetItem(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.TimesUsed)
	require.Equal(t, "2026-10-20", *got.LastUsedDate)

	require.NoError(t, m.ReleaseItemUsage(ctx, it.ID))
	require.NoError(t, m.ReleaseItemUsage(ctx, it.ID))
	require.NoError(t, m.ReleaseItemUsage(ctx, it.ID))
	got, err = m.GetItem(ctx, it.ID)
	require.NoError(t, err)
	require.Zero(t, got.TimesUsed)

	require.ErrorIs(t, m.IncrementItemUsage(ctx, 999, "2026-10-19"), apperr.ErrNotFound)
}

func TestMemoryAssignments(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedItem(t, m, "new", model.ItemStatusActive)
	b := seedItem(t, m, "apparel", model.ItemStatusActive)

	require.NoError(t, m.InsertAssignment(ctx, 1, a.ID, "2026-10-19"))
	require.NoError(t, m.InsertAssignment(ctx, 1, b.ID, "2026-10-19"))
	require.NoError(t, m.InsertAssignment(ctx, 1, a.ID, "2026-10-20"))

	rows, err := m.ListAssignedItems(ctx, 1, "2026-10-19")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "apparel", rows[0].Category)

	require.NoError(t, m.SetAssignmentFlag(ctx, 1, a.ID, "2026-10-19", FlagVideoCompleted))
	st, err := m.AssignmentStats(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, model.MemberStats{TotalVideos: 3, Completed: 1, Pending: 2}, st)

	hist, err := m.MemberHistory(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, "2026-10-20", hist[0].Date)

	removed, err := m.DeleteAssignments(ctx, 1, "2026-10-19")
	require.NoError(t, err)
	require.ElementsMatch(t, []int{a.ID, b.ID}, removed)
	require.Len(t, m.Assignments(), 1)
}

func TestMemoryWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	it := seedItem(t, m, "new", model.ItemStatusActive)
	boom := errors.New("boom")

	err := m.WithTx(ctx, func(tx Store) error {
		require.NoError(t, tx.InsertAssignment(ctx, 1, it.ID, "2026-10-19"))
		require.NoError(t, tx.IncrementItemUsage(ctx, it.ID, "2026-10-19"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Empty(t, m.Assignments())

	got, err := m.GetItem(ctx, it.ID)
	require.NoError(t, err)
	require.Zero(t, got.TimesUsed)
	require.Nil(t, got.LastUsedDate)

	require.NoError(t, m.WithTx(ctx, func(tx Store) error {
		return tx.InsertAssignment(ctx, 1, it.ID, "2026-10-19")
	}))
	require.Len(t, m.Assignments(), 1)
}

func TestMemoryWithTxKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	it := seedItem(t, m, "new", model.ItemStatusActive)

	entered := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- m.WithTx(ctx, func(tx Store) error {
			if err := tx.InsertAssignment(ctx, 1, it.ID, "2026-10-19"); err != nil {
				return err
			}
			close(entered)
			<-release
			return errors.New("boom")
		})
	}()
	<-entered

	created := make(chan error, 1)
	go func() {
		created <- m.CreateMember(ctx, &model.TeamMember{Name: "late", ProductsPerDay: 6, Active: true})
	}()
	select {
	case <-created:
		t.Fatal("write ran while a transaction was open")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.EqualError(t, <-txDone, "boom")
	require.NoError(t, <-created)
	require.Empty(t, m.Assignments())

	_, err := m.FindMemberByName(ctx, "late")
	require.NoError(t, err)
}

func TestMemoryFail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	cause := errors.New("disk full")

	m.Fail("insert_assignment", cause)
	err := m.InsertAssignment(ctx, 1, 1, "2026-10-19")
	require.ErrorIs(t, err, apperr.ErrStorage)
	require.ErrorIs(t, err, cause)

	m.Fail("insert_assignment", nil)
	require.NoError(t, m.InsertAssignment(ctx, 1, 1, "2026-10-19"))
}

func TestMemoryPlans(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	p := model.WeekPlan{WeekStart: "2026-10-19", WeekEnd: "2026-10-23", Mode: "same", Document: []byte(`{}`), Published: true}
	id, err := m.SaveDraftPlan(ctx, &p)
	require.NoError(t, err)
	require.False(t, p.Published)

	_, err = m.ActivePlan(ctx, "2026-10-21")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, m.MarkPlanPublished(ctx, id))
	active, err := m.ActivePlan(ctx, "2026-10-21")
	require.NoError(t, err)
	require.Equal(t, id, active.ID)

	_, err = m.ActivePlan(ctx, "2026-10-24")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = m.LoadPlan(ctx, 999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, m.MarkPlanPublished(ctx, 999), apperr.ErrNotFound)
}

func TestMemorySnapshotRestore(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	mem := model.TeamMember{Name: "ana", ProductsPerDay: 6, Active: true}
	require.NoError(t, src.CreateMember(ctx, &mem))
	it := seedItem(t, src, "validated", model.ItemStatusActive)
	require.NoError(t, src.InsertAssignment(ctx, mem.ID, it.ID, "2026-10-19"))

	data, err := src.Snapshot(ctx)
	require.NoError(t, err)

	dst := NewMemory()
	require.NoError(t, dst.Restore(ctx, data))
	again, err := dst.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, data, again)

	next := model.TeamMember{Name: "bia"}
	require.NoError(t, dst.CreateMember(ctx, &next))
	require.Greater(t, next.ID, it.ID)
}
