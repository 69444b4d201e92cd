package service

import (
	"context"
	"testing"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"github.com/stretchr/testify/require"
)

func TestEmployeeToday(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	require.NoError(t, NewPublisher(st, nil, nil, discard()).Publish(ctx, id))

	svc := NewEmployeeService(st)
	svc.now = func() time.Time { return time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC) }

	day, err := svc.Today(ctx, "ANA")
	require.NoError(t, err)
	require.Equal(t, "ana", day.Member.Name)
	require.Equal(t, "2026-10-20", day.Date)
	require.Equal(t, 6, day.Stats.Total)
	require.Len(t, day.Products, len(distribution.Categories))
	require.Len(t, day.Products["validated"], 1)
	require.Len(t, day.Products["new"], 3)

	itemID := day.Products["new"][0].ItemID
	require.NoError(t, svc.MarkDownloaded(ctx, "ana", itemID))
	require.NoError(t, svc.MarkCompleted(ctx, "ana", itemID))

	day, err = svc.Today(ctx, "ana")
	require.NoError(t, err)
	require.Equal(t, 1, day.Stats.Downloaded)
	require.Equal(t, 1, day.Stats.Completed)

	_, err = svc.Today(ctx, "carla")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, svc.MarkDownloaded(ctx, "carla", itemID), apperr.ErrNotFound)
}

func TestEmployeeTodayWithoutPlan(t *testing.T) {
	st := store.NewMemory()
	addMember(t, st, "ana", 6)

	day, err := NewEmployeeService(st).Today(context.Background(), "ana")
	require.NoError(t, err)
	require.Zero(t, day.Stats.Total)
	require.NotNil(t, day.Products["apparel"])
}

func TestEmployeeHistory(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	id := draft(t, st)
	require.NoError(t, NewPublisher(st, nil, nil, discard()).Publish(ctx, id))
	svc := NewEmployeeService(st)

	hist, err := svc.History(ctx, "ana", 2)
	require.NoError(t, err)
	require.Len(t, hist, 12)
	require.Equal(t, "2026-10-23", hist[0].Date)
	require.Equal(t, "2026-10-22", hist[len(hist)-1].Date)

	hist, err = svc.History(ctx, "ana", 0)
	require.NoError(t, err)
	require.Len(t, hist, 30)

	_, err = svc.History(ctx, "carla", 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
