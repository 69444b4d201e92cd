package service

import (
	"context"
	"testing"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"github.com/stretchr/testify/require"
)

func validItem() model.ItemCreateRequest {
	return model.ItemCreateRequest{
		Category:       "New",
		ProductImage:   "/uploads/p.png",
		ReferenceImage: "/uploads/r.png",
		VideoLink:      "https://example.com/v",
		CopyText:       "summer drop",
		Tags:           "summer,dress",
	}
}

func TestCatalogCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(store.NewMemory())

	it, err := svc.Create(ctx, validItem())
	require.NoError(t, err)
	require.Equal(t, "new", it.Category)
	require.Equal(t, model.ItemStatusActive, it.Status)

	t.Run("missing field", func(t *testing.T) {
		req := validItem()
		req.VideoLink = ""
		_, err := svc.Create(ctx, req)
		require.ErrorIs(t, err, apperr.ErrValidation)
		require.Equal(t, "video_link is required", apperr.Reason(err))
	})

	t.Run("unknown category", func(t *testing.T) {
		req := validItem()
		req.Category = "shoes"
		_, err := svc.Create(ctx, req)
		require.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestCatalogUpdateAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(store.NewMemory())
	it, err := svc.Create(ctx, validItem())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Update(ctx, it.ID, model.ItemUpdateRequest{Status: ptr("archived")}), apperr.ErrValidation)
	require.ErrorIs(t, svc.Update(ctx, it.ID, model.ItemUpdateRequest{Category: ptr("shoes")}), apperr.ErrValidation)
	require.NoError(t, svc.Update(ctx, it.ID, model.ItemUpdateRequest{Status: ptr(model.ItemStatusInactive), CopyText: ptr("winter")}))

	got, err := svc.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusInactive, got.Status)
	require.Equal(t, "winter", got.CopyText)

	require.NoError(t, svc.Validate(ctx, it.ID))
	got, err = svc.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, distribution.Validated.String(), got.Category)

	require.ErrorIs(t, svc.Validate(ctx, 999), apperr.ErrNotFound)
}

func TestCatalogListAndStats(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewCatalogService(st)
	addCatalog(t, st, map[distribution.Category]int{distribution.Validated: 2, distribution.New: 3})
	tagged, err := svc.Create(ctx, validItem())
	require.NoError(t, err)

	items, err := svc.List(ctx, model.ItemFilter{Search: "DRESS"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, tagged.ID, items[0].ID)

	items, err = svc.List(ctx, model.ItemFilter{Category: "validated"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = svc.List(ctx, model.ItemFilter{Category: "shoes"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(6), stats.Total)
	require.Equal(t, map[string]int64{"validated": 2, "apparel": 0, "apparel-music": 0, "new": 4}, stats.ByCategory)
}
