package service

import (
	"context"
	"strings"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"
)

// CatalogService manages catalog items. Images are referenced by path.
type CatalogService struct {
	store store.Store
}

func NewCatalogService(s store.Store) *CatalogService { return &CatalogService{store: s} }

func (s *CatalogService) List(ctx context.Context, f model.ItemFilter) ([]model.CatalogItem, error) {
	if f.Category != "" {
		c, ok := distribution.ParseCategory(f.Category)
		if !ok {
			return nil, apperr.Validation("unknown category %q", f.Category)
		}
		f.Category = c.String()
	}
	return s.store.ListItems(ctx, f)
}

func (s *CatalogService) Get(ctx context.Context, id int) (model.CatalogItem, error) {
	return s.store.GetItem(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, req model.ItemCreateRequest) (*model.CatalogItem, error) {
	c, ok := distribution.ParseCategory(req.Category)
	if !ok {
		return nil, apperr.Validation("category is required and must be one of validated, apparel, apparel-music, new")
	}
	required := []struct{ field, value string }{
		{"product_image", req.ProductImage},
		{"reference_image", req.ReferenceImage},
		{"video_link", req.VideoLink},
		{"copy_text", req.CopyText},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperr.Validation("%s is required", r.field)
		}
	}
	it := &model.CatalogItem{
		Category:       c.String(),
		ProductImage:   req.ProductImage,
		ReferenceImage: req.ReferenceImage,
		VideoLink:      req.VideoLink,
		CopyText:       req.CopyText,
		Observation:    req.Observation,
		Tags:           req.Tags,
		Status:         model.ItemStatusActive,
	}
	if err := s.store.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *CatalogService) Update(ctx context.Context, id int, req model.ItemUpdateRequest) error {
	if req.Category != nil {
		c, ok := distribution.ParseCategory(*req.Category)
		if !ok {
			return apperr.Validation("unknown category %q", *req.Category)
		}
		v := c.String()
		req.Category = &v
	}
	if req.Status != nil && *req.Status != model.ItemStatusActive && *req.Status != model.ItemStatusInactive {
		return apperr.Validation("status must be active or inactive")
	}
	return s.store.UpdateItem(ctx, id, req)
}

// Validate moves an item into the validated category.
func (s *CatalogService) Validate(ctx context.Context, id int) error {
	v := distribution.Validated.String()
	return s.store.UpdateItem(ctx, id, model.ItemUpdateRequest{Category: &v})
}

func (s *CatalogService) Delete(ctx context.Context, id int) error {
	return s.store.DeleteItem(ctx, id)
}

// Stats counts active items per category. Every category is present.
func (s *CatalogService) Stats(ctx context.Context) (model.CatalogStats, error) {
	counts, err := s.store.CountActiveByCategory(ctx)
	if err != nil {
		return model.CatalogStats{}, err
	}
	st := model.CatalogStats{ByCategory: make(map[string]int64, len(distribution.Categories))}
	for _, c := range distribution.Categories {
		n := counts[c.String()]
		st.ByCategory[c.String()] = n
		st.Total += n
	}
	return st, nil
}
