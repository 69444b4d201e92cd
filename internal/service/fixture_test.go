package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"github.com/stretchr/testify/require"
)

const weekStart = "2026-10-19"

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func addMember(t *testing.T, st store.Store, name string, quota int) model.TeamMember {
	t.Helper()
	m := model.TeamMember{Name: name, ProductsPerDay: quota, Active: true}
	require.NoError(t, st.CreateMember(context.Background(), &m))
	return m
}

// addCatalog creates n active items per category and returns their ids.
func addCatalog(t *testing.T, st store.Store, sizes map[distribution.Category]int) map[distribution.Category][]int {
	t.Helper()
	ids := map[distribution.Category][]int{}
	for _, c := range distribution.Categories {
		for i := range sizes[c] {
			it := model.CatalogItem{
				Category:       c.String(),
				ProductImage:   fmt.Sprintf("/uploads/%s-%d.png", c, i),
				ReferenceImage: fmt.Sprintf("/uploads/%s-%d-ref.png", c, i),
				VideoLink:      "https://example.com/v",
				CopyText:       "copy",
				Status:         model.ItemStatusActive,
			}
			require.NoError(t, st.CreateItem(context.Background(), &it))
			ids[c] = append(ids[c], it.ID)
		}
	}
	return ids
}

func fullCatalog() map[distribution.Category]int {
	return map[distribution.Category]int{
		distribution.Validated:    10,
		distribution.Apparel:      10,
		distribution.ApparelMusic: 10,
		distribution.New:          20,
	}
}

type recorder struct {
	mu          sync.Mutex
	generated   map[string]int
	published   int
	assignments int
	shortfall   map[string]int
}

func newRecorder() *recorder {
	return &recorder{generated: map[string]int{}, shortfall: map[string]int{}}
}

func (r *recorder) PlanGenerated(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated[mode]++
}

func (r *recorder) PlanPublished() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published++
}

func (r *recorder) AssignmentsCreated(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments += n
}

func (r *recorder) Shortfall(category string, missing int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shortfall[category] += missing
}

type mirrorSpy struct {
	mu    sync.Mutex
	plans []int
}

func (m *mirrorSpy) MirrorPlan(_ context.Context, planID int, _ *distribution.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, planID)
}
