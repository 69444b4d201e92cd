package store

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
)

// Memory is an in-process Store. WithTx snapshots the state and restores it
// when fn fails. Writes made outside a transaction wait until the running
// transaction finishes, so a rollback never discards them. Reads are not
// blocked and may observe uncommitted state.
type Memory struct {
	*memCore
	inTx bool
}

type memCore struct {
	mu       sync.RWMutex
	txMu     sync.RWMutex
	state    memState
	failures map[string]error
	now      func() time.Time
}

type memState struct {
	users       map[int]model.User
	members     map[int]model.TeamMember
	items       map[int]model.CatalogItem
	plans       map[int]model.WeekPlan
	assignments map[int]model.Assignment
	nextID      int
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{memCore: &memCore{
		state: memState{
			users:       map[int]model.User{},
			members:     map[int]model.TeamMember{},
			items:       map[int]model.CatalogItem{},
			plans:       map[int]model.WeekPlan{},
			assignments: map[int]model.Assignment{},
		},
		failures: map[string]error{},
		now:      time.Now,
	}}
}

// Fail makes every later call of op return err; a nil err clears it.
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *Memory) failure(op string) error {
	if err, ok := m.failures[op]; ok {
		return apperr.Storage(op, err)
	}
	return nil
}

func (m *Memory) id() int {
	m.state.nextID++
	return m.state.nextID
}

func (s memState) clone() memState {
	return memState{
		users:       maps.Clone(s.users),
		members:     maps.Clone(s.members),
		items:       maps.Clone(s.items),
		plans:       maps.Clone(s.plans),
		assignments: maps.Clone(s.assignments),
		nextID:      s.nextID,
	}
}

// write holds off plain writers while a transaction runs.
func (m *Memory) write() func() {
	if m.inTx {
		return func() {}
	}
	m.txMu.RLock()
	return m.txMu.RUnlock
}

func (m *Memory) WithTx(_ context.Context, fn func(tx Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	saved := m.state.clone()
	m.mu.RUnlock()

	if err := fn(&Memory{memCore: m.memCore, inTx: true}); err != nil {
		m.mu.Lock()
		m.state = saved
		m.mu.Unlock()
		return err
	}
	return nil
}

// --- members ---

func (m *Memory) ListMembers(_ context.Context) ([]model.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("list_members"); err != nil {
		return nil, err
	}
	out := slices.Collect(maps.Values(m.state.members))
	slices.SortFunc(out, func(a, b model.TeamMember) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return out, nil
}

func (m *Memory) ActiveMembers(_ context.Context) ([]model.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("active_members"); err != nil {
		return nil, err
	}
	var out []model.TeamMember
	for _, id := range sortedKeys(m.state.members) {
		if mem := m.state.members[id]; mem.Active {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *Memory) GetMember(_ context.Context, id int) (model.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.state.members[id]
	if !ok {
		return mem, apperr.NotFound("member %d not found", id)
	}
	return mem, nil
}

func (m *Memory) FindMemberByName(_ context.Context, name string) (model.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name = strings.ToLower(strings.TrimSpace(name))
	for _, id := range sortedKeys(m.state.members) {
		if mem := m.state.members[id]; strings.ToLower(mem.Name) == name {
			return mem, nil
		}
	}
	return model.TeamMember{}, apperr.NotFound("member %q not found", name)
}

func (m *Memory) CreateMember(_ context.Context, mem *model.TeamMember) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("create_member"); err != nil {
		return err
	}
	mem.ID = m.id()
	if mem.CreatedAt.IsZero() {
		mem.CreatedAt = m.now()
	}
	m.state.members[mem.ID] = *mem
	return nil
}

func (m *Memory) UpdateMember(_ context.Context, id int, req model.MemberUpdateRequest) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.state.members[id]
	if !ok {
		return apperr.NotFound("member %d not found", id)
	}
	if req.Name != nil {
		mem.Name = strings.ToLower(strings.TrimSpace(*req.Name))
	}
	if req.ProductsPerDay != nil {
		mem.ProductsPerDay = *req.ProductsPerDay
	}
	if req.Active != nil {
		mem.Active = *req.Active
	}
	m.state.members[id] = mem
	return nil
}

func (m *Memory) SetAllQuotas(_ context.Context, quota int) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, mem := range m.state.members {
		mem.ProductsPerDay = quota
		m.state.members[id] = mem
	}
	return nil
}

func (m *Memory) DeleteMember(_ context.Context, id int) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.members, id)
	return nil
}

// --- catalog items ---

func (m *Memory) ActiveItemsByCategory(_ context.Context, category string) ([]model.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("active_items"); err != nil {
		return nil, err
	}
	var out []model.CatalogItem
	for _, id := range sortedKeys(m.state.items) {
		it := m.state.items[id]
		if it.Category == category && it.Status == model.ItemStatusActive {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *Memory) ListItems(_ context.Context, f model.ItemFilter) ([]model.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	search := strings.ToLower(f.Search)
	var out []model.CatalogItem
	for _, it := range m.state.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Observation), search) &&
			!strings.Contains(strings.ToLower(it.CopyText), search) &&
			!strings.Contains(strings.ToLower(it.Tags), search) {
			continue
		}
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b model.CatalogItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.ID - a.ID
	})
	return out, nil
}

func (m *Memory) GetItem(_ context.Context, id int) (model.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.state.items[id]
	if !ok {
		return it, apperr.NotFound("product %d not found", id)
	}
	return it, nil
}

func (m *Memory) CreateItem(_ context.Context, it *model.CatalogItem) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("create_item"); err != nil {
		return err
	}
	it.ID = m.id()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = m.now()
	}
	m.state.items[it.ID] = *it
	return nil
}

func (m *Memory) UpdateItem(_ context.Context, id int, req model.ItemUpdateRequest) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.state.items[id]
	if !ok {
		return apperr.NotFound("product %d not found", id)
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&it.Category, req.Category)
	set(&it.VideoLink, req.VideoLink)
	set(&it.CopyText, req.CopyText)
	set(&it.Observation, req.Observation)
	set(&it.Tags, req.Tags)
	set(&it.Status, req.Status)
	m.state.items[id] = it
	return nil
}

func (m *Memory) DeleteItem(_ context.Context, id int) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.items, id)
	return nil
}

func (m *Memory) CountActiveByCategory(_ context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int64{}
	for _, it := range m.state.items {
		if it.Status == model.ItemStatusActive {
			out[it.Category]++
		}
	}
	return out, nil
}

func (m *Memory) IncrementItemUsage(_ context.Context, id int, date string) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("increment_item_usage"); err != nil {
		return err
	}
	it, ok := m.state.items[id]
	if !ok {
		return apperr.NotFound("product %d not found", id)
	}
	it.TimesUsed++
	d := date
	it.LastUsedDate = &d
	m.state.items[id] = it
	return nil
}

func (m *Memory) ReleaseItemUsage(_ context.Context, id int) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.state.items[id]; ok && it.TimesUsed > 0 {
		it.TimesUsed--
		m.state.items[id] = it
	}
	return nil
}

// --- plans ---

func (m *Memory) SaveDraftPlan(_ context.Context, p *model.WeekPlan) (int, error) {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("save_draft_plan"); err != nil {
		return 0, err
	}
	p.ID = m.id()
	p.Published = false
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	stored := *p
	stored.Document = slices.Clone(p.Document)
	m.state.plans[p.ID] = stored
	return p.ID, nil
}

func (m *Memory) LoadPlan(_ context.Context, id int) (model.WeekPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("load_plan"); err != nil {
		return model.WeekPlan{}, err
	}
	p, ok := m.state.plans[id]
	if !ok {
		return p, apperr.NotFound("distribution %d not found", id)
	}
	p.Document = slices.Clone(p.Document)
	return p, nil
}

func (m *Memory) ListPlans(_ context.Context, limit int) ([]model.WeekPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Collect(maps.Values(m.state.plans))
	slices.SortFunc(out, newestPlanFirst)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ActivePlan(_ context.Context, date string) (model.WeekPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var hits []model.WeekPlan
	for _, p := range m.state.plans {
		if p.Published && p.WeekStart <= date && p.WeekEnd >= date {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		return model.WeekPlan{}, apperr.NotFound("no published distribution covers %s", date)
	}
	slices.SortFunc(hits, newestPlanFirst)
	return hits[0], nil
}

func (m *Memory) MarkPlanPublished(_ context.Context, id int) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("mark_plan_published"); err != nil {
		return err
	}
	p, ok := m.state.plans[id]
	if !ok {
		return apperr.NotFound("distribution %d not found", id)
	}
	p.Published = true
	m.state.plans[id] = p
	return nil
}

func newestPlanFirst(a, b model.WeekPlan) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return b.ID - a.ID
}

// --- assignments ---

func (m *Memory) DeleteAssignments(_ context.Context, memberID int, date string) ([]int, error) {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("delete_assignments"); err != nil {
		return nil, err
	}
	var itemIDs []int
	for _, id := range sortedKeys(m.state.assignments) {
		a := m.state.assignments[id]
		if a.MemberID == memberID && a.Date == date {
			itemIDs = append(itemIDs, a.ItemID)
			delete(m.state.assignments, id)
		}
	}
	return itemIDs, nil
}

func (m *Memory) InsertAssignment(_ context.Context, memberID, itemID int, date string) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("insert_assignment"); err != nil {
		return err
	}
	id := m.id()
	m.state.assignments[id] = model.Assignment{ID: id, MemberID: memberID, ItemID: itemID, Date: date}
	return nil
}

// Assignments returns every assignment row ordered by id.
func (m *Memory) Assignments() []model.Assignment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Assignment, 0, len(m.state.assignments))
	for _, id := range sortedKeys(m.state.assignments) {
		out = append(out, m.state.assignments[id])
	}
	return out
}

func (m *Memory) joined(a model.Assignment) model.AssignedItem {
	it := m.state.items[a.ItemID]
	return model.AssignedItem{
		AssignmentID:   a.ID,
		ItemID:         a.ItemID,
		Category:       it.Category,
		ProductImage:   it.ProductImage,
		ReferenceImage: it.ReferenceImage,
		VideoLink:      it.VideoLink,
		CopyText:       it.CopyText,
		Observation:    it.Observation,
		Tags:           it.Tags,
		Date:           a.Date,
		Downloaded:     a.Downloaded,
		VideoCompleted: a.VideoCompleted,
	}
}

func (m *Memory) ListAssignedItems(_ context.Context, memberID int, date string) ([]model.AssignedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.AssignedItem
	for _, a := range m.state.assignments {
		if _, ok := m.state.items[a.ItemID]; ok && a.MemberID == memberID && a.Date == date {
			out = append(out, m.joined(a))
		}
	}
	slices.SortFunc(out, func(a, b model.AssignedItem) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return a.ItemID - b.ItemID
	})
	return out, nil
}

func (m *Memory) MemberHistory(_ context.Context, memberID, limit int) ([]model.AssignedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.AssignedItem
	for _, a := range m.state.assignments {
		if _, ok := m.state.items[a.ItemID]; ok && a.MemberID == memberID {
			out = append(out, m.joined(a))
		}
	}
	slices.SortFunc(out, func(a, b model.AssignedItem) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return a.AssignmentID - b.AssignmentID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SetAssignmentFlag(_ context.Context, memberID, itemID int, date string, flag AssignmentFlag) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.state.assignments {
		if a.MemberID != memberID || a.ItemID != itemID || a.Date != date {
			continue
		}
		switch flag {
		case FlagDownloaded:
			a.Downloaded = true
		case FlagVideoCompleted:
			a.VideoCompleted = true
		}
		m.state.assignments[id] = a
	}
	return nil
}

func (m *Memory) AssignmentStats(_ context.Context, memberID int) (model.MemberStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var st model.MemberStats
	for _, a := range m.state.assignments {
		if a.MemberID != memberID {
			continue
		}
		st.TotalVideos++
		if a.VideoCompleted {
			st.Completed++
		}
		if a.Downloaded {
			st.Downloaded++
		}
	}
	st.Pending = st.TotalVideos - st.Completed
	return st, nil
}

// --- users ---

func (m *Memory) FindUser(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.state.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, apperr.NotFound("user %q not found", email)
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	m.state.users[u.ID] = *u
	return nil
}

// --- backup ---

func (m *Memory) Snapshot(_ context.Context) (model.BackupData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var data model.BackupData
	for _, id := range sortedKeys(m.state.members) {
		data.Members = append(data.Members, m.state.members[id])
	}
	for _, id := range sortedKeys(m.state.items) {
		data.Items = append(data.Items, m.state.items[id])
	}
	for _, id := range sortedKeys(m.state.plans) {
		data.Plans = append(data.Plans, m.state.plans[id])
	}
	for _, id := range sortedKeys(m.state.assignments) {
		data.Assignments = append(data.Assignments, m.state.assignments[id])
	}
	return data, nil
}

func (m *Memory) Restore(_ context.Context, data model.BackupData) error {
	defer m.write()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("restore"); err != nil {
		return err
	}
	m.state.members = map[int]model.TeamMember{}
	m.state.items = map[int]model.CatalogItem{}
	m.state.plans = map[int]model.WeekPlan{}
	m.state.assignments = map[int]model.Assignment{}
	keep := func(id int) {
		m.state.nextID = max(m.state.nextID, id)
	}
	for _, v := range data.Members {
		m.state.members[v.ID] = v
		keep(v.ID)
	}
	for _, v := range data.Items {
		m.state.items[v.ID] = v
		keep(v.ID)
	}
	for _, v := range data.Plans {
		m.state.plans[v.ID] = v
		keep(v.ID)
	}
	for _, v := range data.Assignments {
		m.state.assignments[v.ID] = v
		keep(v.ID)
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
