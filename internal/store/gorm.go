package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"

	"gorm.io/gorm"
)

type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB, logger *slog.Logger) *GormStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormStore{db: db, logger: logger}
}

// Migrate creates or updates every table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return s.fail("store.migrate", err)
	}
	return nil
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, logger: s.logger})
	})
}

// --- members ---

func (s *GormStore) ListMembers(ctx context.Context) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&members).Error; err != nil {
		return nil, s.fail("store.list_members", err)
	}
	return members, nil
}

func (s *GormStore) ActiveMembers(ctx context.Context) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&members).Error; err != nil {
		return nil, s.fail("store.active_members", err)
	}
	return members, nil
}

func (s *GormStore) GetMember(ctx context.Context, id int) (model.TeamMember, error) {
	var m model.TeamMember
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, apperr.NotFound("member %d not found", id)
		}
		return m, s.fail("store.get_member", err, "member_id", id)
	}
	return m, nil
}

func (s *GormStore) FindMemberByName(ctx context.Context, name string) (model.TeamMember, error) {
	var m model.TeamMember
	name = strings.ToLower(strings.TrimSpace(name))
	if err := s.db.WithContext(ctx).Where("LOWER(name) = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, apperr.NotFound("member %q not found", name)
		}
		return m, s.fail("store.find_member", err, "name", name)
	}
	return m, nil
}

func (s *GormStore) CreateMember(ctx context.Context, m *model.TeamMember) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return s.fail("store.create_member", err, "name", m.Name)
	}
	return nil
}

func (s *GormStore) UpdateMember(ctx context.Context, id int, req model.MemberUpdateRequest) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.ToLower(strings.TrimSpace(*req.Name))
	}
	if req.ProductsPerDay != nil {
		updates["products_per_day"] = *req.ProductsPerDay
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&model.TeamMember{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return s.fail("store.update_member", err, "member_id", id)
	}
	return nil
}

func (s *GormStore) SetAllQuotas(ctx context.Context, quota int) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&model.TeamMember{}).Update("products_per_day", quota).Error
	if err != nil {
		return s.fail("store.set_all_quotas", err, "quota", quota)
	}
	return nil
}

func (s *GormStore) DeleteMember(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
		return s.fail("store.delete_member", err, "member_id", id)
	}
	return nil
}

// --- catalog items ---

func (s *GormStore) ActiveItemsByCategory(ctx context.Context, category string) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	err := s.db.WithContext(ctx).
		Where("category = ? AND status = ?", category, model.ItemStatusActive).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, s.fail("store.active_items", err, "category", category)
	}
	return items, nil
}

func (s *GormStore) ListItems(ctx context.Context, f model.ItemFilter) ([]model.CatalogItem, error) {
	q := s.db.WithContext(ctx).Model(&model.CatalogItem{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("(observation LIKE ? OR copy_text LIKE ? OR tags LIKE ?)", like, like, like)
	}
	var items []model.CatalogItem
	if err := q.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, s.fail("store.list_items", err)
	}
	return items, nil
}

func (s *GormStore) GetItem(ctx context.Context, id int) (model.CatalogItem, error) {
	var it model.CatalogItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return it, apperr.NotFound("product %d not found", id)
		}
		return it, s.fail("store.get_item", err, "item_id", id)
	}
	return it, nil
}

func (s *GormStore) CreateItem(ctx context.Context, it *model.CatalogItem) error {
	if err := s.db.WithContext(ctx).Create(it).Error; err != nil {
		return s.fail("store.create_item", err, "category", it.Category)
	}
	return nil
}

func (s *GormStore) UpdateItem(ctx context.Context, id int, req model.ItemUpdateRequest) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	updates := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("category", req.Category)
	set("video_link", req.VideoLink)
	set("copy_text", req.CopyText)
	set("observation", req.Observation)
	set("tags", req.Tags)
	set("status", req.Status)
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&model.CatalogItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return s.fail("store.update_item", err, "item_id", id)
	}
	return nil
}

func (s *GormStore) DeleteItem(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CatalogItem{}).Error; err != nil {
		return s.fail("store.delete_item", err, "item_id", id)
	}
	return nil
}

func (s *GormStore) CountActiveByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		N        int64
	}
	err := s.db.WithContext(ctx).Model(&model.CatalogItem{}).
		Select("category, COUNT(*) AS n").
		Where("status = ?", model.ItemStatusActive).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("store.count_items", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Category] = r.N
	}
	return out, nil
}

func (s *GormStore) IncrementItemUsage(ctx context.Context, id int, date string) error {
	res := s.db.WithContext(ctx).Model(&model.CatalogItem{}).Where("id = ?", id).Updates(map[string]any{
		"times_used":     gorm.Expr("times_used + ?", 1),
		"last_used_date": date,
	})
	if res.Error != nil {
		return s.fail("store.increment_item_usage", res.Error, "item_id", id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product %d not found", id)
	}
	return nil
}

func (s *GormStore) ReleaseItemUsage(ctx context.Context, id int) error {
	err := s.db.WithContext(ctx).Model(&model.CatalogItem{}).Where("id = ?", id).
		UpdateColumn("times_used", gorm.Expr("CASE WHEN times_used > 0 THEN times_used - 1 ELSE 0 END")).Error
	if err != nil {
		return s.fail("store.release_item_usage", err, "item_id", id)
	}
	return nil
}

// --- plans ---

func (s *GormStore) SaveDraftPlan(ctx context.Context, p *model.WeekPlan) (int, error) {
	p.Published = false
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return 0, s.fail("store.save_draft_plan", err, "week_start", p.WeekStart)
	}
	return p.ID, nil
}

func (s *GormStore) LoadPlan(ctx context.Context, id int) (model.WeekPlan, error) {
	var p model.WeekPlan
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, apperr.NotFound("distribution %d not found", id)
		}
		return p, s.fail("store.load_plan", err, "plan_id", id)
	}
	return p, nil
}

func (s *GormStore) ListPlans(ctx context.Context, limit int) ([]model.WeekPlan, error) {
	var plans []model.WeekPlan
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&plans).Error; err != nil {
		return nil, s.fail("store.list_plans", err)
	}
	return plans, nil
}

func (s *GormStore) ActivePlan(ctx context.Context, date string) (model.WeekPlan, error) {
	var p model.WeekPlan
	err := s.db.WithContext(ctx).
		Where("published = ? AND week_start <= ? AND week_end >= ?", true, date, date).
		Order("created_at DESC, id DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, apperr.NotFound("no published distribution covers %s", date)
		}
		return p, s.fail("store.active_plan", err, "date", date)
	}
	return p, nil
}

func (s *GormStore) MarkPlanPublished(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Model(&model.WeekPlan{}).Where("id = ?", id).Update("published", true).Error; err != nil {
		return s.fail("store.mark_plan_published", err, "plan_id", id)
	}
	return nil
}

// --- assignments ---

func (s *GormStore) DeleteAssignments(ctx context.Context, memberID int, date string) ([]int, error) {
	var itemIDs []int
	q := s.db.WithContext(ctx).Model(&model.Assignment{}).Where("member_id = ? AND date = ?", memberID, date)
	if err := q.Pluck("item_id", &itemIDs).Error; err != nil {
		return nil, s.fail("store.delete_assignments", err, "member_id", memberID, "date", date)
	}
	if len(itemIDs) == 0 {
		return nil, nil
	}
	err := s.db.WithContext(ctx).Where("member_id = ? AND date = ?", memberID, date).Delete(&model.Assignment{}).Error
	if err != nil {
		return nil, s.fail("store.delete_assignments", err, "member_id", memberID, "date", date)
	}
	return itemIDs, nil
}

func (s *GormStore) InsertAssignment(ctx context.Context, memberID, itemID int, date string) error {
	row := model.Assignment{MemberID: memberID, ItemID: itemID, Date: date}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return s.fail("store.insert_assignment", err, "member_id", memberID, "item_id", itemID, "date", date)
	}
	return nil
}

func (s *GormStore) assignedItems(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("employee_products AS ep").
		Select("ep.id AS assignment_id, ep.item_id, p.category, p.product_image, p.reference_image, " +
			"p.video_link, p.copy_text, p.observation, p.tags, ep.date, ep.downloaded, ep.video_completed").
		Joins("JOIN products p ON p.id = ep.item_id")
}

func (s *GormStore) ListAssignedItems(ctx context.Context, memberID int, date string) ([]model.AssignedItem, error) {
	var rows []model.AssignedItem
	err := s.assignedItems(ctx).
		Where("ep.member_id = ? AND ep.date = ?", memberID, date).
		Order("p.category ASC, p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("store.list_assigned_items", err, "member_id", memberID, "date", date)
	}
	return rows, nil
}

func (s *GormStore) MemberHistory(ctx context.Context, memberID, limit int) ([]model.AssignedItem, error) {
	var rows []model.AssignedItem
	err := s.assignedItems(ctx).
		Where("ep.member_id = ?", memberID).
		Order("ep.date DESC, ep.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("store.member_history", err, "member_id", memberID)
	}
	return rows, nil
}

func (s *GormStore) SetAssignmentFlag(ctx context.Context, memberID, itemID int, date string, flag AssignmentFlag) error {
	err := s.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("member_id = ? AND item_id = ? AND date = ?", memberID, itemID, date).
		Update(string(flag), true).Error
	if err != nil {
		return s.fail("store.set_assignment_flag", err, "member_id", memberID, "item_id", itemID, "flag", flag)
	}
	return nil
}

func (s *GormStore) AssignmentStats(ctx context.Context, memberID int) (model.MemberStats, error) {
	var st model.MemberStats
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Assignment{}).Where("member_id = ?", memberID)
	}
	if err := base().Count(&st.TotalVideos).Error; err != nil {
		return st, s.fail("store.assignment_stats", err, "member_id", memberID)
	}
	if err := base().Where("video_completed = ?", true).Count(&st.Completed).Error; err != nil {
		return st, s.fail("store.assignment_stats", err, "member_id", memberID)
	}
	if err := base().Where("downloaded = ?", true).Count(&st.Downloaded).Error; err != nil {
		return st, s.fail("store.assignment_stats", err, "member_id", memberID)
	}
	st.Pending = st.TotalVideos - st.Completed
	return st, nil
}

// --- users ---

func (s *GormStore) FindUser(ctx context.Context, email string) (model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return u, apperr.NotFound("user %q not found", email)
		}
		return u, s.fail("store.find_user", err)
	}
	return u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return s.fail("store.create_user", err, "email", u.Email)
	}
	return nil
}

// --- backup ---

func (s *GormStore) Snapshot(ctx context.Context) (model.BackupData, error) {
	var data model.BackupData
	db := s.db.WithContext(ctx)
	for _, dst := range []any{&data.Members, &data.Items, &data.Plans, &data.Assignments} {
		if err := db.Order("id ASC").Find(dst).Error; err != nil {
			return data, s.fail("store.snapshot", err)
		}
	}
	return data, nil
}

func (s *GormStore) Restore(ctx context.Context, data model.BackupData) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []any{&model.Assignment{}, &model.WeekPlan{}, &model.CatalogItem{}, &model.TeamMember{}} {
		if err := db.Delete(m).Error; err != nil {
			return s.fail("store.restore_clear", err)
		}
	}
	const batch = 200
	if len(data.Members) > 0 {
		if err := db.CreateInBatches(&data.Members, batch).Error; err != nil {
			return s.fail("store.restore_members", err)
		}
	}
	if len(data.Items) > 0 {
		if err := db.CreateInBatches(&data.Items, batch).Error; err != nil {
			return s.fail("store.restore_items", err)
		}
	}
	if len(data.Plans) > 0 {
		if err := db.CreateInBatches(&data.Plans, batch).Error; err != nil {
			return s.fail("store.restore_plans", err)
		}
	}
	if len(data.Assignments) > 0 {
		if err := db.CreateInBatches(&data.Assignments, batch).Error; err != nil {
			return s.fail("store.restore_assignments", err)
		}
	}
	return nil
}

func (s *GormStore) fail(event string, err error, args ...any) error {
	s.logger.Error(event, append(args, "err", err)...)
	return apperr.Storage(strings.TrimPrefix(event, "store."), err)
}
