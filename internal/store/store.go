// Package store is the persistence boundary of the service. GormStore talks
// to MySQL through gorm; Memory keeps everything in process for tests and
// local runs.
package store

import (
	"context"

	"github.com/grupoevolution/tiktokconteudos/internal/model"
)

type MemberStore interface {
	ListMembers(ctx context.Context) ([]model.TeamMember, error)
	// ActiveMembers returns active members ordered by id.
	ActiveMembers(ctx context.Context) ([]model.TeamMember, error)
	GetMember(ctx context.Context, id int) (model.TeamMember, error)
	// FindMemberByName matches case-insensitively.
	FindMemberByName(ctx context.Context, name string) (model.TeamMember, error)
	CreateMember(ctx context.Context, m *model.TeamMember) error
	UpdateMember(ctx context.Context, id int, req model.MemberUpdateRequest) error
	SetAllQuotas(ctx context.Context, quota int) error
	DeleteMember(ctx context.Context, id int) error
}

type ItemStore interface {
	// ActiveItemsByCategory returns active items of one category ordered by id.
	ActiveItemsByCategory(ctx context.Context, category string) ([]model.CatalogItem, error)
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.CatalogItem, error)
	GetItem(ctx context.Context, id int) (model.CatalogItem, error)
	CreateItem(ctx context.Context, it *model.CatalogItem) error
	UpdateItem(ctx context.Context, id int, req model.ItemUpdateRequest) error
	DeleteItem(ctx context.Context, id int) error
	CountActiveByCategory(ctx context.Context) (map[string]int64, error)
	// IncrementItemUsage bumps times_used and sets last_used_date.
	IncrementItemUsage(ctx context.Context, id int, date string) error
	// ReleaseItemUsage takes back one use, never going below zero.
	ReleaseItemUsage(ctx context.Context, id int) error
}

type PlanStore interface {
	SaveDraftPlan(ctx context.Context, p *model.WeekPlan) (int, error)
	LoadPlan(ctx context.Context, id int) (model.WeekPlan, error)
	ListPlans(ctx context.Context, limit int) ([]model.WeekPlan, error)
	// ActivePlan returns the newest published plan covering date.
	ActivePlan(ctx context.Context, date string) (model.WeekPlan, error)
	MarkPlanPublished(ctx context.Context, id int) error
}

type AssignmentFlag string

const (
	FlagDownloaded     AssignmentFlag = "downloaded"
	FlagVideoCompleted AssignmentFlag = "video_completed"
)

type AssignmentStore interface {
	// DeleteAssignments removes the rows of one member and date and returns
	// the item id of every removed row.
	DeleteAssignments(ctx context.Context, memberID int, date string) ([]int, error)
	InsertAssignment(ctx context.Context, memberID, itemID int, date string) error
	ListAssignedItems(ctx context.Context, memberID int, date string) ([]model.AssignedItem, error)
	MemberHistory(ctx context.Context, memberID, limit int) ([]model.AssignedItem, error)
	SetAssignmentFlag(ctx context.Context, memberID, itemID int, date string, flag AssignmentFlag) error
	AssignmentStats(ctx context.Context, memberID int) (model.MemberStats, error)
}

type UserStore interface {
	FindUser(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
}

type BackupStore interface {
	Snapshot(ctx context.Context) (model.BackupData, error)
	// Restore replaces members, items, plans and assignments. Users are kept.
	Restore(ctx context.Context, data model.BackupData) error
}

type Store interface {
	MemberStore
	ItemStore
	PlanStore
	AssignmentStore
	UserStore
	BackupStore

	// WithTx runs fn against a store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
