package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"

	DefaultQuota = 6
)

// Dates are stored as YYYY-MM-DD strings so they compare and group the same
// way in SQL and in Go.

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:191;uniqueIndex" json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMember struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:191;uniqueIndex" json:"name"`
	ProductsPerDay int       `json:"products_per_day"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type CatalogItem struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Category       string    `gorm:"size:32;index:idx_category_status" json:"category"`
	ProductImage   string    `json:"product_image"`
	ReferenceImage string    `json:"reference_image"`
	VideoLink      string    `json:"video_link"`
	CopyText       string    `gorm:"type:text" json:"copy_text"`
	Observation    string    `gorm:"type:text" json:"observation"`
	Tags           string    `json:"tags"`
	Status         string    `gorm:"size:16;index:idx_category_status" json:"status"`
	TimesUsed      int       `json:"times_used"`
	LastUsedDate   *string   `gorm:"size:10" json:"last_used_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// WeekPlan is a generated distribution. Document holds the versioned plan
// document of the distribution package.
type WeekPlan struct {
	ID        int            `gorm:"primaryKey" json:"id"`
	WeekStart string         `gorm:"size:10;index" json:"week_start"`
	WeekEnd   string         `gorm:"size:10" json:"week_end"`
	Mode      string         `gorm:"size:16" json:"distribution_mode"`
	Document  datatypes.JSON `gorm:"type:json" json:"distribution_data"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
}

type Assignment struct {
	ID             int    `gorm:"primaryKey" json:"id"`
	MemberID       int    `gorm:"index:idx_member_date" json:"member_id"`
	ItemID         int    `gorm:"index" json:"product_id"`
	Date           string `gorm:"size:10;index:idx_member_date" json:"date"`
	Downloaded     bool   `json:"downloaded"`
	VideoCompleted bool   `json:"video_completed"`
}

func (User) TableName() string        { return "users" }
func (TeamMember) TableName() string  { return "team_members" }
func (CatalogItem) TableName() string { return "products" }
func (WeekPlan) TableName() string    { return "distributions" }
func (Assignment) TableName() string  { return "employee_products" }

// All lists every model, for migrations.
func All() []any {
	return []any{&User{}, &TeamMember{}, &CatalogItem{}, &WeekPlan{}, &Assignment{}}
}
