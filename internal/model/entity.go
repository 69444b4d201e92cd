package model

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success  bool     `json:"success"`
	Token    string   `json:"token"`
	UserType string   `json:"userType"`
	User     UserView `json:"user"`
}

type UserView struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

type MemberCreateRequest struct {
	Name           string `json:"name"`
	ProductsPerDay int    `json:"products_per_day"`
}

// MemberUpdateRequest is a partial update; nil fields are left untouched.
type MemberUpdateRequest struct {
	Name           *string `json:"name"`
	ProductsPerDay *int    `json:"products_per_day"`
	Active         *bool   `json:"active"`
}

type QuotaRequest struct {
	ProductsPerDay int `json:"products_per_day"`
}

type MemberStats struct {
	TotalVideos int64 `json:"totalVideos"`
	Completed   int64 `json:"completed"`
	Downloaded  int64 `json:"downloaded"`
	Pending     int64 `json:"pending"`
}

type ItemCreateRequest struct {
	Category       string `json:"category"`
	ProductImage   string `json:"product_image"`
	ReferenceImage string `json:"reference_image"`
	VideoLink      string `json:"video_link"`
	CopyText       string `json:"copy_text"`
	Observation    string `json:"observation"`
	Tags           string `json:"tags"`
}

type ItemUpdateRequest struct {
	Category    *string `json:"category"`
	VideoLink   *string `json:"video_link"`
	CopyText    *string `json:"copy_text"`
	Observation *string `json:"observation"`
	Tags        *string `json:"tags"`
	Status      *string `json:"status"`
}

type ItemFilter struct {
	Category string
	Status   string
	Search   string
}

type CatalogStats struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
}

type GenerateRequest struct {
	WeekStart string `json:"week_start"`
	Mode      string `json:"distribution_mode"`
}

// AssignedItem is an assignment joined with its catalog item.
type AssignedItem struct {
	AssignmentID   int    `json:"assignment_id"`
	ItemID         int    `json:"product_id"`
	Category       string `json:"category"`
	ProductImage   string `json:"product_image"`
	ReferenceImage string `json:"reference_image"`
	VideoLink      string `json:"video_link"`
	CopyText       string `json:"copy_text"`
	Observation    string `json:"observation"`
	Tags           string `json:"tags"`
	Date           string `json:"date"`
	Downloaded     bool   `json:"downloaded"`
	VideoCompleted bool   `json:"video_completed"`
}

type EmployeeDay struct {
	Member   UserRef                   `json:"member"`
	Date     string                    `json:"date"`
	Products map[string][]AssignedItem `json:"products"`
	Stats    DayStats                  `json:"stats"`
}

type UserRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type DayStats struct {
	Total      int `json:"total"`
	Downloaded int `json:"downloaded"`
	Completed  int `json:"completed"`
}

const BackupVersion = "1.0"

type Backup struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exported_at"`
	Data       BackupData `json:"data"`
}

type BackupData struct {
	Members     []TeamMember  `json:"team_members"`
	Items       []CatalogItem `json:"products"`
	Plans       []WeekPlan    `json:"distributions"`
	Assignments []Assignment  `json:"employee_products"`
}
