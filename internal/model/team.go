package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

// TeamMember is a console user. Permissions only apply to employees;
// owners and admins can do everything.
type TeamMember struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string         `gorm:"type:varchar(20)" json:"phone"`
	AlternatePhone string         `gorm:"type:varchar(20)" json:"alternatePhone"`
	Department     string         `gorm:"type:varchar(100)" json:"department"`
	Designation    string         `gorm:"type:varchar(100)" json:"designation"`
	Address        string         `gorm:"type:text" json:"address"`
	Role           string         `gorm:"type:varchar(20);not null;default:'employee';index" json:"role"`
	Username       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password       string         `gorm:"type:varchar(255);not null" json:"-"`
	Status         string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Permissions    pq.StringArray `gorm:"type:text[]" json:"permissions"`
	LastLoginAt    *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Permission is one grantable feature area.
type Permission struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Permissions lists every feature area an employee can be granted.
var Permissions = []Permission{
	{ID: "bookings", Label: "Bookings Management"},
	{ID: "vehicles", Label: "Vehicles Management"},
	{ID: "consumers", Label: "Consumers Management"},
	{ID: "payments", Label: "Payments & Invoicing"},
	{ID: "expenses", Label: "Expense Tracking"},
	{ID: "vendors", Label: "Vendor Management"},
	{ID: "reports", Label: "Reports & Analytics"},
	{ID: "drivers", Label: "Driver Management"},
	{ID: "documents", Label: "Document Management"},
	{ID: "rates", Label: "Rate Card Management"},
	{ID: "team", Label: "Team Management"},
	{ID: "chat", Label: "Chat Support"},
}

// IsPermission reports whether id names a known feature area.
func IsPermission(id string) bool {
	for _, p := range Permissions {
		if p.ID == id {
			return true
		}
	}
	return false
}
